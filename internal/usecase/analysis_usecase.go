// Package usecase implements the batch analysis pipeline: prompt building,
// response parsing, and the fan-out orchestration over the model gateway.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/oppsight/analysis-api/internal/domain/entity"
	"github.com/oppsight/analysis-api/internal/domain/service"
	"github.com/oppsight/analysis-api/internal/domain/taxonomy"
	"github.com/oppsight/analysis-api/internal/infrastructure/config"
	"github.com/oppsight/analysis-api/internal/infrastructure/metrics"
)

// Error definitions for the analysis usecase
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrUpstreamAuth   = errors.New("classification service authentication failed")
)

// AnalyzeOutput is the assembled outcome of one batch. Results holds only
// the records that classified successfully; ProcessedCount counts every
// attempted record including failures.
type AnalyzeOutput struct {
	Results        map[string]entity.ClassificationResult `json:"results"`
	ProcessedCount int                                    `json:"processed_count"`
	Timestamp      string                                 `json:"timestamp"`
}

// AnalysisUsecase defines the interface for the opportunity analysis
// business logic.
type AnalysisUsecase interface {
	Analyze(ctx context.Context, batch []entity.OpportunityRecord) (*AnalyzeOutput, error)
	OpportunityTypes() []string
}

type analysisUsecase struct {
	gateway service.Gateway
	cfg     config.AnalysisConfig
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewAnalysisUsecase creates the batch analysis usecase.
func NewAnalysisUsecase(gateway service.Gateway, cfg config.AnalysisConfig, m *metrics.Metrics, log *zap.Logger) AnalysisUsecase {
	if cfg.Workers <= 0 {
		cfg.Workers = 5
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 500 * time.Millisecond
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &analysisUsecase{
		gateway: gateway,
		cfg:     cfg,
		metrics: m,
		log:     log,
	}
}

// OpportunityTypes returns the taxonomy labels in registry order.
func (u *analysisUsecase) OpportunityTypes() []string {
	return taxonomy.List()
}

// Analyze classifies every record in the batch independently through a
// bounded worker pool. A record failure excludes its id from the results
// but never aborts the batch; only an authentication failure does, since
// credentials are shared across all records.
func (u *analysisUsecase) Analyze(ctx context.Context, batch []entity.OpportunityRecord) (*AnalyzeOutput, error) {
	if len(batch) == 0 {
		return nil, fmt.Errorf("%w: no opportunities provided", ErrInvalidRequest)
	}

	type indexed struct {
		idx    int
		result entity.ClassificationResult
	}

	var mu sync.Mutex
	outcomes := make(map[string]indexed, len(batch))

	// Duplicate ids resolve to the later record in batch order, regardless
	// of which goroutine finishes first.
	store := func(idx int, id string, res entity.ClassificationResult) {
		mu.Lock()
		defer mu.Unlock()
		if existing, ok := outcomes[id]; ok && existing.idx > idx {
			return
		}
		outcomes[id] = indexed{idx: idx, result: res}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.cfg.Workers)

	for i, rec := range batch {
		i, rec := i, rec
		g.Go(func() error {
			result, err := u.classifyOne(gctx, rec)
			if err != nil {
				if errors.Is(err, service.ErrAuthFailure) {
					return fmt.Errorf("%w: %v", ErrUpstreamAuth, err)
				}
				u.log.Warn("opportunity classification failed",
					zap.String("opportunity_id", rec.ID),
					zap.Error(err),
				)
				if u.cfg.KeywordFallback {
					store(i, rec.ID, keywordClassify(rec))
					u.countRecord(metrics.OutcomeFallback)
				} else {
					u.countRecord(metrics.OutcomeFailed)
				}
				return nil
			}
			store(i, rec.ID, result)
			u.countRecord(metrics.OutcomeClassified)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		// The caller is gone; there is nobody to receive partial results.
		return nil, err
	}

	results := make(map[string]entity.ClassificationResult, len(outcomes))
	for id, o := range outcomes {
		results[id] = o.result
	}
	return assemble(results, len(batch)), nil
}

// classifyOne runs the per-record pipeline: validate, build prompt, call the
// gateway with retry, parse.
func (u *analysisUsecase) classifyOne(ctx context.Context, rec entity.OpportunityRecord) (entity.ClassificationResult, error) {
	prompt, err := BuildPrompt(rec)
	if err != nil {
		return entity.ClassificationResult{}, err
	}

	raw, err := u.callGateway(ctx, prompt)
	if err != nil {
		return entity.ClassificationResult{}, err
	}

	return ParseClassification(raw)
}

// callGateway issues the model call with a bounded retry loop. Only errors
// the gateway marks retryable get another attempt; parse errors and auth
// failures never do.
func (u *analysisUsecase) callGateway(ctx context.Context, prompt service.Prompt) (string, error) {
	attempts := u.cfg.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if u.metrics != nil {
				u.metrics.GatewayRetries.Inc()
			}
			if err := sleepBackoff(ctx, u.backoffFor(lastErr)); err != nil {
				return "", err
			}
		}

		start := time.Now()
		raw, err := u.gateway.Classify(ctx, prompt)
		if u.metrics != nil {
			u.metrics.GatewayLatency.Observe(time.Since(start).Seconds())
		}
		if err == nil {
			return raw, nil
		}
		if !service.Retryable(err) {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}

// backoffFor returns the delay before a retry: the configured base with up
// to 50% jitter, doubled when the service asked us to slow down.
func (u *analysisUsecase) backoffFor(err error) time.Duration {
	base := u.cfg.RetryBackoff
	if errors.Is(err, service.ErrRateLimited) {
		base *= 2
	}
	jitter := time.Duration(rand.Int64N(int64(base)/2 + 1))
	return base + jitter
}

func sleepBackoff(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (u *analysisUsecase) countRecord(outcome string) {
	if u.metrics != nil {
		u.metrics.RecordsProcessed.WithLabelValues(outcome).Inc()
	}
}

// assemble stamps the completion timestamp after every outcome has
// resolved.
func assemble(results map[string]entity.ClassificationResult, attempted int) *AnalyzeOutput {
	return &AnalyzeOutput{
		Results:        results,
		ProcessedCount: attempted,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}
}
