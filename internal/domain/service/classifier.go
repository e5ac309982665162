package service

import (
	"context"
	"errors"
)

// Gateway failure taxonomy. Adapters wrap one of these sentinels so the
// orchestrator can decide between retrying, skipping the record, or
// aborting the whole batch.
var (
	// ErrAuthFailure means the credentials or endpoint are wrong. It is
	// systemic: retrying another record with the same credentials cannot
	// succeed, so the batch is aborted.
	ErrAuthFailure = errors.New("classification service rejected credentials")

	// ErrTimeout means the request exceeded the configured deadline.
	ErrTimeout = errors.New("classification service timed out")

	// ErrRateLimited means the service asked us to slow down (429).
	ErrRateLimited = errors.New("classification service rate limited")

	// ErrTransient covers 5xx responses and connection-level failures.
	ErrTransient = errors.New("classification service transient failure")
)

// Retryable reports whether a gateway error is worth one more attempt.
func Retryable(err error) bool {
	return errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrTransient)
}

// Prompt is a fully built model request: a system instruction plus the
// per-record user message.
type Prompt struct {
	System string
	User   string
}

// Gateway is the boundary to the external language-model service. Classify
// issues one network call and returns the raw completion text; structured
// interpretation of that text is the parser's job, not the gateway's.
type Gateway interface {
	Classify(ctx context.Context, prompt Prompt) (string, error)
}
