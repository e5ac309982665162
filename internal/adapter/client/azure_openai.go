// Package client contains adapters for external services.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oppsight/analysis-api/internal/domain/service"
	"github.com/oppsight/analysis-api/internal/infrastructure/config"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// AzureOpenAI talks to an Azure OpenAI chat-completions deployment. It is the
// only component that performs outbound network calls; everything it returns
// is raw completion text for the parser to interpret.
type AzureOpenAI struct {
	endpoint     string
	key          string
	apiVersion   string
	deploymentID string
	httpClient   *http.Client
}

// NewAzureOpenAI creates a gateway client from the Azure configuration.
func NewAzureOpenAI(cfg config.AzureConfig) *AzureOpenAI {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AzureOpenAI{
		endpoint:     strings.TrimRight(cfg.Endpoint, "/"),
		key:          cfg.SubscriptionKey,
		apiVersion:   cfg.APIVersion,
		deploymentID: cfg.DeploymentID,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// Classify sends one chat-completions request and returns the completion
// text. Failures are wrapped in the gateway error taxonomy so the caller can
// distinguish retryable conditions from fatal ones.
func (c *AzureOpenAI) Classify(ctx context.Context, prompt service.Prompt) (string, error) {
	if c.key == "" || c.endpoint == "" || c.deploymentID == "" {
		return "", fmt.Errorf("%w: gateway not configured", service.ErrAuthFailure)
	}

	reqBody := chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		MaxTokens:   300,
		Temperature: 0.1,
		TopP:        0.9,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.endpoint, c.deploymentID, url.QueryEscape(c.apiVersion))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		detail := strings.TrimSpace(string(body))
		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return "", fmt.Errorf("%w: status %d: %s", service.ErrAuthFailure, resp.StatusCode, detail)
		case resp.StatusCode == http.StatusTooManyRequests:
			return "", fmt.Errorf("%w: status %d: %s", service.ErrRateLimited, resp.StatusCode, detail)
		case resp.StatusCode >= http.StatusInternalServerError:
			return "", fmt.Errorf("%w: status %d: %s", service.ErrTransient, resp.StatusCode, detail)
		default:
			return "", fmt.Errorf("azure openai returned status %d: %s", resp.StatusCode, detail)
		}
	}

	var completion chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("azure openai returned no choices")
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("azure openai returned empty completion")
	}
	return content, nil
}

func classifyTransportError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		// The caller cancelled or the overall request deadline passed;
		// surface that rather than a gateway failure.
		return ctx.Err()
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", service.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", service.ErrTransient, err)
}
