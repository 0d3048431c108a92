// Package llm holds the client for the hosted chat-completion API. The
// provider speaks the OpenAI chat-completions wire format, so any compatible
// endpoint works through the BaseURL config.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/apperrors"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/config"
	"gitlab.com/timkado/api/daisi-sdr-service/pkg/logger"
)

// Message is one turn in a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client produces completions for a persona-tagged message list.
type Client interface {
	// CreateCompletion returns the assistant text for the given messages.
	// An empty string with a nil error means the provider returned no
	// usable content.
	CreateCompletion(ctx context.Context, messages []Message, maxTokens int) (string, error)
}

type completionRequest struct {
	Model               string    `json:"model"`
	Messages            []Message `json:"messages"`
	MaxCompletionTokens int       `json:"max_completion_tokens,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// HTTPClient is the production Client over a chat-completions endpoint.
type HTTPClient struct {
	apiKey     string
	baseURL    string
	model      string
	maxElapsed time.Duration
	httpClient *http.Client
}

// NewHTTPClient builds a client from the completion config section.
func NewHTTPClient(cfg config.CompletionConfig) *HTTPClient {
	return &HTTPClient{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		maxElapsed: cfg.MaxElapsed,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// CreateCompletion posts the message list and returns the first choice's
// content. Transport errors and 429/5xx responses are retried with
// exponential backoff; other provider errors fail immediately.
func (c *HTTPClient) CreateCompletion(ctx context.Context, messages []Message, maxTokens int) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: API key not configured", apperrors.ErrUpstream)
	}

	reqBody := completionRequest{
		Model:               c.model,
		Messages:            messages,
		MaxCompletionTokens: maxTokens,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal request: %w", apperrors.ErrUpstream, err)
	}

	var content string
	operation := func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
		if reqErr != nil {
			return backoff.Permanent(fmt.Errorf("%w: failed to create request: %w", apperrors.ErrUpstream, reqErr))
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, doErr := c.httpClient.Do(req)
		if doErr != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(fmt.Errorf("%w: %w", apperrors.ErrTimeout, doErr))
			}
			// Transport failures are worth retrying
			return fmt.Errorf("%w: request failed: %w", apperrors.ErrUpstream, doErr)
		}
		defer resp.Body.Close()

		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("%w: failed to read response: %w", apperrors.ErrUpstream, readErr)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: rate limit exceeded (429)", apperrors.ErrRateLimited)
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("%w: provider error %d: %s", apperrors.ErrUpstream, resp.StatusCode, truncateBody(body))
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("%w: request failed with status %d: %s", apperrors.ErrUpstream, resp.StatusCode, truncateBody(body)))
		}

		var completion completionResponse
		if unmarshalErr := json.Unmarshal(body, &completion); unmarshalErr != nil {
			return backoff.Permanent(fmt.Errorf("%w: failed to parse response: %w", apperrors.ErrUpstream, unmarshalErr))
		}
		if completion.Error != nil {
			return backoff.Permanent(fmt.Errorf("%w: provider error: %s", apperrors.ErrUpstream, completion.Error.Message))
		}
		if len(completion.Choices) == 0 {
			content = ""
			return nil
		}
		content = strings.TrimSpace(completion.Choices[0].Message.Content)
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxElapsedTime = c.maxElapsed
	policy := backoff.WithContext(b, ctx)

	notify := func(err error, d time.Duration) {
		logger.FromContext(ctx).Warn("Retrying completion call",
			zap.Error(err),
			zap.Duration("after", d),
		)
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return "", err
	}
	return content, nil
}

// truncateBody keeps provider error payloads loggable.
func truncateBody(body []byte) string {
	const max = 512
	s := string(body)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
