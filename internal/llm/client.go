package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"schedule-scribe-go/internal/config"
	"schedule-scribe-go/internal/logger"
)

// ErrSchema marks responses that could not be coerced into the expected
// structured shape after exhausting retries. Terminal for the submission.
var ErrSchema = errors.New("model output did not match the expected schema")

// Request is one structured-extraction request. The target schema is
// described inside the system prompt; the response must be a JSON object
// unmarshalable into the caller's output value.
type Request struct {
	System string
	User   string
}

// Extractor turns a prompt pair into a schema-conforming value. The
// pipeline depends on this interface so tests can substitute a
// deterministic fake for the live completion service.
type Extractor interface {
	Extract(ctx context.Context, req Request, out any) error
}

// Client implements Extractor against an OpenAI-compatible chat completions
// endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	maxRetries uint64
	httpClient *http.Client
	log        *logger.Logger
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.ChatModel,
		maxRetries: uint64(cfg.MaxRetries),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        logger.New(),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

// Extract sends the prompt pair and unmarshals the first JSON object found
// in the model's reply into out. Transport failures and unparseable replies
// are retried up to the configured bound; 4xx responses are permanent.
func (c *Client) Extract(ctx context.Context, req Request, out any) error {
	log := c.log.WithField("component", "llm").WithField("model", c.model)

	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: 0.0,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal chat request: %w", err)
	}

	var lastErr error
	op := func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(data))
		if err != nil {
			return backoff.Permanent(err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			lastErr = err
			log.WithError(err).Warn("llm request failed")
			return err
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("llm server error: %s", string(respBody))
			return lastErr
		}
		if resp.StatusCode >= 400 {
			lastErr = fmt.Errorf("llm request rejected (%d): %s", resp.StatusCode, string(respBody))
			return backoff.Permanent(lastErr)
		}

		if isChatEnvelope(respBody) {
			if inner := contentFromChoices(respBody); inner != "" {
				if err := json.Unmarshal([]byte(inner), out); err == nil {
					lastErr = nil
					return nil
				}
				log.Warn("unmarshal from choices content failed")
			}
		} else if raw := extractJSON(string(respBody)); raw != "" {
			// Some gateways reply with the object directly instead of a
			// chat envelope.
			if err := json.Unmarshal([]byte(raw), out); err == nil {
				lastErr = nil
				return nil
			}
		}

		lastErr = fmt.Errorf("%w: no usable JSON in model reply", ErrSchema)
		return lastErr
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return fmt.Errorf("extraction failed after %d retries: %w", c.maxRetries, lastErr)
	}
	return nil
}
