package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/megayours/megadata-studio/internal/logger"
)

// RemoteError carries the status code and the remote-provided message of a
// failed HTTP call so callers can surface the remote message when available.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("remote error (%d)", e.StatusCode)
}

// HTTPClient defines an interface for HTTP client operations to enable mocking
//
//go:generate mockgen -source=http.go -destination=../mocks/http.go -package=mocks -mock_names=HTTPClient=MockHTTPClient
type HTTPClient interface {
	// Get performs a GET request and unmarshals the response into result
	Get(ctx context.Context, url string, headers map[string]string, result interface{}) error

	// PostJSON performs a POST request with a JSON body and returns the response body
	PostJSON(ctx context.Context, url string, headers map[string]string, body interface{}) ([]byte, error)

	// Delete performs a DELETE request and discards the response body
	Delete(ctx context.Context, url string, headers map[string]string) error
}

// RealHTTPClient implements HTTPClient using the standard http package
type RealHTTPClient struct {
	client *http.Client
}

// NewHTTPClient creates a new real HTTP client
func NewHTTPClient(timeout time.Duration) HTTPClient {
	return &RealHTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// remoteMessage extracts a human-readable message from a JSON error body.
// Bodies commonly look like {"error": "..."} or {"message": "..."}.
func remoteMessage(body []byte) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return string(body)
}

// doRequestWithRetry executes an HTTP request with exponential backoff retry
// for rate limiting. Rate-limit backoff happens within one logical call; no
// caller-visible operation is ever re-submitted.
func (c *RealHTTPClient) doRequestWithRetry(ctx context.Context, build func() (*http.Request, error)) ([]byte, error) {
	var respBody []byte

	operation := func() error {
		req, err := build()
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			// Network errors are retryable
			return fmt.Errorf("failed to perform request: %w", err)
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				logger.Warn("failed to close response body", zap.Error(err), zap.String("url", req.URL.String()))
			}
		}()

		if resp.StatusCode == http.StatusTooManyRequests {
			logger.Warn("rate limited, retrying with backoff", zap.String("url", req.URL.String()))
			return fmt.Errorf("rate limited (429), retrying")
		}

		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			body, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(&RemoteError{
				StatusCode: resp.StatusCode,
				Message:    remoteMessage(body),
			})
		}

		respBody, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to read response body: %w", err))
		}

		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Second
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 1 * time.Minute
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.5

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return nil, err
	}

	return respBody, nil
}

// Get performs a GET request and unmarshals the response into result
func (c *RealHTTPClient) Get(ctx context.Context, url string, headers map[string]string, result interface{}) error {
	respBody, err := c.doRequestWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return req, nil
	})
	if err != nil {
		return err
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// PostJSON performs a POST request with a JSON body and returns the response body
func (c *RealHTTPClient) PostJSON(ctx context.Context, url string, headers map[string]string, body interface{}) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	return c.doRequestWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return req, nil
	})
}

// Delete performs a DELETE request and discards the response body
func (c *RealHTTPClient) Delete(ctx context.Context, url string, headers map[string]string) error {
	_, err := c.doRequestWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return req, nil
	})
	return err
}
