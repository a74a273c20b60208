// Package remote syncs the trip document with its cloud store: a
// single-document JSON endpoint in the Apps Script webhook style. The
// Client speaks the endpoint's quirky wire format, the Scheduler
// debounces saves, and the Bridge ties both to the orchestrator.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/mchou/campnook/internal/model"
)

// ErrEmpty means the remote store has no document yet.
var ErrEmpty = errors.New("remote store is empty")

// Client talks to the document endpoint. Saves are posted as a JSON
// body with a text/plain content type; the endpoint predates proper
// CORS handling and rejects preflighted requests, so the content type
// stays.
type Client struct {
	httpClient *http.Client
	url        string
	logger     *slog.Logger
}

// NewClient creates a Client for the given endpoint URL.
func NewClient(url string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		url:        url,
		logger:     logger.With("component", "remote"),
	}
}

type statusEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Fetch loads the remote document. ErrEmpty means nothing has been
// saved yet; transient failures are retried with exponential backoff.
func (c *Client) Fetch(ctx context.Context) (*model.AppData, error) {
	var data *model.AppData

	backoff := retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		data, err = c.fetchOnce(ctx)
		if err == nil || errors.Is(err, ErrEmpty) {
			return err
		}
		c.logger.Warn("fetch failed, retrying", "error", err)
		return retry.RetryableError(err)
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *Client) fetchOnce(ctx context.Context) (*model.AppData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote returned status %d", resp.StatusCode)
	}

	// The endpoint reports empty and error states inside a 200 body.
	var env statusEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		switch env.Status {
		case "empty":
			return nil, ErrEmpty
		case "error":
			return nil, fmt.Errorf("remote error: %s", env.Message)
		}
	}

	var data model.AppData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &data, nil
}

// Save uploads the whole document, retrying transient failures.
func (c *Client) Save(ctx context.Context, data *model.AppData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	backoff := retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := c.saveOnce(ctx, payload); err != nil {
			c.logger.Warn("save failed, retrying", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (c *Client) saveOnce(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode > 399 {
		return fmt.Errorf("remote returned status %d", resp.StatusCode)
	}
	return nil
}
