// Package grist implements the document collaborator over the Grist REST
// API: ordered metadata mutations through the apply endpoint and metadata
// queries through the parameterized sql endpoint.
//
// Retries, timeouts, and rate limiting live here; the layers above treat
// every remote call as an opaque operation that resolves or rejects.
package grist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/gwhthompson/grist-mcp-server-sub005/pkg/core"
)

// DefaultBaseURL is the hosted Grist endpoint.
const DefaultBaseURL = "https://docs.getgrist.com"

const (
	defaultTimeout = 30 * time.Second
	maxRetries     = 3
	retryBase      = 500 * time.Millisecond
)

// Config holds client configuration.
type Config struct {
	// BaseURL is the Grist server root (default DefaultBaseURL).
	BaseURL string
	// APIKey is the bearer token.
	APIKey string
	// DocID identifies the document all calls target.
	DocID string
	// Timeout bounds each HTTP request (default 30s).
	Timeout time.Duration
	// HTTPClient overrides the underlying client (optional).
	HTTPClient *http.Client
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Client talks to one Grist document. It implements core.Doc.
type Client struct {
	baseURL string
	apiKey  string
	docID   string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a document client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("grist: api key is required")
	}
	if cfg.DocID == "" {
		return nil, fmt.Errorf("grist: doc id is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		docID:   cfg.DocID,
		http:    httpClient,
		logger:  logger,
	}, nil
}

// Apply issues one ordered action batch against the document.
func (c *Client) Apply(ctx context.Context, actions []core.Action) (*core.ApplyResult, error) {
	var result core.ApplyResult
	if err := c.post(ctx, "/apply", actions, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// sqlRow is one record of a sql endpoint response, keyed by column name.
type sqlRow map[string]json.RawMessage

// sql runs one parameterized statement against the document's metadata.
func (c *Client) sql(ctx context.Context, stmt string, args []any) ([]sqlRow, error) {
	body := map[string]any{"sql": stmt}
	if len(args) > 0 {
		body["args"] = args
	}
	var out struct {
		Records []struct {
			Fields sqlRow `json:"fields"`
		} `json:"records"`
	}
	if err := c.post(ctx, "/sql", body, &out); err != nil {
		return nil, err
	}
	rows := make([]sqlRow, len(out.Records))
	for i, rec := range out.Records {
		rows[i] = rec.Fields
	}
	return rows, nil
}

// post sends one JSON request and decodes the response into out. Responses
// with status 429 or 5xx are retried with exponential backoff; other
// failures surface as RemoteError.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("grist: encoding request body: %w", err)
	}

	url := fmt.Sprintf("%s/api/docs/%s%s", c.baseURL, c.docID, path)
	reqID := uuid.NewString()
	start := time.Now()

	backoff := retry.WithMaxRetries(maxRetries, retry.NewExponential(retryBase))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(err)
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			c.logger.Warn("retrying remote call",
				"path", path, "status", resp.StatusCode, "request_id", reqID)
			return retry.RetryableError(&core.RemoteError{
				Path: path, Status: resp.StatusCode, Body: truncate(data),
			})
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &core.RemoteError{Path: path, Status: resp.StatusCode, Body: truncate(data)}
		}

		if out != nil {
			if err := json.Unmarshal(data, out); err != nil {
				return fmt.Errorf("grist: decoding %s response: %w", path, err)
			}
		}
		return nil
	})

	c.logger.Debug("remote call",
		"path", path, "request_id", reqID, "elapsed", time.Since(start), "err", err != nil)
	return err
}

func truncate(body []byte) string {
	const limit = 512
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
