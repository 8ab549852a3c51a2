// Package attom fetches raw property records from the ATTOM property API.
package attom

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"propertyiq/internal/config"
	"propertyiq/internal/logger"
	"propertyiq/internal/models"
	"propertyiq/pkg/utils"
)

// Transport errors.
var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrMissingAPIKey        = errors.New("attom API key is not configured")
	ErrMalformedResponse    = errors.New("malformed provider response")
)

// Provider endpoints, relative to the configured base URL.
const (
	expandedProfilePath = "/property/expandedprofile"
	snapshotPath        = "/property/snapshot"
	detailPath          = "/property/detail"
)

const maxBodyBytes = 8 << 20

// Client queries the provider with config-driven retry logic.
type Client struct {
	client      *http.Client
	retryPolicy config.RetryPolicy
	baseURL     string
	apiKey      string
	show        string
	maxPageSize int
	logger      *logger.Logger
}

// NewClient creates a provider client from the provider configuration.
func NewClient(cfg config.ProviderConfig, log *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	if log == nil {
		log = logger.Discard()
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.Retry.GetTimeout(),
		},
		retryPolicy: cfg.Retry,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		show:        cfg.Show,
		maxPageSize: cfg.MaxPageSize,
		logger:      log,
	}, nil
}

// Fetch returns up to limit raw records for one postal code. The expanded profile is
// tried first; any failure there falls back to the basic snapshot.
func (c *Client) Fetch(ctx context.Context, postalCode string, limit int) ([]models.RawRecord, error) {
	query := url.Values{}
	query.Set("postalcode", postalCode)
	query.Set("pagesize", strconv.Itoa(c.pageSize(limit)))

	expanded := cloneValues(query)
	if c.show != "" {
		expanded.Set("show", c.show)
	}

	records, err := c.getRecords(ctx, expandedProfilePath, expanded)
	if err == nil {
		return records, nil
	}

	if ctx.Err() != nil {
		return nil, err
	}

	c.logger.Warn("expanded profile failed, falling back to snapshot", "postal_code", postalCode, "error", err)

	records, snapErr := c.getRecords(ctx, snapshotPath, query)
	if snapErr != nil {
		return nil, fmt.Errorf("postal code %s: %w", postalCode, errors.Join(err, snapErr))
	}

	return records, nil
}

// FetchByID returns the detail record for one provider identifier, or nil when the
// provider has none.
func (c *Client) FetchByID(ctx context.Context, id string) (models.RawRecord, error) {
	query := url.Values{}
	query.Set("attomid", id)

	records, err := c.getRecords(ctx, detailPath, query)
	if err != nil {
		return nil, err
	}

	for _, record := range records {
		if record != nil {
			return record, nil
		}
	}

	return nil, nil
}

func (c *Client) pageSize(limit int) int {
	if limit < 1 {
		limit = 1
	}

	if c.maxPageSize > 0 && limit > c.maxPageSize {
		return c.maxPageSize
	}

	return limit
}

func (c *Client) getRecords(ctx context.Context, path string, query url.Values) ([]models.RawRecord, error) {
	body, err := c.get(ctx, c.baseURL+path+"?"+query.Encode())
	if err != nil {
		return nil, err
	}

	return DecodeRecords(body)
}

// get performs a GET with retries on transient failures and returns the body of a 200 response.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= c.retryPolicy.MaxAttempts; attempt++ {
		body, status, err := c.do(ctx, rawURL)
		if err == nil {
			return body, nil
		}

		lastErr = fmt.Errorf("request failed (attempt %d/%d): %w", attempt, c.retryPolicy.MaxAttempts, err)

		retryable := status == 0 || isRetryableStatus(status)
		if !retryable || attempt == c.retryPolicy.MaxAttempts || ctx.Err() != nil {
			break
		}

		if delay := c.retryPolicy.GetRetryDelay(attempt); delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return nil, lastErr
}

func (c *Client) do(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = utils.ProviderHeaders(c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, resp.StatusCode, nil
}

// DecodeRecords extracts the "property" array from a provider response body. Numbers are
// kept as json.Number; array items that are not objects become nil records.
func DecodeRecords(body []byte) ([]models.RawRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var envelope map[string]any
	if err := dec.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	raw, ok := envelope["property"]
	if !ok || raw == nil {
		return []models.RawRecord{}, nil
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: property is %T, not a list", ErrMalformedResponse, raw)
	}

	records := make([]models.RawRecord, 0, len(items))
	for _, item := range items {
		record, _ := item.(map[string]any)
		records = append(records, record)
	}

	return records, nil
}

// isRetryableStatus determines if we should retry based on HTTP status code.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout,
		http.StatusTooManyRequests, http.StatusRequestTimeout:
		return true
	}

	return false
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}

	return out
}
