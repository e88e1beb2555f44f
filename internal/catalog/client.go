package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Fetcher issues catalog queries. *Client implements it; tests substitute fakes.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) (Listing, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the catalog HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *slog.Logger
}

const (
	defaultAPIURL         = "127.0.0.1:8080"
	defaultUserAgent      = "phonecat/0.1"
	defaultRequestTimeout = 10 * time.Second
	maxBodyBytes          = 8 << 20
)

// NewClient builds a Client for the service at apiURL (host:port or a full
// URL). A non-positive timeout uses the default.
func NewClient(apiURL string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
		logger:    slog.New(slog.DiscardHandler),
	}, nil
}

// SetLogger routes per-request debug logging to logger. Nil is ignored.
func (c *Client) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// BaseURL returns the service root the client resolves requests against.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// Fetch issues q and returns the validated records. Failures are *Error values
// matching ErrTransport, ErrProtocol or ErrApplication.
func (c *Client) Fetch(ctx context.Context, q Query) (Listing, error) {
	if c == nil {
		return Listing{}, fmt.Errorf("client is nil")
	}
	rel := q.URL()
	requestID := uuid.NewString()

	body, status, err := c.get(ctx, rel, requestID)
	if err != nil {
		return Listing{}, &Error{Kind: ErrTransport, Op: rel.String(), RequestID: requestID, Err: err}
	}

	phones, page, err := decodeEnvelope(q, body)
	if status < 200 || status >= 300 {
		var appErr *Error
		// An error envelope still explains the failure better than the status alone.
		if !errors.As(err, &appErr) || appErr.Kind != ErrApplication {
			appErr = &Error{Kind: ErrProtocol, Err: fmt.Errorf("api %s returned status %d", rel.Path, status)}
		}
		err = appErr
	}
	if err != nil {
		var fetchErr *Error
		if !errors.As(err, &fetchErr) {
			fetchErr = &Error{Kind: ErrProtocol, Err: err}
		}
		fetchErr.Op = rel.String()
		fetchErr.RequestID = requestID
		fetchErr.Status = status
		return Listing{}, fetchErr
	}
	return Listing{Phones: phones, Page: page, RequestID: requestID}, nil
}

func (c *Client) get(ctx context.Context, rel *url.URL, requestID string) ([]byte, int, error) {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("catalog request failed",
			"request_id", requestID,
			"url", reqURL.String(),
			"elapsed", time.Since(start).String(),
			"error", err)
		return nil, 0, fmt.Errorf("execute request: %w", err)
	}
	c.logger.Debug("catalog request",
		"request_id", requestID,
		"url", reqURL.String(),
		"status", resp.StatusCode,
		"elapsed", time.Since(start).String())
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", apiURL)
	}
	u.Path = ""
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
