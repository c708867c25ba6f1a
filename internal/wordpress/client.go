package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"archivist/internal/config"
	"archivist/internal/logging"
	"archivist/internal/services"
	"archivist/internal/textutil"
)

const (
	apiPrefix            = "/wp-json/wp/v2"
	defaultLookupTimeout = 30 * time.Second
	defaultWriteTimeout  = 45 * time.Second
	maxResponseBytes     = 16 << 20
	perPage              = 100
)

// HTTPDoer describes the HTTP client used by the CMS client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config captures connection and publishing settings.
type Config struct {
	BaseURL     string
	Username    string
	AppPassword string
	UserAgent   string
	// AuthorName is the display name searched for on every post. Empty
	// disables author attribution.
	AuthorName string
	// AuthorFallbackHandle is accepted as a username match during author
	// resolution even when it differs from AuthorName.
	AuthorFallbackHandle string
	FeaturedMediaID      int64
	LookupTimeout        time.Duration
	WriteTimeout         time.Duration
}

// Client wraps the WordPress REST API.
type Client struct {
	cfg      Config
	apiBase  string
	http     HTTPDoer
	category CategoryResolver
	logger   *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.http = doer
		}
	}
}

// WithCategoryResolver sets the category policy applied to created posts.
func WithCategoryResolver(resolver CategoryResolver) Option {
	return func(c *Client) {
		c.category = resolver
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient constructs a client. Posts carry no category unless a resolver
// is supplied.
func NewClient(cfg Config, opts ...Option) *Client {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.AuthorName = strings.TrimSpace(cfg.AuthorName)
	cfg.AuthorFallbackHandle = strings.TrimSpace(cfg.AuthorFallbackHandle)
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = defaultLookupTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	client := &Client{
		cfg:      cfg,
		apiBase:  cfg.BaseURL + apiPrefix,
		http:     http.DefaultClient,
		category: FixedCategory{},
	}
	for _, opt := range opts {
		opt(client)
	}
	client.logger = logging.NewComponentLogger(client.logger, "wordpress")
	return client
}

// NewFromConfig builds a client and category resolver from application config.
func NewFromConfig(cfg *config.Config, logger *slog.Logger, opts ...Option) *Client {
	wp := cfg.WordPress
	client := NewClient(Config{
		BaseURL:              wp.BaseURL,
		Username:             wp.Username,
		AppPassword:          wp.AppPassword,
		UserAgent:            wp.UserAgent,
		AuthorName:           wp.AuthorName,
		AuthorFallbackHandle: wp.AuthorFallbackHandle,
		FeaturedMediaID:      wp.FeaturedMediaID,
		LookupTimeout:        time.Duration(wp.LookupTimeoutSeconds) * time.Second,
		WriteTimeout:         time.Duration(wp.WriteTimeoutSeconds) * time.Second,
	}, append([]Option{WithLogger(logger)}, opts...)...)
	if wp.CategoryPolicy == config.CategoryPolicySearchOrCreate {
		client.category = &SearchOrCreateCategory{Client: client, Name: wp.CategoryName, Slug: wp.CategorySlug}
	} else {
		client.category = FixedCategory{ID: wp.CategoryID}
	}
	return client
}

// APIBase returns the REST root, e.g. https://example.org/wp-json/wp/v2.
func (c *Client) APIBase() string { return c.apiBase }

type response struct {
	status      int
	contentType string
	header      http.Header
	body        []byte
}

func (r *response) ok() bool { return r.status >= 200 && r.status < 300 }

func (r *response) snippet() string {
	return textutil.Snippet(strings.TrimSpace(string(r.body)), snippetLimit)
}

func (r *response) apiError(op string) *APIError {
	return &APIError{Op: op, StatusCode: r.status, ContentType: r.contentType, Snippet: r.snippet()}
}

// decode parses a JSON body into dst, reporting non-JSON or malformed bodies
// as *ResponseError.
func (r *response) decode(op string, dst any) error {
	if !strings.Contains(r.contentType, "application/json") {
		return &ResponseError{Op: op, Reason: "non-JSON response", StatusCode: r.status, ContentType: r.contentType, Snippet: r.snippet()}
	}
	if err := json.Unmarshal(r.body, dst); err != nil {
		return &ResponseError{Op: op, Reason: "invalid JSON", StatusCode: r.status, ContentType: r.contentType, Snippet: textutil.Snippet(string(r.body), snippetLimit)}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.LookupTimeout)
	defer cancel()
	return c.do(ctx, http.MethodGet, path, params, nil)
}

func (c *Client) post(ctx context.Context, path string, payload any) (*response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", path, err)
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.WriteTimeout)
	defer cancel()
	return c.do(ctx, http.MethodPost, path, nil, body)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body []byte) (*response, error) {
	endpoint := c.apiBase + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.SetBasicAuth(c.cfg.Username, c.cfg.AppPassword)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	req.Header.Set("Accept", "application/json, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("DNT", "1")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("cms request", logging.String("method", method), logging.String("path", path))
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}
	c.logger.Debug("cms response",
		logging.String("method", method),
		logging.String("path", path),
		logging.Int("status", resp.StatusCode),
	)
	return &response{
		status:      resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		header:      resp.Header,
		body:        data,
	}, nil
}

// isTimeout reports deadline expiry from either the context or the transport.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func wrapWriteError(op string, err error) error {
	if isTimeout(err) {
		return services.Wrap(services.ErrUnknownOutcome, "wordpress", op, "request timed out before a response arrived", err)
	}
	return services.Wrap(services.ErrTransient, "wordpress", op, "request failed", err)
}
