// Package platform talks to the Analyze Re REST API: it retrieves
// LayerViews, creates layer views and downloads their YELTs, and creates
// distributions and loss sets.
//
// The client is built on fasthttp, retries transient failures (network
// errors, 5xx responses, truncated bodies) with exponential backoff, and
// optionally caches raw documents:
//
//	c, err := platform.NewClient(platform.Config{
//	    BaseURL:  "https://api.analyzere.net",
//	    Username: user,
//	    Password: pass,
//	}, platform.WithCache(fileCache, time.Hour))
//	lv, err := c.LayerView(ctx, "ee3f8420-c583-4dd4-9f9d-8ade29b0d82f")
package platform

import (
	"context"
	"encoding/base64"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/analyzere/extras/pkg/buildinfo"
	"github.com/analyzere/extras/pkg/cache"
	"github.com/analyzere/extras/pkg/errors"
	"github.com/analyzere/extras/pkg/httputil"
	"github.com/analyzere/extras/pkg/model"
	"github.com/analyzere/extras/pkg/observability"
)

// Defaults.
const (
	DefaultTimeout  = 30 * time.Second
	DefaultAttempts = 3
	DefaultBackoff  = time.Second

	DefaultPollInterval = time.Second
)

// Config holds connection settings.
type Config struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
	Attempts int
	Backoff  time.Duration
	// PollInterval spaces status checks while uploaded data is processed.
	PollInterval time.Duration
}

// Client talks to one platform instance.
type Client struct {
	cfg      Config
	host     string
	http     *fasthttp.Client
	cache    cache.Cache
	keys     cache.Keyer
	cacheTTL time.Duration
	logger   *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithCache caches retrieved documents for ttl.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(cl *Client) {
		cl.cache = c
		cl.cacheTTL = ttl
	}
}

// WithKeyer overrides the cache key layout.
func WithKeyer(k cache.Keyer) Option {
	return func(cl *Client) { cl.keys = k }
}

// WithHTTPClient replaces the underlying fasthttp client.
func WithHTTPClient(h *fasthttp.Client) Option {
	return func(cl *Client) { cl.http = h }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

// NewClient validates cfg and returns a client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := errors.ValidateURL(cfg.BaseURL); err != nil {
		return nil, err
	}
	u, _ := url.Parse(cfg.BaseURL)
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = DefaultAttempts
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultBackoff
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}

	c := &Client{
		cfg:    cfg,
		host:   u.Host,
		http:   &fasthttp.Client{Name: buildinfo.UserAgent(), ReadTimeout: cfg.Timeout, WriteTimeout: cfg.Timeout},
		cache:  cache.NewNullCache(),
		keys:   cache.NewDefaultKeyer(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the platform root the client talks to.
func (c *Client) BaseURL() string { return c.cfg.BaseURL }

// LayerView retrieves and decodes the LayerView with the given id.
func (c *Client) LayerView(ctx context.Context, id string) (*model.LayerView, error) {
	data, err := c.LayerViewJSON(ctx, id)
	if err != nil {
		return nil, err
	}
	return model.DecodeLayerView(data)
}

// LayerViewJSON returns the raw LayerView document, from cache when
// possible.
func (c *Client) LayerViewJSON(ctx context.Context, id string) ([]byte, error) {
	if err := errors.ValidateLayerViewID(id); err != nil {
		return nil, err
	}

	key := c.keys.LayerViewKey(c.cfg.BaseURL, id)
	if data, hit, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("cache read failed", "key", key, "error", err)
	} else if hit {
		observability.Cache().OnCacheHit(ctx, "layer_view")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "layer_view")

	body, err := c.send(ctx, call{method: fasthttp.MethodGet, path: "/layer_views/" + url.PathEscape(id)})
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, body, c.cacheTTL); err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "layer_view", len(body))
	}
	return body, nil
}

// call describes one platform request.
type call struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
	// contentRange is sent with chunked uploads.
	contentRange string
	// raw responses skip the JSON completeness check.
	raw bool
}

func (cl call) uri(base string) string {
	u := base + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}
	return u
}

// send performs cl, retrying transient failures.
func (c *Client) send(ctx context.Context, cl call) ([]byte, error) {
	var body []byte
	err := httputil.Retry(ctx, c.cfg.Attempts, c.cfg.Backoff, func() error {
		var err error
		body, err = c.do(ctx, cl)
		if err != nil && httputil.IsRetryable(err) {
			c.logger.Debug("retrying platform request", "method", cl.method, "path", cl.path, "error", err)
		}
		return err
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.GetCode(err) == "" {
			return nil, errors.Wrap(errors.ErrCodeTimeout, ctxErr, "%s %s", cl.method, cl.path)
		}
		return nil, err
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, cl call) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(cl.uri(c.cfg.BaseURL))
	req.Header.SetMethod(cl.method)
	if cl.raw {
		req.Header.Set("Accept", "text/csv, */*")
	} else {
		req.Header.Set("Accept", "application/json")
	}
	if cl.body != nil {
		req.Header.SetContentType(cl.contentType)
		req.SetBody(cl.body)
	}
	if cl.contentRange != "" {
		req.Header.Set("Content-Range", cl.contentRange)
	}
	if c.cfg.Username != "" {
		creds := base64.StdEncoding.EncodeToString([]byte(c.cfg.Username + ":" + c.cfg.Password))
		req.Header.Set("Authorization", "Basic "+creds)
	}

	deadline := time.Now().Add(c.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, cl.method, c.host, cl.path)
	start := time.Now()

	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		hooks.OnError(ctx, cl.method, c.host, cl.path, err)
		code := errors.ErrCodeNetwork
		if err == fasthttp.ErrTimeout {
			code = errors.ErrCodeTimeout
		}
		return nil, httputil.Retryable(errors.Wrap(code, err, "%s %s", cl.method, cl.path))
	}

	status := resp.StatusCode()
	hooks.OnResponse(ctx, cl.method, c.host, cl.path, status, time.Since(start))

	switch {
	case status == fasthttp.StatusNotFound:
		return nil, errors.New(errors.ErrCodeNotFound, "not found: %s", cl.path)
	case status == fasthttp.StatusUnauthorized || status == fasthttp.StatusForbidden:
		return nil, errors.New(errors.ErrCodeUnauthorized, "platform rejected credentials (HTTP %d)", status)
	case status >= 500:
		return nil, httputil.Retryable(errors.New(errors.ErrCodeNetwork, "platform error (HTTP %d)", status))
	case status < 200 || status > 299:
		return nil, errors.New(errors.ErrCodeNetwork, "unexpected HTTP %d for %s %s", status, cl.method, cl.path)
	}

	body := append([]byte(nil), resp.Body()...)
	if !cl.raw && status != fasthttp.StatusNoContent && !json.Valid(body) {
		return nil, httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, io.ErrUnexpectedEOF, "incomplete response for %s", cl.path))
	}
	return body, nil
}
