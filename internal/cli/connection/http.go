package connection

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/taskdeck-go/internal/telemetry/logger"
	"github.com/yndnr/taskdeck-go/internal/telemetry/metric"
)

// TokenSource supplies the bearer token for each request. An empty token
// sends the request unauthenticated.
type TokenSource interface {
	Token() string
}

// Options configures an HTTPClient. Zero values select defaults.
type Options struct {
	// Timeout bounds each request. Default: 30s.
	Timeout time.Duration

	// TLSConfig overrides the transport's TLS settings.
	TLSConfig *tls.Config

	// RPS and Burst configure client-side rate limiting. RPS <= 0 disables it.
	RPS   float64
	Burst int

	Metrics *metric.ClientMetrics

	// Logger is used when the request context carries none.
	Logger logger.Logger

	// UserAgent defaults to "taskdeck".
	UserAgent string
}

// HTTPClient provides HTTP communication with the task API.
type HTTPClient struct {
	baseURL   string
	client    *http.Client
	tokens    TokenSource
	limiter   *rate.Limiter
	metrics   *metric.ClientMetrics
	logger    logger.Logger
	userAgent string
}

// NewHTTPClient creates a client for server. tokens may be nil.
func NewHTTPClient(server string, tokens TokenSource, opts Options) *HTTPClient {
	baseURL := strings.TrimRight(server, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.TLSConfig != nil {
		transport.TLSClientConfig = opts.TLSConfig
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RPS > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RPS), burst)
	}

	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = "taskdeck"
	}

	return &HTTPClient{
		baseURL:   baseURL,
		client:    &http.Client{Timeout: timeout, Transport: transport},
		tokens:    tokens,
		limiter:   limiter,
		metrics:   opts.Metrics,
		logger:    log,
		userAgent: ua,
	}
}

// BaseURL returns the base URL of the client.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, "")
}

// Delete performs a DELETE request.
func (c *HTTPClient) Delete(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil, "")
}

// Post performs a POST request with a JSON body. A nil body sends none.
func (c *HTTPClient) Post(ctx context.Context, path string, body any) (*http.Response, error) {
	r, ct, err := jsonBody(body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, path, r, ct)
}

// Put performs a PUT request with a JSON body.
func (c *HTTPClient) Put(ctx context.Context, path string, body any) (*http.Response, error) {
	r, ct, err := jsonBody(body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPut, path, r, ct)
}

// PostForm performs a POST request with a URL-encoded form body.
func (c *HTTPClient) PostForm(ctx context.Context, path string, form url.Values) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

func jsonBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("marshal body: %w", err)
	}
	return bytes.NewReader(data), "application/json", nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	waitStart := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	if c.metrics != nil {
		c.metrics.ObserveRateLimitWait(time.Since(waitStart))
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := ulid.Make().String()
	c.addHeaders(req, requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	logCtx := ctx
	if !logger.HasLogger(logCtx) {
		logCtx = logger.WithLogger(logCtx, c.logger)
	}
	log := logger.L(logger.WithRequestID(logCtx, requestID))
	route := routeLabel(path)

	start := time.Now()
	resp, err := c.client.Do(req)
	elapsed := time.Since(start)

	code := 0
	if resp != nil {
		code = resp.StatusCode
	}
	if c.metrics != nil {
		c.metrics.ObserveRequest(method, route, code, elapsed)
	}

	if err != nil {
		log.Debug("request failed", "method", method, "route", route, "error", err)
		return nil, err
	}
	log.Debug("request done", "method", method, "route", route, "status", code, "elapsed", elapsed)
	return resp, nil
}

// addHeaders adds authentication and common headers.
func (c *HTTPClient) addHeaders(req *http.Request, requestID string) {
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
}

// routeLabel collapses path segments that look like identifiers, so
// /tasks/66f1c2ab becomes /tasks/{id}.
func routeLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segs := strings.Split(path, "/")
	for i, s := range segs {
		if strings.ContainsAny(s, "0123456789") {
			segs[i] = "{id}"
		}
	}
	return strings.Join(segs, "/")
}

// ParseResponse decodes a JSON response body into target and closes it.
// Responses with status >= 400 are returned as *APIError.
func ParseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return parseAPIError(resp)
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}
