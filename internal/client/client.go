// Package client is the typed HTTP wrapper over the write and read backends.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/auth"
	appErr "github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/errors"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/logger"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/metrics"
)

// Port selects one of the two backends.
type Port int

const (
	WritePort Port = iota
	ReadPort
)

func (p Port) String() string {
	if p == WritePort {
		return "write"
	}
	return "read"
}

type authPolicy int

const (
	authOptional authPolicy = iota
	authRequired
	authNone
)

// Config holds the backend addresses and call limits.
type Config struct {
	WriteBaseURL string
	ReadBaseURL  string
	Timeout      time.Duration
	RPS          float64
	Burst        int
	PageLimit    int
}

// Client issues every backend call. It holds no cache; each method is one round trip.
type Client struct {
	writeBase string
	readBase  string
	pageLimit int
	session   *auth.Session
	limiter   *rate.Limiter
	http      [2]*http.Client
	transport http.RoundTripper
	registry  prometheus.Registerer
	log       *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTransport replaces the base round tripper (metrics are still layered on top).
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.transport = rt }
}

// WithRegisterer registers the client collectors with reg instead of a private registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Client) { c.registry = reg }
}

// WithLimiter replaces the throttle built from Config.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// New builds a client over both backends. session may not be nil; reads without a
// token are still allowed.
func New(cfg Config, session *auth.Session, opts ...Option) (*Client, error) {
	if session == nil {
		return nil, appErr.New(appErr.CodeInternal, "client requires a session")
	}
	write, err := normalizeBase(cfg.WriteBaseURL)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeValidation, "invalid write api url")
	}
	read, err := normalizeBase(cfg.ReadBaseURL)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeValidation, "invalid read api url")
	}

	c := &Client{
		writeBase: write,
		readBase:  read,
		pageLimit: cfg.PageLimit,
		session:   session,
		transport: http.DefaultTransport,
		log:       logger.Named("client"),
	}
	if c.pageLimit <= 0 {
		c.pageLimit = 20
	}
	if cfg.RPS > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}
	for _, o := range opts {
		o(c)
	}
	if c.registry == nil {
		c.registry = prometheus.NewRegistry()
	}

	m := metrics.NewClientMetrics(c.registry)
	for _, p := range []Port{WritePort, ReadPort} {
		c.http[p] = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: m.RoundTripper(p.String(), c.transport),
		}
	}
	return c, nil
}

// Session returns the injected auth session.
func (c *Client) Session() *auth.Session { return c.session }

func normalizeBase(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return "", errors.New("base url must be absolute http(s)")
	}
	return strings.TrimRight(u.String(), "/"), nil
}

type request struct {
	port        Port
	method      string
	path        string // already escaped, starting with "/"
	rawURL      string // overrides port+path when set
	query       url.Values
	body        []byte
	contentType string
	auth        authPolicy
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (c *Client) base(p Port) string {
	if p == WritePort {
		return c.writeBase
	}
	return c.readBase
}

// do sends one request and returns the body of a 2xx response. Every failure comes back
// as an *appErr.AppError.
func (c *Client) do(ctx context.Context, r request) (*response, error) {
	target := r.rawURL
	if target == "" {
		target = c.base(r.port) + r.path
	}
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var token string
	if r.auth != authNone {
		tok, ok := c.session.Token()
		if !ok && r.auth == authRequired {
			return nil, appErr.New(appErr.CodeUnauthenticated, "Please log in to continue")
		}
		token = tok
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, appErr.Wrap(err, appErr.CodeCanceled, "request canceled")
		}
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "build request")
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	res, err := c.http[r.port].Do(req)
	if err != nil {
		c.log.Debug("backend call failed",
			zap.String("id", reqID),
			zap.String("port", r.port.String()),
			zap.String("method", r.method),
			zap.String("url", target),
			zap.Error(err),
		)
		if ctx.Err() != nil {
			return nil, appErr.Wrap(ctx.Err(), appErr.CodeCanceled, "request canceled")
		}
		return nil, appErr.Wrap(err, appErr.CodeUnreachable, appErr.GenericUnreachableText)
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	c.log.Debug("backend call",
		zap.String("id", reqID),
		zap.String("port", r.port.String()),
		zap.String("method", r.method),
		zap.String("url", target),
		zap.Int("status", res.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeUnreachable, appErr.GenericUnreachableText)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, decodeError(res.StatusCode, b)
	}
	return &response{status: res.StatusCode, header: res.Header, body: b}, nil
}

func jsonBody(v any) ([]byte, string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, "", appErr.Wrap(err, appErr.CodeValidation, "payload is not serializable")
	}
	return b, "application/json", nil
}
