package go_stripe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/stremovskyy/go-stripe/checkout"
	"github.com/stremovskyy/go-stripe/consts"
	"github.com/stremovskyy/go-stripe/internal/httpclient"
	"github.com/stremovskyy/go-stripe/log"
	"github.com/stremovskyy/recorder"
)

// Client is the main SDK client.
//
// Requests are form-encoded and authenticated with the configured secret key.
// A Client is safe for concurrent use.
type Client struct {
	cfg config

	backend Backend

	checkout *CheckoutService
}

func NewClient(opts ...Option) (Stripe, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	c := &Client{cfg: cfg, backend: cfg.backend}
	if c.backend == nil {
		headers := map[string]string{consts.HeaderStripeVersion: cfg.apiVersion}
		if cfg.stripeAccount != "" {
			headers[consts.HeaderStripeAccount] = cfg.stripeAccount
		}
		c.backend = httpclient.New(httpclient.Config{
			HTTPClient:     cfg.httpClient,
			SecretKey:      cfg.secretKey,
			Logger:         cfg.logger,
			LogBodies:      cfg.logBodies,
			RetryAttempts:  cfg.retryAttempts,
			RetryWait:      cfg.retryWait,
			RateLimit:      cfg.rateLimit,
			RateBurst:      cfg.rateBurst,
			DefaultHeaders: headers,
			Recorder:       cfg.recorder,
		})
	}

	c.checkout = &CheckoutService{c: c}
	return c, nil
}

// NewDefaultClient is a convenience wrapper around NewClient() with default configuration.
func NewDefaultClient() (Stripe, error) {
	return NewClient()
}

// NewClientWithRecorder creates a client that records all traffic with rec.
func NewClientWithRecorder(rec recorder.Recorder, opts ...Option) (Stripe, error) {
	opts = append([]Option{WithRecorder(rec)}, opts...)
	return NewClient(opts...)
}

func (c *Client) Checkout() *CheckoutService { return c.checkout }

// SetLogLevel updates SDK log level when current logger supports it.
func (c *Client) SetLogLevel(level log.Level) {
	if c == nil || c.cfg.logger == nil {
		return
	}
	if l, ok := c.cfg.logger.(interface{ SetLevel(log.Level) }); ok {
		l.SetLevel(level)
	}
}

func joinURL(base string, p string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", base, err)
	}
	u.Path = path.Join(u.Path, p)
	return u.String(), nil
}

// call resolves endpointPath against the base URL and hands params to the backend.
// It returns errDryRun when a DryRun option skipped the request.
func (c *Client) call(ctx context.Context, method, endpointPath string, params any, out any, runOpts []RunOption) error {
	full, err := joinURL(c.cfg.baseURL, endpointPath)
	if err != nil {
		return err
	}
	opts := collectRunOptions(runOpts)
	if opts.isDryRun() {
		opts.handleDryRun(method, full, params)
		return errDryRun
	}
	return wrapAPIError(c.backend.Call(ctx, method, full, params, opts.headers(), out))
}

// poster binds a client and per-call options to the resource packages' Poster seam.
type poster struct {
	c       *Client
	runOpts []RunOption
}

func (p poster) PostForm(ctx context.Context, endpointPath string, params any, out any) error {
	return p.c.call(ctx, http.MethodPost, endpointPath, params, out, p.runOpts)
}

func sessionPath(format, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", &ValidationError{Fields: []FieldError{{Field: "session_id", Message: "is required"}}}
	}
	if strings.ContainsAny(id, "/?#") {
		return "", &ValidationError{Fields: []FieldError{{Field: "session_id", Message: "contains reserved characters"}}}
	}
	return fmt.Sprintf(format, id), nil
}

// =========================
// Checkout API
// =========================

type CheckoutService struct{ c *Client }

// CreateSession creates a Checkout Session.
//
// params is validated first; an invalid value never reaches the transport.
// With DryRun the call returns (nil, nil).
func (s *CheckoutService) CreateSession(ctx context.Context, params *checkout.CreateSessionParams, runOpts ...RunOption) (*checkout.Session, error) {
	if s == nil || s.c == nil {
		return nil, errors.New("client is nil")
	}
	out, err := checkout.CreateSession(ctx, poster{c: s.c, runOpts: runOpts}, params)
	if errors.Is(err, errDryRun) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RetrieveSession fetches a Checkout Session by id.
func (s *CheckoutService) RetrieveSession(ctx context.Context, id string, runOpts ...RunOption) (*checkout.Session, error) {
	return s.sessionCall(ctx, http.MethodGet, consts.CheckoutSessionPath, id, runOpts)
}

// ExpireSession expires an open Checkout Session so it can no longer be paid.
func (s *CheckoutService) ExpireSession(ctx context.Context, id string, runOpts ...RunOption) (*checkout.Session, error) {
	return s.sessionCall(ctx, http.MethodPost, consts.CheckoutSessionExpirePath, id, runOpts)
}

func (s *CheckoutService) sessionCall(ctx context.Context, method, format, id string, runOpts []RunOption) (*checkout.Session, error) {
	if s == nil || s.c == nil {
		return nil, errors.New("client is nil")
	}
	p, err := sessionPath(format, id)
	if err != nil {
		return nil, err
	}
	var out checkout.Session
	err = s.c.call(ctx, method, p, nil, &out, runOpts)
	if errors.Is(err, errDryRun) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Do performs a form-encoded request against the base URL, for resources
// without a dedicated method. params may be a form-tagged struct, *form.Values,
// url.Values or nil.
func (s *CheckoutService) Do(ctx context.Context, method string, endpointPath string, params any, out any, runOpts ...RunOption) error {
	if s == nil || s.c == nil {
		return errors.New("client is nil")
	}
	err := s.c.call(ctx, method, endpointPath, params, out, runOpts)
	if errors.Is(err, errDryRun) {
		return nil
	}
	return err
}
