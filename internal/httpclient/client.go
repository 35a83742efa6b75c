package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/stremovskyy/go-stripe/consts"
	"github.com/stremovskyy/go-stripe/form"
	"github.com/stremovskyy/go-stripe/log"
	"github.com/stremovskyy/recorder"
)

// Config configures Client. Zero values fall back to defaults.
type Config struct {
	HTTPClient     *http.Client
	SecretKey      string
	Logger         log.Logger
	LogBodies      bool
	RetryAttempts  int
	RetryWait      time.Duration
	RateLimit      rate.Limit
	RateBurst      int
	DefaultHeaders map[string]string
	Recorder       recorder.Recorder
}

// Client is a small HTTP helper that form-encodes params, decodes JSON responses
// and retries transient failures.
// It is internal on purpose: the public API lives in the root package.
type Client struct {
	httpClient     *http.Client
	secretKey      string
	logger         log.Logger
	logBodies      bool
	retryAttempts  int
	retryWait      time.Duration
	limiter        *rate.Limiter
	defaultHeaders map[string]string
	recorder       recorder.Recorder
}

// New creates an internal HTTP client.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 80 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NopLogger{}
	}
	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}
	wait := cfg.RetryWait
	if wait <= 0 {
		wait = 500 * time.Millisecond
	}
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(cfg.RateLimit, burst)
	}
	return &Client{
		httpClient:     httpClient,
		secretKey:      cfg.SecretKey,
		logger:         logger,
		logBodies:      cfg.LogBodies,
		retryAttempts:  attempts,
		retryWait:      wait,
		limiter:        limiter,
		defaultHeaders: cloneHeaders(cfg.DefaultHeaders),
		recorder:       cfg.Recorder,
	}
}

// Call form-encodes params and sends them to url. POST params go into the body,
// other methods carry them in the query string. The JSON response is decoded into
// out when out != nil.
//
// POST requests without an Idempotency-Key header get a generated one, reused by
// every retry attempt.
func (c *Client) Call(ctx context.Context, method, url string, params any, headers map[string]string, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	values, err := form.Marshal(params)
	if err != nil {
		return fmt.Errorf("encode form params: %w", err)
	}
	headers = cloneHeaders(headers)
	if method == http.MethodPost {
		if headers == nil {
			headers = map[string]string{}
		}
		if headers[consts.HeaderIdempotencyKey] == "" {
			headers[consts.HeaderIdempotencyKey] = uuid.NewString()
		}
	}

	attempt := 0
	op := func() error {
		attempt++
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return backoff.Permanent(err)
			}
		}
		c.logger.Debugf("[Stripe HTTP] request: method=%s url=%s attempt=%d/%d", method, url, attempt, c.retryAttempts)
		resp, raw, err := c.doOnce(ctx, method, url, values, headers, out)
		if err == nil {
			c.logger.Debugf("[Stripe HTTP] response: method=%s url=%s status=%d response=%s", method, url, resp.StatusCode, logBody(raw, c.logBodies))
			return nil
		}
		if !isRetryable(err, resp) {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryWait
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.retryAttempts-1)), ctx)

	err = backoff.RetryNotify(op, policy, func(err error, wait time.Duration) {
		c.logger.Warnf("[Stripe HTTP] request retry: method=%s url=%s attempt=%d wait=%s err=%v", method, url, attempt, wait, err)
	})
	if err != nil {
		c.logger.Errorf("[Stripe HTTP] request failed: method=%s url=%s attempts=%d err=%v", method, url, attempt, err)
		return err
	}
	return nil
}

func (c *Client) doOnce(ctx context.Context, method, rawURL string, values *form.Values, headers map[string]string, out any) (*http.Response, []byte, error) {
	requestID := nextRequestID()

	encoded := values.Encode()
	target := rawURL
	var reader io.Reader
	var sent []byte
	if method == http.MethodPost {
		sent = []byte(encoded)
		reader = bytes.NewReader(sent)
	} else if encoded != "" {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + encoded
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		c.recordError(ctx, requestID, err)
		return nil, nil, err
	}

	req.Header.Set(consts.HeaderAccept, consts.ContentTypeJSON)
	req.Header.Set(consts.HeaderUserAgent, consts.UserAgent)
	if reader != nil {
		req.Header.Set(consts.HeaderContentType, consts.ContentTypeForm)
	}
	if c.secretKey != "" {
		req.Header.Set(consts.HeaderAuthorization, "Bearer "+c.secretKey)
	}
	for _, hs := range []map[string]string{c.defaultHeaders, headers} {
		for k, v := range hs {
			if k == "" || v == "" {
				continue
			}
			req.Header.Set(k, v)
		}
	}

	c.logger.Debugf("[Stripe HTTP] request prepared: request_id=%s method=%s url=%s payload=%s", requestID, method, rawURL, logBody([]byte(encoded), c.logBodies))

	c.recordRequest(ctx, requestID, []byte(encoded))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordError(ctx, requestID, err)
		return nil, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.recordError(ctx, requestID, err)
		return resp, nil, err
	}
	c.recordResponse(ctx, requestID, raw)

	c.logger.Debugf("[Stripe HTTP] response received: request_id=%s method=%s url=%s status=%d response=%s", requestID, method, rawURL, resp.StatusCode, logBody(raw, c.logBodies))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &HTTPStatusError{StatusCode: resp.StatusCode, Body: raw, RequestID: resp.Header.Get(consts.HeaderRequestID)}
		c.recordError(ctx, requestID, statusErr)
		return resp, raw, statusErr
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			decErr := fmt.Errorf("decode json response: %w", err)
			c.recordError(ctx, requestID, decErr)
			return resp, raw, decErr
		}
	}

	return resp, raw, nil
}

// HTTPStatusError indicates a non-2xx response.
type HTTPStatusError struct {
	StatusCode int
	Body       []byte
	RequestID  string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "http status error"
	}
	if len(e.Body) == 0 {
		return fmt.Sprintf("unexpected status: %d", e.StatusCode)
	}
	// Limit in error string.
	b := e.Body
	if len(b) > 512 {
		b = b[:512]
	}
	return fmt.Sprintf("unexpected status: %d: %s", e.StatusCode, string(b))
}

func isRetryable(err error, resp *http.Response) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var hs *HTTPStatusError
	if errors.As(err, &hs) {
		// Retry 5xx and rate limiting.
		return hs.StatusCode == http.StatusTooManyRequests || (hs.StatusCode >= 500 && hs.StatusCode != http.StatusNotImplemented)
	}

	// Retry only transport-level errors.
	var ue *url.Error
	if errors.As(err, &ue) {
		return !errors.Is(ue.Err, context.Canceled) && !errors.Is(ue.Err, context.DeadlineExceeded)
	}
	var ne net.Error
	return errors.As(err, &ne)
}

func cloneHeaders(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func nextRequestID() string {
	return uuid.NewString()
}

func (c *Client) recordRequest(ctx context.Context, requestID string, body []byte) {
	if c == nil || c.recorder == nil {
		return
	}
	if err := c.recorder.RecordRequest(ctx, nil, requestID, body, nil); err != nil {
		c.logger.Warnf("[Stripe HTTP] cannot record request: %v", err)
	}
}

func (c *Client) recordResponse(ctx context.Context, requestID string, body []byte) {
	if c == nil || c.recorder == nil {
		return
	}
	if err := c.recorder.RecordResponse(ctx, nil, requestID, body, nil); err != nil {
		c.logger.Warnf("[Stripe HTTP] cannot record response: %v", err)
	}
}

func (c *Client) recordError(ctx context.Context, requestID string, err error) {
	if c == nil || c.recorder == nil || err == nil {
		return
	}
	if recErr := c.recorder.RecordError(ctx, nil, requestID, err, nil); recErr != nil {
		c.logger.Warnf("[Stripe HTTP] cannot record error: %v", recErr)
	}
}

func summarizeBytes(b []byte) string {
	return fmt.Sprintf("size=%d bytes", len(b))
}

func logBody(b []byte, verbose bool) string {
	if !verbose {
		return summarizeBytes(b)
	}

	if pretty, ok := prettyJSONPreview(b); ok {
		return pretty
	}
	return previewBytes(b)
}

func prettyJSONPreview(b []byte) (string, bool) {
	if len(b) == 0 || !json.Valid(b) {
		return "", false
	}

	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "  "); err != nil {
		return "", false
	}
	return truncate(out.String(), 4096), true
}

func previewBytes(b []byte) string {
	if len(b) == 0 {
		return "<empty>"
	}
	s := strings.TrimSpace(string(b))
	if s == "" {
		return "<empty>"
	}
	if !utf8.ValidString(s) {
		return fmt.Sprintf("<binary size=%d bytes>", len(b))
	}
	return truncate(s, 4096)
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
