package go_stripe

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/time/rate"

	"github.com/stremovskyy/go-stripe/consts"
	"github.com/stremovskyy/go-stripe/ids"
	"github.com/stremovskyy/go-stripe/log"
	"github.com/stremovskyy/recorder"
)

type Option func(*config) error

type config struct {
	baseURL       string
	apiVersion    string
	secretKey     string
	stripeAccount string

	httpClient *http.Client
	logger     log.Logger
	logBodies  bool

	retryAttempts int
	retryWait     time.Duration
	rateLimit     rate.Limit
	rateBurst     int
	recorder      recorder.Recorder

	backend Backend
}

func defaultConfig() config {
	return config{
		baseURL:       consts.DefaultBaseURL,
		apiVersion:    consts.DefaultAPIVersion,
		httpClient:    &http.Client{Timeout: 80 * time.Second},
		logger:        log.NewDefault(),
		retryAttempts: 1,
		retryWait:     500 * time.Millisecond,
	}
}

// WithSecretKey sets the API secret key sent as a bearer token.
func WithSecretKey(key string) Option {
	return func(cfg *config) error {
		key = strings.TrimSpace(key)
		if key == "" {
			return errors.New("secret key is empty")
		}
		cfg.secretKey = key
		return nil
	}
}

func WithBaseURL(baseURL string) Option {
	return func(cfg *config) error {
		if baseURL == "" {
			return errors.New("base url is empty")
		}
		cfg.baseURL = baseURL
		return nil
	}
}

// WithAPIVersion pins the Stripe-Version header.
func WithAPIVersion(version string) Option {
	return func(cfg *config) error {
		if version == "" {
			return errors.New("api version is empty")
		}
		cfg.apiVersion = version
		return nil
	}
}

// WithStripeAccount makes every request act on behalf of a connected account.
// ForAccount overrides it per call.
func WithStripeAccount(account ids.AccountID) Option {
	return func(cfg *config) error {
		if !account.Valid() {
			return fmt.Errorf("invalid account id %q", string(account))
		}
		cfg.stripeAccount = string(account)
		return nil
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *config) error {
		if client == nil {
			return errors.New("http client is nil")
		}
		cfg.httpClient = client
		return nil
	}
}

// WithClient is an alias of WithHTTPClient.
func WithClient(client *http.Client) Option {
	return WithHTTPClient(client)
}

// WithTimeout sets http client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *config) error {
		if timeout <= 0 {
			return errors.New("timeout must be > 0")
		}
		cfg.httpClient.Timeout = timeout
		return nil
	}
}

func WithLogger(logger log.Logger) Option {
	return func(cfg *config) error {
		if logger == nil {
			cfg.logger = log.NopLogger{}
			return nil
		}
		cfg.logger = logger
		return nil
	}
}

// WithLogHTTPBodies enables verbose request/response body logging for debugging.
//
// Disabled by default because bodies may contain sensitive data.
func WithLogHTTPBodies(enabled bool) Option {
	return func(cfg *config) error {
		cfg.logBodies = enabled
		return nil
	}
}

// WithRecorder attaches a traffic recorder.
func WithRecorder(r recorder.Recorder) Option {
	return func(cfg *config) error {
		cfg.recorder = r
		return nil
	}
}

// WithRetry retries transient failures (network errors, 429, 5xx) up to attempts
// times in total, doubling wait after each try. POST retries reuse one idempotency key.
func WithRetry(attempts int, wait time.Duration) Option {
	return func(cfg *config) error {
		if attempts <= 0 {
			return errors.New("retry attempts must be > 0")
		}
		if wait <= 0 {
			return errors.New("retry wait must be > 0")
		}
		cfg.retryAttempts = attempts
		cfg.retryWait = wait
		return nil
	}
}

// WithRateLimit caps outgoing requests to rps per second with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(cfg *config) error {
		if rps <= 0 {
			return errors.New("rate limit must be > 0")
		}
		if burst <= 0 {
			return errors.New("rate burst must be > 0")
		}
		cfg.rateLimit = rate.Limit(rps)
		cfg.rateBurst = burst
		return nil
	}
}

// WithBackend replaces the HTTP transport. Transport-related options
// (http client, retry, rate limit, recorder) are ignored when it is set.
func WithBackend(b Backend) Option {
	return func(cfg *config) error {
		if b == nil {
			return errors.New("backend is nil")
		}
		cfg.backend = b
		return nil
	}
}

type envConfig struct {
	SecretKey   string        `envconfig:"SECRET_KEY"`
	BaseURL     string        `envconfig:"BASE_URL"`
	APIVersion  string        `envconfig:"API_VERSION"`
	Account     string        `envconfig:"ACCOUNT"`
	Timeout     time.Duration `envconfig:"TIMEOUT"`
	MaxAttempts int           `envconfig:"MAX_ATTEMPTS"`
}

// WithEnv reads <PREFIX>_SECRET_KEY, <PREFIX>_BASE_URL, <PREFIX>_API_VERSION,
// <PREFIX>_ACCOUNT, <PREFIX>_TIMEOUT and <PREFIX>_MAX_ATTEMPTS.
// Unset variables leave the current configuration untouched.
func WithEnv(prefix string) Option {
	return func(cfg *config) error {
		var env envConfig
		if err := envconfig.Process(prefix, &env); err != nil {
			return fmt.Errorf("read %s environment: %w", prefix, err)
		}
		var opts []Option
		if env.SecretKey != "" {
			opts = append(opts, WithSecretKey(env.SecretKey))
		}
		if env.BaseURL != "" {
			opts = append(opts, WithBaseURL(env.BaseURL))
		}
		if env.APIVersion != "" {
			opts = append(opts, WithAPIVersion(env.APIVersion))
		}
		if env.Account != "" {
			opts = append(opts, WithStripeAccount(ids.AccountID(env.Account)))
		}
		if env.Timeout != 0 {
			opts = append(opts, WithTimeout(env.Timeout))
		}
		if env.MaxAttempts != 0 {
			opts = append(opts, WithRetry(env.MaxAttempts, cfg.retryWait))
		}
		for _, opt := range opts {
			if err := opt(cfg); err != nil {
				return err
			}
		}
		return nil
	}
}
