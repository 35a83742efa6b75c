package go_stripe

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stremovskyy/go-stripe/consts"
	"github.com/stremovskyy/go-stripe/form"
	"github.com/stremovskyy/go-stripe/ids"
	"github.com/stremovskyy/go-stripe/log"
)

// RunOption controls behavior of a single SDK call.
type RunOption func(*runOptions)

// DryRunHandler receives information about a skipped request.
type DryRunHandler func(method string, url string, payload any)

type runOptions struct {
	dryRun         bool
	dryRunHandle   DryRunHandler
	idempotencyKey string
	stripeAccount  string
}

var dryRunLogger = log.NewDefault()

// errDryRun short-circuits the transport; services turn it into a nil result.
var errDryRun = errors.New("dry run")

// DryRun skips the underlying HTTP call.
//
// Optional handler lets you inspect the request payload.
func DryRun(handler ...DryRunHandler) RunOption {
	return func(o *runOptions) {
		o.dryRun = true
		if len(handler) > 0 && handler[0] != nil {
			o.dryRunHandle = handler[0]
			return
		}
		o.dryRunHandle = defaultDryRunHandler
	}
}

// WithIdempotencyKey sets the Idempotency-Key of a POST request.
// Without it the transport generates one.
func WithIdempotencyKey(key string) RunOption {
	return func(o *runOptions) {
		o.idempotencyKey = key
	}
}

// ForAccount sends the call on behalf of a connected account.
func ForAccount(account ids.AccountID) RunOption {
	return func(o *runOptions) {
		o.stripeAccount = string(account)
	}
}

func collectRunOptions(opts []RunOption) *runOptions {
	if len(opts) == 0 {
		return nil
	}

	r := &runOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (o *runOptions) isDryRun() bool {
	return o != nil && o.dryRun
}

func (o *runOptions) handleDryRun(method string, url string, payload any) {
	if o == nil || !o.dryRun || o.dryRunHandle == nil {
		return
	}
	o.dryRunHandle(method, url, payload)
}

func (o *runOptions) headers() map[string]string {
	if o == nil {
		return nil
	}
	h := map[string]string{}
	if o.idempotencyKey != "" {
		h[consts.HeaderIdempotencyKey] = o.idempotencyKey
	}
	if o.stripeAccount != "" {
		h[consts.HeaderStripeAccount] = o.stripeAccount
	}
	if len(h) == 0 {
		return nil
	}
	return h
}

func defaultDryRunHandler(method string, url string, payload any) {
	dryRunLogger.Infof("Dry run: skipping request %s %s", method, url)
	if payload == nil {
		dryRunLogger.Infof("Dry run payload: <nil>")
		return
	}
	dryRunLogger.Infof("Dry run payload:\n%s", encodePreview(payload))
}

func encodePreview(v any) string {
	values, err := form.Marshal(v)
	if err != nil {
		return fmt.Sprintf("unable to encode %T: %v", v, err)
	}
	var b strings.Builder
	values.Each(func(key, value string) {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(key + "=" + value)
	})
	return b.String()
}
