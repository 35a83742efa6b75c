package go_stripe

import (
	"context"

	"github.com/stremovskyy/go-stripe/internal/httpclient"
	"github.com/stremovskyy/go-stripe/log"
)

// Stripe is the main SDK interface.
type Stripe interface {
	Checkout() *CheckoutService

	SetLogLevel(level log.Level)
}

// Backend sends form-encoded params to url and decodes the JSON response into out.
//
// The default Backend is an internal HTTP client; WithBackend replaces it,
// for example with a fake in tests.
type Backend interface {
	Call(ctx context.Context, method, url string, params any, headers map[string]string, out any) error
}

var (
	_ Stripe  = (*Client)(nil)
	_ Backend = (*httpclient.Client)(nil)
)
