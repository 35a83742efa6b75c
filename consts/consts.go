package consts

const (
	HeaderAuthorization  = "Authorization"
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderStripeAccount  = "Stripe-Account"
	HeaderStripeVersion  = "Stripe-Version"
	HeaderRequestID      = "Request-Id"
	HeaderAccept         = "Accept"
	HeaderContentType    = "Content-Type"
	HeaderUserAgent      = "User-Agent"

	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// Base URLs.
const (
	DefaultBaseURL = "https://api.stripe.com"

	// DefaultAPIVersion is sent as Stripe-Version unless overridden.
	DefaultAPIVersion = "2020-03-02"

	UserAgent = "go-stripe/1.0"
)

// Checkout endpoint paths.
const (
	CheckoutSessionsPath = "/v1/checkout/sessions"
	// CheckoutSessionPath and CheckoutSessionExpirePath take the session id as the only format argument.
	CheckoutSessionPath       = "/v1/checkout/sessions/%s"
	CheckoutSessionExpirePath = "/v1/checkout/sessions/%s/expire"
)
