package consts

// SessionStatus is the status of a checkout session.
//
// Values are taken from the Stripe API reference.
type SessionStatus string

const (
	SessionStatusOpen     SessionStatus = "open"
	SessionStatusComplete SessionStatus = "complete"
	SessionStatusExpired  SessionStatus = "expired"
)

// PaymentStatus tells whether the funds of a checkout session can be fulfilled.
type PaymentStatus string

const (
	PaymentStatusPaid              PaymentStatus = "paid"
	PaymentStatusUnpaid            PaymentStatus = "unpaid"
	PaymentStatusNoPaymentRequired PaymentStatus = "no_payment_required"
)
