package checkout

import (
	"github.com/stremovskyy/go-stripe/consts"
	"github.com/stremovskyy/go-stripe/currency"
	"github.com/stremovskyy/go-stripe/ids"
)

// Session is the Checkout Session resource returned by the API.
type Session struct {
	ID                       string                    `json:"id"`
	Object                   string                    `json:"object"`
	AmountTotal              *int64                    `json:"amount_total,omitempty"`
	BillingAddressCollection *BillingAddressCollection `json:"billing_address_collection,omitempty"`
	CancelURL                string                    `json:"cancel_url"`
	ClientReferenceID        *string                   `json:"client_reference_id,omitempty"`
	Created                  int64                     `json:"created,omitempty"`
	Currency                 *currency.Code            `json:"currency,omitempty"`
	Customer                 *ids.CustomerID           `json:"customer,omitempty"`
	CustomerEmail            *string                   `json:"customer_email,omitempty"`
	ExpiresAt                int64                     `json:"expires_at,omitempty"`
	Livemode                 bool                      `json:"livemode"`
	Locale                   *Locale                   `json:"locale,omitempty"`
	Metadata                 map[string]string         `json:"metadata,omitempty"`
	Mode                     Mode                      `json:"mode"`
	PaymentIntent            *string                   `json:"payment_intent,omitempty"`
	PaymentMethodTypes       []PaymentMethodType       `json:"payment_method_types"`
	PaymentStatus            consts.PaymentStatus      `json:"payment_status,omitempty"`
	SetupIntent              *string                   `json:"setup_intent,omitempty"`
	Status                   consts.SessionStatus      `json:"status,omitempty"`
	SubmitType               *SubmitType               `json:"submit_type,omitempty"`
	Subscription             *string                   `json:"subscription,omitempty"`
	SuccessURL               string                    `json:"success_url"`
	URL                      *string                   `json:"url,omitempty"`
}

// IsPaid reports whether the funds are available for fulfillment.
func (s *Session) IsPaid() bool {
	return s != nil && s.PaymentStatus == consts.PaymentStatusPaid
}
