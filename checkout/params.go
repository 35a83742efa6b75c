package checkout

import (
	"fmt"
	"slices"
	"strings"

	"github.com/stremovskyy/go-stripe/currency"
	"github.com/stremovskyy/go-stripe/ids"
	"github.com/stremovskyy/go-stripe/internal/validation"
)

// CreateSessionParams are the parameters of "Create a Checkout Session"
// (POST /v1/checkout/sessions).
//
// Optional fields are pointers, slices or maps; nil means "not sent".
// Build values with NewCreateSessionParams to get construction-time checks.
type CreateSessionParams struct {
	// CancelURL is where the customer goes if they cancel payment.
	CancelURL string `form:"cancel_url" validate:"required,url"`

	// PaymentMethodTypes lists the payment methods the session accepts.
	PaymentMethodTypes []PaymentMethodType `form:"payment_method_types" validate:"min=1,unique,dive,valid"`

	// SuccessURL is where the customer goes after a successful payment or subscription creation.
	SuccessURL string `form:"success_url" validate:"required,url"`

	// BillingAddressCollection says whether Checkout should collect the billing address.
	BillingAddressCollection *BillingAddressCollection `form:"billing_address_collection" validate:"omitempty,valid"`

	// ClientReferenceID reconciles the session with internal systems (cart id, user id...).
	ClientReferenceID *string `form:"client_reference_id"`

	// Customer is an existing customer. A new one is created when unset.
	Customer *ids.CustomerID `form:"customer" validate:"omitempty,valid"`

	// CustomerEmail prefills the email of the customer that gets created.
	CustomerEmail *string `form:"customer_email" validate:"omitempty,email"`

	// LineItems are the purchased items, in display order.
	LineItems []LineItem `form:"line_items" validate:"omitempty,dive"`

	Locale *Locale `form:"locale" validate:"omitempty,valid"`
	Mode   *Mode   `form:"mode" validate:"omitempty,valid"`

	// PaymentIntentData is passed to PaymentIntent creation. Payment mode only.
	PaymentIntentData *PaymentIntentData `form:"payment_intent_data"`

	// SubmitType customizes the submit button. Not allowed in subscription mode.
	SubmitType *SubmitType `form:"submit_type" validate:"omitempty,valid"`
}

// LineItem is a single purchasable entry of a session.
type LineItem struct {
	// Amount per unit, in the smallest currency unit.
	Amount      int64         `form:"amount" validate:"gte=0"`
	Currency    currency.Code `form:"currency" validate:"required,valid"`
	Name        string        `form:"name" validate:"required"`
	Quantity    int64         `form:"quantity" validate:"gte=1"`
	Description *string       `form:"description"`
	Images      []string      `form:"images" validate:"omitempty,dive,url"`
}

// PaymentIntentData holds overrides for the PaymentIntent created by a payment-mode session.
//
// Statement descriptor lengths are enforced by the API, not here.
type PaymentIntentData struct {
	ApplicationFeeAmount      *int64            `form:"application_fee_amount" validate:"omitempty,gte=0"`
	Description               *string           `form:"description"`
	Metadata                  map[string]string `form:"metadata"`
	OnBehalfOf                *ids.AccountID    `form:"on_behalf_of" validate:"omitempty,valid"`
	ReceiptEmail              *string           `form:"receipt_email" validate:"omitempty,email"`
	StatementDescriptor       *string           `form:"statement_descriptor"`
	StatementDescriptorSuffix *string           `form:"statement_descriptor_suffix"`
	TransferData              *TransferData     `form:"transfer_data"`
	TransferGroup             *string           `form:"transfer_group"`
}

// TransferData creates a Transfer to a connected account when the payment succeeds.
type TransferData struct {
	Destination ids.AccountID `form:"destination" validate:"required,valid"`
	Amount      *int64        `form:"amount" validate:"omitempty,gte=0"`
}

// NewCreateSessionParams returns params with the mandatory fields set.
// It fails when a URL is empty or no (known) payment method type is given.
func NewCreateSessionParams(successURL, cancelURL string, methods ...PaymentMethodType) (*CreateSessionParams, error) {
	ve := &validation.Error{}
	if strings.TrimSpace(successURL) == "" {
		ve.Add("success_url", "is required")
	}
	if strings.TrimSpace(cancelURL) == "" {
		ve.Add("cancel_url", "is required")
	}
	if len(methods) == 0 {
		ve.Add("payment_method_types", "must contain at least 1 item(s)")
	}
	for _, m := range methods {
		if !m.Valid() {
			ve.Add("payment_method_types", "unsupported value \""+string(m)+"\"")
		}
	}
	if ve.HasErrors() {
		return nil, ve
	}
	return &CreateSessionParams{
		SuccessURL:         successURL,
		CancelURL:          cancelURL,
		PaymentMethodTypes: append([]PaymentMethodType(nil), methods...),
	}, nil
}

// NewLineItem returns a line item, rejecting negative amounts, quantities below one,
// empty names and unknown currencies.
func NewLineItem(name string, amount int64, cur currency.Code, quantity int64) (LineItem, error) {
	item := LineItem{Amount: amount, Currency: cur, Name: name, Quantity: quantity}
	if ve := validation.Struct(&item); ve.HasErrors() {
		return LineItem{}, ve
	}
	return item, nil
}

// NewTransferData returns transfer data for a valid destination account.
func NewTransferData(destination ids.AccountID) (*TransferData, error) {
	if !destination.Valid() {
		return nil, validation.New("destination", "unsupported value \""+string(destination)+"\"")
	}
	return &TransferData{Destination: destination}, nil
}

// AddLineItem appends item; order is the display order.
func (p *CreateSessionParams) AddLineItem(item LineItem) *CreateSessionParams {
	p.LineItems = append(p.LineItems, item)
	return p
}

// AddMetadata sets a metadata key, replacing any previous value.
func (d *PaymentIntentData) AddMetadata(key, value string) *PaymentIntentData {
	if d.Metadata == nil {
		d.Metadata = make(map[string]string)
	}
	d.Metadata[key] = value
	return d
}

// Validate checks the struct rules and the mode-dependent rules.
func (p *CreateSessionParams) Validate() error {
	if p == nil {
		return validation.New("request", "is nil")
	}
	ve := validation.Struct(p)

	if p.Mode != nil {
		mode := *p.Mode
		if p.SubmitType != nil && mode == ModeSubscription {
			ve.Add("submit_type", "is not allowed in subscription mode")
		}
		if p.PaymentIntentData != nil && mode != ModePayment {
			ve.Add("payment_intent_data", "is only allowed in payment mode")
		}
	}
	if p.PaymentIntentData != nil {
		validateMetadataKeys(ve, "payment_intent_data.metadata", p.PaymentIntentData.Metadata)
	}
	return ve.Err()
}

// Metadata keys become form key segments, so they cannot be empty or carry brackets.
func validateMetadataKeys(ve *validation.Error, field string, metadata map[string]string) {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		switch {
		case k == "":
			ve.Add(field, "keys must not be empty")
		case strings.ContainsAny(k, "[]"):
			ve.Add(field, fmt.Sprintf("key %q must not contain brackets", k))
		}
	}
}
