package checkout

import (
	"fmt"
	"strings"

	"github.com/stremovskyy/go-stripe/internal/validation"
)

// Locale is the IETF language tag Checkout is displayed in.
// LocaleAuto lets the browser decide.
type Locale string

const (
	LocaleAuto Locale = "auto"
	LocaleDA   Locale = "da"
	LocaleDE   Locale = "de"
	LocaleEN   Locale = "en"
	LocaleES   Locale = "es"
	LocaleFI   Locale = "fi"
	LocaleFR   Locale = "fr"
	LocaleIT   Locale = "it"
	LocaleJA   Locale = "ja"
	LocaleMS   Locale = "ms"
	LocaleNB   Locale = "nb"
	LocaleNL   Locale = "nl"
	LocalePL   Locale = "pl"
	LocalePT   Locale = "pt"
	LocaleSV   Locale = "sv"
	LocaleZH   Locale = "zh"
)

// Mode is the mode of a checkout session.
type Mode string

const (
	ModePayment      Mode = "payment"
	ModeSetup        Mode = "setup"
	ModeSubscription Mode = "subscription"
)

// SubmitType customizes the text of the submit button.
// Not allowed for subscription sessions.
type SubmitType string

const (
	SubmitTypeAuto   SubmitType = "auto"
	SubmitTypeBook   SubmitType = "book"
	SubmitTypeDonate SubmitType = "donate"
	SubmitTypePay    SubmitType = "pay"
)

// BillingAddressCollection controls whether Checkout collects the billing address.
type BillingAddressCollection string

const (
	BillingAddressCollectionAuto     BillingAddressCollection = "auto"
	BillingAddressCollectionRequired BillingAddressCollection = "required"
)

// PaymentMethodType is a payment method a session may accept.
type PaymentMethodType string

const (
	PaymentMethodCard        PaymentMethodType = "card"
	PaymentMethodIdeal       PaymentMethodType = "ideal"
	PaymentMethodBancontact  PaymentMethodType = "bancontact"
	PaymentMethodEPS         PaymentMethodType = "eps"
	PaymentMethodGiropay     PaymentMethodType = "giropay"
	PaymentMethodP24         PaymentMethodType = "p24"
	PaymentMethodSepaDebit   PaymentMethodType = "sepa_debit"
	PaymentMethodSofort      PaymentMethodType = "sofort"
	PaymentMethodFPX         PaymentMethodType = "fpx"
	PaymentMethodAlipay      PaymentMethodType = "alipay"
	PaymentMethodBacsDebit   PaymentMethodType = "bacs_debit"
	PaymentMethodAUBecsDebit PaymentMethodType = "au_becs_debit"
	PaymentMethodGrabpay     PaymentMethodType = "grabpay"
	PaymentMethodOXXO        PaymentMethodType = "oxxo"
)

var (
	locales = setOf(LocaleAuto, LocaleDA, LocaleDE, LocaleEN, LocaleES, LocaleFI, LocaleFR, LocaleIT,
		LocaleJA, LocaleMS, LocaleNB, LocaleNL, LocalePL, LocalePT, LocaleSV, LocaleZH)
	modes       = setOf(ModePayment, ModeSetup, ModeSubscription)
	submitTypes = setOf(SubmitTypeAuto, SubmitTypeBook, SubmitTypeDonate, SubmitTypePay)
	billingAddr = setOf(BillingAddressCollectionAuto, BillingAddressCollectionRequired)
	methods     = setOf(PaymentMethodCard, PaymentMethodIdeal, PaymentMethodBancontact, PaymentMethodEPS,
		PaymentMethodGiropay, PaymentMethodP24, PaymentMethodSepaDebit, PaymentMethodSofort, PaymentMethodFPX,
		PaymentMethodAlipay, PaymentMethodBacsDebit, PaymentMethodAUBecsDebit, PaymentMethodGrabpay, PaymentMethodOXXO)
)

func ParseLocale(s string) (Locale, error) { return parseEnum("locale", s, locales) }
func ParseMode(s string) (Mode, error)     { return parseEnum("mode", s, modes) }
func ParseSubmitType(s string) (SubmitType, error) {
	return parseEnum("submit_type", s, submitTypes)
}
func ParseBillingAddressCollection(s string) (BillingAddressCollection, error) {
	return parseEnum("billing_address_collection", s, billingAddr)
}
func ParsePaymentMethodType(s string) (PaymentMethodType, error) {
	return parseEnum("payment_method_types", s, methods)
}

func (l Locale) Valid() bool                   { return has(locales, l) }
func (m Mode) Valid() bool                     { return has(modes, m) }
func (t SubmitType) Valid() bool               { return has(submitTypes, t) }
func (b BillingAddressCollection) Valid() bool { return has(billingAddr, b) }
func (p PaymentMethodType) Valid() bool        { return has(methods, p) }

func (l Locale) FormValue() (string, error)     { return formValue("locale", l) }
func (m Mode) FormValue() (string, error)       { return formValue("mode", m) }
func (t SubmitType) FormValue() (string, error) { return formValue("submit_type", t) }
func (b BillingAddressCollection) FormValue() (string, error) {
	return formValue("billing_address_collection", b)
}
func (p PaymentMethodType) FormValue() (string, error) {
	return formValue("payment_method_type", p)
}

type enum interface {
	~string
	Valid() bool
}

func setOf[T comparable](vs ...T) map[T]struct{} {
	out := make(map[T]struct{}, len(vs))
	for _, v := range vs {
		out[v] = struct{}{}
	}
	return out
}

func has[T comparable](set map[T]struct{}, v T) bool {
	_, ok := set[v]
	return ok
}

func parseEnum[T ~string](field, s string, known map[T]struct{}) (T, error) {
	v := T(strings.ToLower(strings.TrimSpace(s)))
	if !has(known, v) {
		return "", validation.New(field, fmt.Sprintf("unsupported value %q", s))
	}
	return v, nil
}

func formValue[T enum](field string, v T) (string, error) {
	if !v.Valid() {
		return "", fmt.Errorf("checkout: %s: unsupported value %q", field, string(v))
	}
	return string(v), nil
}
