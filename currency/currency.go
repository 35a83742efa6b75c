// Package currency defines the closed set of three-letter currency codes
// accepted by the API.
package currency

import (
	"fmt"
	"strings"

	"github.com/stremovskyy/go-stripe/internal/validation"
)

// Code is a lowercase ISO 4217 currency code.
//
// Amounts paired with a Code are always integers in the currency's smallest unit.
type Code string

const (
	AED Code = "aed"
	ARS Code = "ars"
	AUD Code = "aud"
	BGN Code = "bgn"
	BRL Code = "brl"
	CAD Code = "cad"
	CHF Code = "chf"
	CLP Code = "clp"
	CNY Code = "cny"
	COP Code = "cop"
	CZK Code = "czk"
	DKK Code = "dkk"
	EGP Code = "egp"
	EUR Code = "eur"
	GBP Code = "gbp"
	HKD Code = "hkd"
	HUF Code = "huf"
	IDR Code = "idr"
	ILS Code = "ils"
	INR Code = "inr"
	ISK Code = "isk"
	JPY Code = "jpy"
	KES Code = "kes"
	KRW Code = "krw"
	MXN Code = "mxn"
	MYR Code = "myr"
	NGN Code = "ngn"
	NOK Code = "nok"
	NZD Code = "nzd"
	PEN Code = "pen"
	PHP Code = "php"
	PKR Code = "pkr"
	PLN Code = "pln"
	RON Code = "ron"
	SAR Code = "sar"
	SEK Code = "sek"
	SGD Code = "sgd"
	THB Code = "thb"
	TRY Code = "try"
	TWD Code = "twd"
	UAH Code = "uah"
	USD Code = "usd"
	VND Code = "vnd"
	ZAR Code = "zar"
)

var known = map[Code]struct{}{
	AED: {}, ARS: {}, AUD: {}, BGN: {}, BRL: {}, CAD: {}, CHF: {}, CLP: {}, CNY: {}, COP: {},
	CZK: {}, DKK: {}, EGP: {}, EUR: {}, GBP: {}, HKD: {}, HUF: {}, IDR: {}, ILS: {}, INR: {},
	ISK: {}, JPY: {}, KES: {}, KRW: {}, MXN: {}, MYR: {}, NGN: {}, NOK: {}, NZD: {}, PEN: {},
	PHP: {}, PKR: {}, PLN: {}, RON: {}, SAR: {}, SEK: {}, SGD: {}, THB: {}, TRY: {}, TWD: {},
	UAH: {}, USD: {}, VND: {}, ZAR: {},
}

// Parse accepts a code in any letter case and returns its canonical lowercase form.
func Parse(s string) (Code, error) {
	c := Code(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", validation.New("currency", fmt.Sprintf("unsupported value %q", s))
	}
	return c, nil
}

func (c Code) Valid() bool {
	_, ok := known[c]
	return ok
}

func (c Code) String() string { return string(c) }

// FormValue implements form.Valuer.
func (c Code) FormValue() (string, error) {
	if !c.Valid() {
		return "", fmt.Errorf("currency: unsupported value %q", string(c))
	}
	return string(c), nil
}

// All returns every supported code. The order is not specified.
func All() []Code {
	out := make([]Code, 0, len(known))
	for c := range known {
		out = append(out, c)
	}
	return out
}
