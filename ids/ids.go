// Package ids contains opaque identifier types minted by the API.
//
// Identifiers are only checked for their object prefix; their structure is
// otherwise not interpreted.
package ids

import (
	"fmt"
	"strings"

	"github.com/stremovskyy/go-stripe/internal/validation"
)

const (
	customerPrefix = "cus_"
	accountPrefix  = "acct_"
)

// CustomerID references a Customer object (cus_...).
type CustomerID string

// AccountID references a connected Account (acct_...).
type AccountID string

func ParseCustomerID(s string) (CustomerID, error) {
	id := CustomerID(strings.TrimSpace(s))
	if !id.Valid() {
		return "", validation.New("customer", fmt.Sprintf("expected id with %q prefix, got %q", customerPrefix, s))
	}
	return id, nil
}

func ParseAccountID(s string) (AccountID, error) {
	id := AccountID(strings.TrimSpace(s))
	if !id.Valid() {
		return "", validation.New("account", fmt.Sprintf("expected id with %q prefix, got %q", accountPrefix, s))
	}
	return id, nil
}

func (id CustomerID) Valid() bool { return hasBody(string(id), customerPrefix) }
func (id AccountID) Valid() bool  { return hasBody(string(id), accountPrefix) }

func (id CustomerID) String() string { return string(id) }
func (id AccountID) String() string  { return string(id) }

// FormValue implements form.Valuer.
func (id CustomerID) FormValue() (string, error) {
	if !id.Valid() {
		return "", fmt.Errorf("ids: invalid customer id %q", string(id))
	}
	return string(id), nil
}

// FormValue implements form.Valuer.
func (id AccountID) FormValue() (string, error) {
	if !id.Valid() {
		return "", fmt.Errorf("ids: invalid account id %q", string(id))
	}
	return string(id), nil
}

func hasBody(s, prefix string) bool {
	return strings.HasPrefix(s, prefix) && len(s) > len(prefix) && !strings.ContainsAny(s, " \t\r\n")
}
