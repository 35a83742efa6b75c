package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestParseEnums(t *testing.T) {
	l, err := ParseLocale("DE")
	require.NoError(t, err)
	assert.Equal(t, LocaleDE, l)

	m, err := ParseMode(" subscription ")
	require.NoError(t, err)
	assert.Equal(t, ModeSubscription, m)

	st, err := ParseSubmitType("book")
	require.NoError(t, err)
	assert.Equal(t, SubmitTypeBook, st)

	b, err := ParseBillingAddressCollection("auto")
	require.NoError(t, err)
	assert.Equal(t, BillingAddressCollectionAuto, b)

	pm, err := ParsePaymentMethodType("sepa_debit")
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodSepaDebit, pm)
}

func TestParseEnumsRejectUnknown(t *testing.T) {
	_, err := ParseLocale("xx")
	assert.Error(t, err)
	_, err = ParseMode("refund")
	assert.Error(t, err)
	_, err = ParseSubmitType("")
	assert.Error(t, err)
	_, err = ParseBillingAddressCollection("sometimes")
	assert.Error(t, err)
	_, err = ParsePaymentMethodType("cash")
	assert.Error(t, err)
}

func TestEnumFormValues(t *testing.T) {
	v, err := ModeSetup.FormValue()
	require.NoError(t, err)
	assert.Equal(t, "setup", v)

	_, err = Mode("").FormValue()
	assert.Error(t, err)
}

func TestLocalesAreLanguageTags(t *testing.T) {
	for l := range locales {
		if l == LocaleAuto {
			continue
		}
		_, err := language.Parse(string(l))
		assert.NoError(t, err, "locale %q", l)
	}
}
