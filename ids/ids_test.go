package ids

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCustomerID(t *testing.T) {
	id, err := ParseCustomerID("cus_123")
	require.NoError(t, err)
	assert.Equal(t, CustomerID("cus_123"), id)

	for _, bad := range []string{"", "cus_", "acct_123", "cus_1 2"} {
		_, err := ParseCustomerID(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestParseAccountID(t *testing.T) {
	id, err := ParseAccountID("acct_1A")
	require.NoError(t, err)
	assert.True(t, id.Valid())

	_, err = ParseAccountID("cus_1A")
	assert.Error(t, err)
}

func TestFormValue(t *testing.T) {
	v, err := AccountID("acct_9").FormValue()
	require.NoError(t, err)
	assert.Equal(t, "acct_9", v)

	_, err = CustomerID("").FormValue()
	assert.Error(t, err)
}
