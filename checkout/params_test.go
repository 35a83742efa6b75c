package checkout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stremovskyy/go-stripe/currency"
	"github.com/stremovskyy/go-stripe/form"
	"github.com/stremovskyy/go-stripe/ids"
	"github.com/stremovskyy/go-stripe/internal/utils"
	"github.com/stremovskyy/go-stripe/internal/validation"
)

func widgetParams(t *testing.T) *CreateSessionParams {
	t.Helper()
	p, err := NewCreateSessionParams("https://example.com/success", "https://example.com/cancel", PaymentMethodCard)
	require.NoError(t, err)
	item, err := NewLineItem("Widget", 500, currency.USD, 2)
	require.NoError(t, err)
	p.AddLineItem(item)
	return p
}

func fieldNames(err error) []string {
	ve, ok := err.(*validation.Error)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		out = append(out, f.Field)
	}
	return out
}

func TestWidgetSessionEncoding(t *testing.T) {
	p := widgetParams(t)
	require.NoError(t, p.Validate())

	v, err := form.Marshal(p)
	require.NoError(t, err)

	assert.Equal(t, map[string][]string{
		"cancel_url":              {"https://example.com/cancel"},
		"success_url":             {"https://example.com/success"},
		"payment_method_types[0]": {"card"},
		"line_items[0][amount]":   {"500"},
		"line_items[0][currency]": {"usd"},
		"line_items[0][name]":     {"Widget"},
		"line_items[0][quantity]": {"2"},
	}, map[string][]string(v.ToValues()))

	_, ok := v.Get("customer")
	assert.False(t, ok, "unset customer must not be sent")
}

func TestOptionalFieldsRoundTrip(t *testing.T) {
	p := widgetParams(t)
	p.ClientReferenceID = utils.Ref("cart_7")
	p.Customer = utils.Ref(ids.CustomerID("cus_42"))
	p.CustomerEmail = utils.Ref("buyer@example.com")
	p.BillingAddressCollection = utils.Ref(BillingAddressCollectionRequired)
	p.Locale = utils.Ref(LocaleFR)
	p.Mode = utils.Ref(ModePayment)
	p.SubmitType = utils.Ref(SubmitTypeDonate)
	p.LineItems[0].Description = utils.Ref("blue")
	p.LineItems[0].Images = []string{"https://img.example.com/1.png", "https://img.example.com/2.png"}

	td, err := NewTransferData("acct_dest")
	require.NoError(t, err)
	td.Amount = utils.Ref(int64(450))
	p.PaymentIntentData = &PaymentIntentData{
		ApplicationFeeAmount:      utils.Ref(int64(50)),
		Description:               utils.Ref("order 7"),
		OnBehalfOf:                utils.Ref(ids.AccountID("acct_obo")),
		ReceiptEmail:              utils.Ref("receipts@example.com"),
		StatementDescriptor:       utils.Ref("WIDGETS"),
		StatementDescriptorSuffix: utils.Ref("7"),
		TransferData:              td,
		TransferGroup:             utils.Ref("group_7"),
	}
	p.PaymentIntentData.AddMetadata("order", "6").AddMetadata("order", "7").AddMetadata("channel", "web")
	require.NoError(t, p.Validate())

	v, err := form.Marshal(p)
	require.NoError(t, err)

	want := map[string]string{
		"client_reference_id":        "cart_7",
		"customer":                   "cus_42",
		"customer_email":             "buyer@example.com",
		"billing_address_collection": "required",
		"locale":                     "fr",
		"mode":                       "payment",
		"submit_type":                "donate",
		"line_items[0][description]": "blue",
		"line_items[0][images][0]":   "https://img.example.com/1.png",
		"line_items[0][images][1]":   "https://img.example.com/2.png",

		"payment_intent_data[application_fee_amount]":      "50",
		"payment_intent_data[description]":                 "order 7",
		"payment_intent_data[metadata][order]":             "7",
		"payment_intent_data[metadata][channel]":           "web",
		"payment_intent_data[on_behalf_of]":                "acct_obo",
		"payment_intent_data[receipt_email]":               "receipts@example.com",
		"payment_intent_data[statement_descriptor]":        "WIDGETS",
		"payment_intent_data[statement_descriptor_suffix]": "7",
		"payment_intent_data[transfer_data][destination]":  "acct_dest",
		"payment_intent_data[transfer_data][amount]":       "450",
		"payment_intent_data[transfer_group]":              "group_7",
	}
	all := v.ToValues()
	for k, val := range want {
		assert.Equal(t, []string{val}, all[k], k)
	}
	// 7 mandatory/widget keys + the optional ones above, each exactly once.
	assert.Equal(t, 7+len(want), v.Len())
}

func TestUnsetNestedOptionalsAreOmitted(t *testing.T) {
	p := widgetParams(t)
	p.PaymentIntentData = &PaymentIntentData{TransferData: &TransferData{Destination: "acct_1"}}

	v, err := form.Marshal(p)
	require.NoError(t, err)
	for _, k := range v.Keys() {
		if strings.HasPrefix(k, "payment_intent_data") {
			assert.Equal(t, "payment_intent_data[transfer_data][destination]", k)
		}
	}
}

func TestLineItemsKeepInputOrder(t *testing.T) {
	p := widgetParams(t)
	gadget, err := NewLineItem("Gadget", 1200, currency.EUR, 1)
	require.NoError(t, err)
	p.AddLineItem(gadget)

	v, err := form.Marshal(p)
	require.NoError(t, err)
	name0, _ := v.Get("line_items[0][name]")
	name1, _ := v.Get("line_items[1][name]")
	assert.Equal(t, "Widget", name0)
	assert.Equal(t, "Gadget", name1)

	p.LineItems[0], p.LineItems[1] = p.LineItems[1], p.LineItems[0]
	v, err = form.Marshal(p)
	require.NoError(t, err)
	name0, _ = v.Get("line_items[0][name]")
	cur0, _ := v.Get("line_items[0][currency]")
	assert.Equal(t, "Gadget", name0)
	assert.Equal(t, "eur", cur0)
}

func TestEncodingTwiceIsIdentical(t *testing.T) {
	p := widgetParams(t)
	p.PaymentIntentData = (&PaymentIntentData{}).AddMetadata("a", "1").AddMetadata("b", "2").AddMetadata("c", "3")

	first, err := form.Marshal(p)
	require.NoError(t, err)
	second, err := form.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, first.Encode(), second.Encode())
}

func TestNewCreateSessionParamsRequiresPaymentMethods(t *testing.T) {
	_, err := NewCreateSessionParams("https://example.com/s", "https://example.com/c")
	require.Error(t, err)
	assert.Equal(t, []string{"payment_method_types"}, fieldNames(err))

	_, err = NewCreateSessionParams("", "", PaymentMethodType("cash"))
	assert.ElementsMatch(t, []string{"success_url", "cancel_url", "payment_method_types"}, fieldNames(err))
}

func TestNewLineItemRejectsInvalidValues(t *testing.T) {
	_, err := NewLineItem("", -1, currency.Code("usdd"), 0)
	require.Error(t, err)
	assert.ElementsMatch(t, []string{"amount", "currency", "name", "quantity"}, fieldNames(err))

	item, err := NewLineItem("Free sample", 0, currency.GBP, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), item.Amount)
}

func TestNewTransferDataRequiresDestination(t *testing.T) {
	_, err := NewTransferData("")
	assert.Error(t, err)

	_, err = NewTransferData("cus_1")
	assert.Error(t, err)
}

func TestValidateReportsWirePaths(t *testing.T) {
	p := widgetParams(t)
	p.PaymentMethodTypes = nil
	p.LineItems[0].Quantity = 0
	p.Locale = utils.Ref(Locale("klingon"))
	p.PaymentIntentData = &PaymentIntentData{TransferData: &TransferData{}}

	err := p.Validate()
	require.Error(t, err)
	assert.ElementsMatch(t, []string{
		"payment_method_types",
		"line_items[0].quantity",
		"locale",
		"payment_intent_data.transfer_data.destination",
	}, fieldNames(err))
}

func TestValidateRejectsDuplicatePaymentMethods(t *testing.T) {
	p := widgetParams(t)
	p.PaymentMethodTypes = append(p.PaymentMethodTypes, PaymentMethodCard)
	assert.Equal(t, []string{"payment_method_types"}, fieldNames(p.Validate()))
}

func TestValidateModeRules(t *testing.T) {
	p := widgetParams(t)
	p.Mode = utils.Ref(ModeSubscription)
	p.SubmitType = utils.Ref(SubmitTypePay)
	p.PaymentIntentData = &PaymentIntentData{Description: utils.Ref("x")}
	assert.ElementsMatch(t, []string{"submit_type", "payment_intent_data"}, fieldNames(p.Validate()))

	p.Mode = utils.Ref(ModeSetup)
	assert.Equal(t, []string{"payment_intent_data"}, fieldNames(p.Validate()))

	p.Mode = utils.Ref(ModePayment)
	assert.NoError(t, p.Validate())

	// Without a mode the API applies its default; nothing is rejected locally.
	p.Mode = nil
	assert.NoError(t, p.Validate())
}

func TestValidateRejectsUnsafeMetadataKeys(t *testing.T) {
	p := widgetParams(t)
	p.PaymentIntentData = (&PaymentIntentData{}).AddMetadata("", "y").AddMetadata("a[b]", "x").AddMetadata("order", "7")

	err := p.Validate()
	require.Error(t, err)
	ve := err.(*validation.Error)
	require.Len(t, ve.Fields, 2)
	assert.Equal(t, "payment_intent_data.metadata", ve.Fields[0].Field)
	assert.Equal(t, "keys must not be empty", ve.Fields[0].Message)
	assert.Equal(t, "payment_intent_data.metadata", ve.Fields[1].Field)
	assert.Contains(t, ve.Fields[1].Message, `"a[b]"`)

	delete(p.PaymentIntentData.Metadata, "")
	p.PaymentIntentData.Metadata["]"] = "z"
	assert.Equal(t, []string{"payment_intent_data.metadata", "payment_intent_data.metadata"}, fieldNames(p.Validate()))

	p.PaymentIntentData.Metadata = map[string]string{"order": "7", "channel": "web"}
	assert.NoError(t, p.Validate())
}

func TestValidateNil(t *testing.T) {
	var p *CreateSessionParams
	assert.Equal(t, []string{"request"}, fieldNames(p.Validate()))
}

func TestEncodingRejectsOpenTextEnums(t *testing.T) {
	p := widgetParams(t)
	p.SubmitType = utils.Ref(SubmitType("shout"))

	_, err := form.Marshal(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "submit_type")
}
