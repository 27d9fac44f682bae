package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotal(t *testing.T) {
	items := []LineItem{
		{ProductID: "a", Quantity: 2, UnitPriceCents: 9990},
		{ProductID: "b", Quantity: 1, UnitPriceCents: 14990},
		{ProductID: "c", Quantity: 0, UnitPriceCents: 5000}, // ignored
		{ProductID: "d", Quantity: 3, UnitPriceCents: -100}, // ignored
	}
	assert.Equal(t, int64(2*9990+14990), Total(items))
	assert.Zero(t, Total(nil))
}

func TestParseStatus(t *testing.T) {
	testcases := []struct {
		in   string
		want OrderStatus
		ok   bool
	}{
		{"PENDING_PAYMENT", StatusPendingPayment, true},
		{"received", StatusReceived, true},
		{"  Shipped  ", StatusShipped, true},
		{"cancelled", StatusCancelled, true},
		{"TELEPORTED", "", false},
		{"", "", false},
	}
	for _, tc := range testcases {
		got, ok := ParseStatus(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestMarkReceived(t *testing.T) {
	order := &Order{Status: StatusPendingPayment}

	require.NoError(t, order.MarkReceived("555"))
	assert.Equal(t, StatusReceived, order.Status)
	require.NotNil(t, order.PaymentID)
	assert.Equal(t, "555", *order.PaymentID)

	err := order.MarkReceived("556")
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, ErrCodeInvalidTransition))
	assert.Equal(t, "555", *order.PaymentID)
}

func TestEffectivePriceCents(t *testing.T) {
	promo := int64(9990)
	zero := int64(0)

	p := &Product{PriceCents: 19990}
	assert.Equal(t, int64(19990), p.EffectivePriceCents())

	p.PromoPriceCents = &promo
	assert.Equal(t, int64(9990), p.EffectivePriceCents())

	p.PromoPriceCents = &zero
	assert.Equal(t, int64(19990), p.EffectivePriceCents())
}
