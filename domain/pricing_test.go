package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSubtotal(t *testing.T) {
	items := []SaleItem{
		{Quantity: 2, UnitPrice: dec("120.50")},
		{Quantity: 1, UnitPrice: dec("350")},
		{Quantity: 1, UnitPrice: dec("450.75")},
	}
	assert.True(t, Subtotal(items).Equal(dec("1041.75")))
	assert.True(t, Subtotal(nil).IsZero())
}

func TestApplyDiscount(t *testing.T) {
	tests := []struct {
		name     string
		subtotal string
		discount string
		want     string
		wantErr  bool
	}{
		{name: "no discount", subtotal: "500", discount: "0", want: "500"},
		{name: "flat discount", subtotal: "250", discount: "10", want: "240"},
		{name: "full discount", subtotal: "250", discount: "250", want: "0"},
		{name: "negative discount", subtotal: "250", discount: "-1", wantErr: true},
		{name: "discount above subtotal", subtotal: "250", discount: "250.01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyDiscount(dec(tt.subtotal), dec(tt.discount))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidDiscount)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tt.want)), "got %s", got)
		})
	}
}

func TestPaymentModeValid(t *testing.T) {
	assert.True(t, ModeRetail.Valid())
	assert.True(t, ModeCredit.Valid())
	assert.False(t, PaymentMode("layaway").Valid())
}

func TestSaleTime(t *testing.T) {
	s := Sale{CreatedAt: "2024-03-01 10:15:00"}
	tm, err := s.Time()
	require.NoError(t, err)
	assert.Equal(t, 2024, tm.Year())
	assert.Equal(t, 15, tm.Minute())
}
