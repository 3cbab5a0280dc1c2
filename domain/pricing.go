package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInvalidDiscount = errors.New("discount must be between zero and the subtotal")

// LineTotal is unit price times quantity.
func LineTotal(unitPrice decimal.Decimal, quantity int64) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity))
}

// Subtotal sums the line totals of items.
func Subtotal(items []SaleItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(LineTotal(item.UnitPrice, item.Quantity))
	}
	return sum
}

// ApplyDiscount returns subtotal minus discount. The discount is a flat
// amount and may not exceed the subtotal.
func ApplyDiscount(subtotal, discount decimal.Decimal) (decimal.Decimal, error) {
	if discount.IsNegative() || discount.GreaterThan(subtotal) {
		return decimal.Zero, ErrInvalidDiscount
	}
	return subtotal.Sub(discount), nil
}

// CreditDue is the part of a sale's total that is left owing after the
// upfront payment.
func CreditDue(total, paid decimal.Decimal) decimal.Decimal {
	return total.Sub(paid)
}
