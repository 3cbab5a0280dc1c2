package invoice

import (
	"errors"
	"fmt"

	"shoppos/m/domain"
)

var ErrInvalidSaleRecord = errors.New("invalid sale record")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSaleRecord, fmt.Sprintf(format, args...))
}

// Validate checks that inv is a complete, internally consistent stored sale.
func Validate(inv domain.Invoice) error {
	sale := inv.Sale
	if sale.ID <= 0 {
		return invalidf("sale has no id")
	}
	if _, err := sale.Time(); err != nil {
		return invalidf("sale %d has bad timestamp %q", sale.ID, sale.CreatedAt)
	}
	if !sale.Mode.Valid() {
		return invalidf("sale %d has unknown payment mode %q", sale.ID, sale.Mode)
	}
	if len(sale.Items) == 0 {
		return invalidf("sale %d has no line items", sale.ID)
	}
	for i, item := range sale.Items {
		if item.ProductName == "" {
			return invalidf("line %d has no product name", i+1)
		}
		if item.Quantity <= 0 {
			return invalidf("line %d has quantity %d", i+1, item.Quantity)
		}
		if item.UnitPrice.IsNegative() {
			return invalidf("line %d has negative unit price", i+1)
		}
		if !domain.LineTotal(item.UnitPrice, item.Quantity).Equal(item.Subtotal) {
			return invalidf("line %d subtotal %s does not match %d x %s", i+1, item.Subtotal, item.Quantity, item.UnitPrice)
		}
	}
	if !domain.Subtotal(sale.Items).Equal(sale.Subtotal) {
		return invalidf("sale subtotal %s does not match its lines", sale.Subtotal)
	}
	total, err := domain.ApplyDiscount(sale.Subtotal, sale.Discount)
	if err != nil || !total.Equal(sale.Total) {
		return invalidf("sale total %s does not equal subtotal %s less discount %s", sale.Total, sale.Subtotal, sale.Discount)
	}
	if sale.CustomerID != nil && (inv.Customer == nil || inv.Customer.ID != *sale.CustomerID) {
		return invalidf("sale %d refers to customer %d which is not attached", sale.ID, *sale.CustomerID)
	}
	if sale.Mode == domain.ModeCredit && inv.Customer == nil {
		return invalidf("credit sale %d has no customer", sale.ID)
	}
	return nil
}
