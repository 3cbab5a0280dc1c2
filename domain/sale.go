package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeLayout is the format of every timestamp written by the application.
// It sorts lexically and is understood by SQLite's date functions.
const TimeLayout = "2006-01-02 15:04:05"

type PaymentMode string

const (
	ModeRetail PaymentMode = "retail"
	ModeCredit PaymentMode = "credit"
)

func (m PaymentMode) Valid() bool {
	return m == ModeRetail || m == ModeCredit
}

type SaleStatus string

const (
	StatusPaid   SaleStatus = "paid"
	StatusCredit SaleStatus = "credit"
)

type Sale struct {
	ID          int64           `db:"id" json:"id"`
	CustomerID  *int64          `db:"customer_id" json:"customer_id,omitempty"`
	Subtotal    decimal.Decimal `db:"subtotal" json:"subtotal"`
	Discount    decimal.Decimal `db:"discount" json:"discount"`
	Total       decimal.Decimal `db:"total" json:"total"`
	AmountPaid  decimal.Decimal `db:"amount_paid" json:"amount_paid"`
	PreviousDue decimal.Decimal `db:"previous_due" json:"previous_due"`
	DueAfter    decimal.Decimal `db:"due_after" json:"due_after"`
	Mode        PaymentMode     `db:"payment_mode" json:"payment_mode"`
	Status      SaleStatus      `db:"status" json:"status"`
	CreatedAt   string          `db:"created_at" json:"created_at"`
	Items       []SaleItem      `db:"-" json:"items"`
}

// Time parses CreatedAt.
func (s Sale) Time() (time.Time, error) {
	return time.Parse(TimeLayout, s.CreatedAt)
}

type SaleItem struct {
	ID          int64           `db:"id" json:"id"`
	SaleID      int64           `db:"sale_id" json:"sale_id"`
	ProductID   int64           `db:"product_id" json:"product_id"`
	ProductName string          `db:"product_name" json:"product_name"`
	Quantity    int64           `db:"quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	Subtotal    decimal.Decimal `db:"subtotal" json:"subtotal"`
}

// SalesSummary aggregates revenue over a date range.
type SalesSummary struct {
	Revenue     decimal.Decimal `db:"revenue" json:"revenue"`
	Discounts   decimal.Decimal `db:"discounts" json:"discounts"`
	Collected   decimal.Decimal `db:"collected" json:"collected"`
	SalesCount  int64           `db:"sales_count" json:"sales_count"`
	CreditCount int64           `db:"credit_count" json:"credit_count"`
}
