package domain

import "github.com/shopspring/decimal"

type Payment struct {
	ID         int64           `db:"id" json:"id"`
	CustomerID int64           `db:"customer_id" json:"customer_id"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	DueAfter   decimal.Decimal `db:"due_after" json:"due_after"`
	CreatedAt  string          `db:"created_at" json:"created_at"`
}

// PaymentEntry is a payment joined with the paying customer, as shown in
// the payment history.
type PaymentEntry struct {
	Payment
	CustomerName  string `db:"customer_name" json:"customer_name"`
	CustomerPhone string `db:"customer_phone" json:"customer_phone"`
}
