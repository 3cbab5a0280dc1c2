package domain

import "github.com/shopspring/decimal"

type Customer struct {
	ID        int64           `db:"id" json:"id"`
	Phone     string          `db:"phone" json:"phone"`
	Name      string          `db:"name" json:"name"`
	Email     string          `db:"email" json:"email"`
	Address   string          `db:"address" json:"address"`
	Due       decimal.Decimal `db:"due" json:"due"`
	CreatedAt string          `db:"created_at" json:"created_at"`
	UpdatedAt string          `db:"updated_at" json:"updated_at"`
}
