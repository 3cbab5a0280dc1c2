package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	BuyPrice    decimal.Decimal `db:"buy_price" json:"buy_price"`
	SellPrice   decimal.Decimal `db:"sell_price" json:"sell_price"`
	Quantity    int64           `db:"quantity" json:"quantity"`
	CreatedAt   string          `db:"created_at" json:"created_at"`
	UpdatedAt   string          `db:"updated_at" json:"updated_at"`
}
