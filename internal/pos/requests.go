package pos

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"shoppos/m/domain"
)

// ProductInput carries the editable fields of a product.
type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BuyPrice    decimal.Decimal `json:"buy_price"`
	SellPrice   decimal.Decimal `json:"sell_price"`
	Quantity    int64           `json:"quantity"`
}

func (in *ProductInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return invalid("product name is required")
	}
	if in.BuyPrice.IsNegative() || in.SellPrice.IsNegative() {
		return invalid("prices must not be negative")
	}
	if !in.SellPrice.IsPositive() {
		return invalid("sell_price is required")
	}
	if in.Quantity < 0 {
		return invalid("quantity must not be negative")
	}
	return nil
}

func (in ProductInput) product(id int64) domain.Product {
	return domain.Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		BuyPrice:    in.BuyPrice,
		SellPrice:   in.SellPrice,
		Quantity:    in.Quantity,
	}
}

// CustomerInput carries the contact details of a customer. Phone is the
// identifying key.
type CustomerInput struct {
	Phone   string `json:"phone"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

func (in *CustomerInput) normalize() error {
	in.Phone = strings.TrimSpace(in.Phone)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Address = strings.TrimSpace(in.Address)
	if in.Phone == "" {
		return invalid("phone number is required")
	}
	if in.Name == "" {
		return invalid("customer name is required")
	}
	return nil
}

func (in CustomerInput) customer(id int64) domain.Customer {
	return domain.Customer{
		ID:      id,
		Phone:   in.Phone,
		Name:    in.Name,
		Email:   in.Email,
		Address: in.Address,
		Due:     decimal.Zero,
	}
}

type SaleItemInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// RecordSaleRequest is one checkout. CustomerID selects an existing
// customer; NewCustomer names one by phone and creates it when the phone is
// unknown. Both nil means a walk-in sale.
//
// AmountPaid is only read for credit sales: it is the part of the total
// paid at the counter. Retail sales are always paid in full.
type RecordSaleRequest struct {
	CustomerID  *int64             `json:"customer_id,omitempty"`
	NewCustomer *CustomerInput     `json:"customer,omitempty"`
	Items       []SaleItemInput    `json:"items"`
	Discount    decimal.Decimal    `json:"discount"`
	AmountPaid  decimal.Decimal    `json:"amount_paid"`
	Mode        domain.PaymentMode `json:"payment_mode"`
}

func (r *RecordSaleRequest) validate() error {
	if r.Mode == "" {
		r.Mode = domain.ModeRetail
	}
	if !r.Mode.Valid() {
		return invalid("payment_mode must be retail or credit")
	}
	if len(r.Items) == 0 {
		return invalid("no items in sale")
	}
	totals := make(map[int64]int64, len(r.Items))
	for _, item := range r.Items {
		if item.ProductID <= 0 {
			return invalid("invalid product id %d", item.ProductID)
		}
		if item.Quantity <= 0 {
			return invalid("quantity for product %d must be positive", item.ProductID)
		}
		// lines() adds repeated products together; the sum must fit.
		if totals[item.ProductID] > math.MaxInt64-item.Quantity {
			return invalid("quantity for product %d is too large", item.ProductID)
		}
		totals[item.ProductID] += item.Quantity
	}
	if r.CustomerID != nil && r.NewCustomer != nil {
		return invalid("give either customer_id or customer, not both")
	}
	if r.NewCustomer != nil {
		if err := r.NewCustomer.normalize(); err != nil {
			return err
		}
	}
	if r.AmountPaid.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// lines merges repeated products into one line each, keeping first-seen
// order.
func (r *RecordSaleRequest) lines() []SaleItemInput {
	index := make(map[int64]int, len(r.Items))
	merged := make([]SaleItemInput, 0, len(r.Items))
	for _, item := range r.Items {
		if i, ok := index[item.ProductID]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}
	return merged
}

type RecordPaymentRequest struct {
	CustomerID int64           `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
}
