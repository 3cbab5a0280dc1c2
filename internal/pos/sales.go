package pos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"shoppos/m/domain"
	"shoppos/m/internal/store"
)

// RecordSale validates and stores a checkout: the sale, its line items, the
// stock decrements and, for credit sales, the customer's new due. Nothing
// is written unless every check passes, and the writes commit together.
func (s *Service) RecordSale(ctx context.Context, req RecordSaleRequest) (domain.Sale, error) {
	if err := req.validate(); err != nil {
		return domain.Sale{}, err
	}
	lines := req.lines()

	var saleID int64
	err := s.store.InTx(ctx, func(tx *store.Store) error {
		customer, create, err := s.resolveCustomer(ctx, tx, req)
		if err != nil {
			return err
		}

		items := make([]domain.SaleItem, 0, len(lines))
		for _, line := range lines {
			p, err := tx.GetProduct(ctx, line.ProductID)
			if err != nil {
				return notFound("product", line.ProductID, err)
			}
			if line.Quantity > p.Quantity {
				return &StockError{ProductID: p.ID, Product: p.Name, Requested: line.Quantity, Available: p.Quantity}
			}
			items = append(items, domain.SaleItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    line.Quantity,
				UnitPrice:   p.SellPrice,
				Subtotal:    domain.LineTotal(p.SellPrice, line.Quantity),
			})
		}

		subtotal := domain.Subtotal(items)
		total, err := domain.ApplyDiscount(subtotal, req.Discount)
		if err != nil {
			return fmt.Errorf("discount %s on subtotal %s: %w", req.Discount.StringFixed(2), subtotal.StringFixed(2), err)
		}

		sale := domain.Sale{
			Subtotal:  subtotal,
			Discount:  req.Discount,
			Total:     total,
			Mode:      req.Mode,
			Status:    domain.StatusPaid,
			CreatedAt: s.timestamp(),
		}

		owed := decimal.Zero
		switch req.Mode {
		case domain.ModeCredit:
			if customer == nil {
				return ErrMissingCustomer
			}
			if req.AmountPaid.GreaterThan(total) {
				return fmt.Errorf("upfront payment %s on total %s: %w", req.AmountPaid.StringFixed(2), total.StringFixed(2), ErrOverPayment)
			}
			sale.AmountPaid = req.AmountPaid
			owed = domain.CreditDue(total, req.AmountPaid)
			if owed.IsPositive() {
				sale.Status = domain.StatusCredit
			}
		default:
			sale.AmountPaid = total
		}

		if customer != nil {
			if create {
				created, err := tx.InsertCustomer(ctx, *customer)
				if err != nil {
					return err
				}
				customer = &created
			}
			sale.CustomerID = &customer.ID
			sale.PreviousDue = customer.Due
			sale.DueAfter = customer.Due.Add(owed)
		}

		saleID, err = tx.InsertSale(ctx, sale)
		if err != nil {
			return err
		}
		for _, item := range items {
			item.SaleID = saleID
			if _, err := tx.InsertSaleItem(ctx, item); err != nil {
				return err
			}
			if err := tx.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, store.ErrConflict) {
					return fmt.Errorf("%s: %w", item.ProductName, ErrInsufficientStock)
				}
				return err
			}
		}
		if owed.IsPositive() {
			if _, err := tx.AdjustDue(ctx, customer.ID, owed); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Sale{}, err
	}
	return s.store.GetSale(ctx, saleID)
}

// resolveCustomer finds the customer a sale refers to without writing.
// When the request names an unknown phone, the returned customer is the one
// to create and create is true.
func (s *Service) resolveCustomer(ctx context.Context, tx *store.Store, req RecordSaleRequest) (*domain.Customer, bool, error) {
	switch {
	case req.CustomerID != nil:
		c, err := tx.GetCustomer(ctx, *req.CustomerID)
		if err != nil {
			return nil, false, notFound("customer", *req.CustomerID, err)
		}
		return &c, false, nil
	case req.NewCustomer != nil:
		c, err := tx.GetCustomerByPhone(ctx, req.NewCustomer.Phone)
		if err == nil {
			return &c, false, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, false, err
		}
		fresh := req.NewCustomer.customer(0)
		return &fresh, true, nil
	}
	return nil, false, nil
}

func (s *Service) GetSale(ctx context.Context, id int64) (domain.Sale, error) {
	sale, err := s.store.GetSale(ctx, id)
	return sale, notFound("sale", id, err)
}

// ListSales returns sales matching f, newest first.
func (s *Service) ListSales(ctx context.Context, f store.SaleFilter) ([]domain.Sale, error) {
	for _, d := range []string{f.From, f.To} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(time.DateOnly, d); err != nil {
			return nil, invalid("dates must be in YYYY-MM-DD format")
		}
	}
	return s.store.ListSales(ctx, f)
}

// Invoice gathers the stored sale and its customer for printing.
func (s *Service) Invoice(ctx context.Context, saleID int64) (domain.Invoice, error) {
	sale, err := s.GetSale(ctx, saleID)
	if err != nil {
		return domain.Invoice{}, err
	}
	inv := domain.Invoice{Sale: sale}
	if sale.CustomerID != nil {
		c, err := s.store.GetCustomer(ctx, *sale.CustomerID)
		if err != nil {
			return domain.Invoice{}, notFound("customer", *sale.CustomerID, err)
		}
		inv.Customer = &c
	}
	return inv, nil
}

// DailySales summarises today's sales.
func (s *Service) DailySales(ctx context.Context) (domain.SalesSummary, error) {
	today := s.now().Format(time.DateOnly)
	return s.store.SalesSummary(ctx, today, today)
}

// MonthlySales summarises sales from the first of the current month to today.
func (s *Service) MonthlySales(ctx context.Context) (domain.SalesSummary, error) {
	now := s.now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return s.store.SalesSummary(ctx, first.Format(time.DateOnly), now.Format(time.DateOnly))
}
