package pos

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"shoppos/m/domain"
	"shoppos/m/internal/store"
)

// RecordPayment collects amount against the customer's due. When the due
// reaches zero every open credit sale of the customer becomes paid.
func (s *Service) RecordPayment(ctx context.Context, req RecordPaymentRequest) (domain.Payment, error) {
	if req.CustomerID <= 0 {
		return domain.Payment{}, invalid("customer_id is required")
	}
	if !req.Amount.IsPositive() {
		return domain.Payment{}, ErrInvalidAmount
	}

	var payment domain.Payment
	err := s.store.InTx(ctx, func(tx *store.Store) error {
		c, err := tx.GetCustomer(ctx, req.CustomerID)
		if err != nil {
			return notFound("customer", req.CustomerID, err)
		}
		if req.Amount.GreaterThan(c.Due) {
			return fmt.Errorf("payment %s against due %s: %w", req.Amount.StringFixed(2), c.Due.StringFixed(2), ErrOverPayment)
		}

		due, err := tx.AdjustDue(ctx, c.ID, req.Amount.Neg())
		if errors.Is(err, store.ErrConflict) {
			return fmt.Errorf("payment %s against due %s: %w", req.Amount.StringFixed(2), c.Due.StringFixed(2), ErrOverPayment)
		}
		if err != nil {
			return err
		}
		payment, err = tx.InsertPayment(ctx, domain.Payment{
			CustomerID: c.ID,
			Amount:     req.Amount,
			DueAfter:   due,
			CreatedAt:  s.timestamp(),
		})
		if err != nil {
			return err
		}
		if due.IsZero() {
			_, err = tx.SettleCreditSales(ctx, c.ID)
		}
		return err
	})
	return payment, err
}

// PaymentHistory lists payments, newest first. A nil customerID lists all.
func (s *Service) PaymentHistory(ctx context.Context, customerID *int64) ([]domain.PaymentEntry, error) {
	if customerID != nil {
		if _, err := s.GetCustomer(ctx, *customerID); err != nil {
			return nil, err
		}
	}
	return s.store.ListPayments(ctx, customerID)
}

// Statement is a customer's account: the stored due alongside the due
// recomputed from the sales and payments on record.
type Statement struct {
	Customer  domain.Customer       `json:"customer"`
	Sales     []domain.Sale         `json:"sales"`
	Payments  []domain.PaymentEntry `json:"payments"`
	LedgerDue decimal.Decimal       `json:"ledger_due"`
	Balanced  bool                  `json:"balanced"`
}

// CustomerStatement builds the customer's account statement.
func (s *Service) CustomerStatement(ctx context.Context, customerID int64) (Statement, error) {
	c, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return Statement{}, err
	}
	sales, err := s.store.ListSales(ctx, store.SaleFilter{CustomerID: &customerID})
	if err != nil {
		return Statement{}, err
	}
	payments, err := s.store.ListPayments(ctx, &customerID)
	if err != nil {
		return Statement{}, err
	}

	ledger := decimal.Zero
	for _, sale := range sales {
		if sale.Mode == domain.ModeCredit {
			ledger = ledger.Add(domain.CreditDue(sale.Total, sale.AmountPaid))
		}
	}
	for _, p := range payments {
		ledger = ledger.Sub(p.Amount)
	}

	return Statement{
		Customer:  c,
		Sales:     sales,
		Payments:  payments,
		LedgerDue: ledger,
		Balanced:  ledger.Equal(c.Due),
	}, nil
}
