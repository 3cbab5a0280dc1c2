package store

import (
	"context"

	"shoppos/m/domain"
)

func (s *Store) InsertPayment(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	res, err := s.q.ExecContext(ctx, `INSERT INTO payments (customer_id, amount, due_after, created_at) VALUES (?, ?, ?, ?)`,
		p.CustomerID, p.Amount, p.DueAfter, p.CreatedAt)
	if err != nil {
		return domain.Payment{}, wrap(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Payment{}, wrap(err)
	}
	p.ID = id
	return p, nil
}

// ListPayments returns the payment history, newest first. A nil customerID
// lists every customer.
func (s *Store) ListPayments(ctx context.Context, customerID *int64) ([]domain.PaymentEntry, error) {
	query := `SELECT p.id, p.customer_id, p.amount, p.due_after, p.created_at, c.name AS customer_name, c.phone AS customer_phone
		FROM payments p
		JOIN customers c ON c.id = p.customer_id`
	var args []any
	if customerID != nil {
		query += ` WHERE p.customer_id = ?`
		args = append(args, *customerID)
	}
	query += ` ORDER BY p.created_at DESC, p.id DESC`

	entries := []domain.PaymentEntry{}
	err := s.q.SelectContext(ctx, &entries, query, args...)
	return entries, wrap(err)
}
