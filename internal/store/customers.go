package store

import (
	"context"

	"github.com/shopspring/decimal"

	"shoppos/m/domain"
)

const customerColumns = `id, phone, name, email, address, due, created_at, updated_at`

// InsertCustomer adds c with its opening due and returns the stored row.
func (s *Store) InsertCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	res, err := s.q.ExecContext(ctx, `INSERT INTO customers (phone, name, email, address, due) VALUES (?, ?, ?, ?, ?)`,
		c.Phone, c.Name, c.Email, c.Address, c.Due)
	if err != nil {
		return domain.Customer{}, wrap(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Customer{}, wrap(err)
	}
	return s.GetCustomer(ctx, id)
}

// UpdateCustomer overwrites contact details. The due balance is only
// changed through AdjustDue.
func (s *Store) UpdateCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	res, err := s.q.ExecContext(ctx, `UPDATE customers SET phone = ?, name = ?, email = ?, address = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		c.Phone, c.Name, c.Email, c.Address, c.ID)
	if err := mustAffect(res, err, ErrNotFound); err != nil {
		return domain.Customer{}, err
	}
	return s.GetCustomer(ctx, c.ID)
}

// AdjustDue adds delta to the customer's due and returns the new balance.
// A change that would leave the due below zero fails with ErrConflict and
// writes nothing.
func (s *Store) AdjustDue(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	c, err := s.GetCustomer(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	due := c.Due.Add(delta)
	if due.IsNegative() {
		return decimal.Zero, ErrConflict
	}
	res, err := s.q.ExecContext(ctx, `UPDATE customers SET due = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND CAST(due AS REAL) + ? >= 0`, due, id, delta.InexactFloat64())
	if err := mustAffect(res, err, ErrConflict); err != nil {
		return decimal.Zero, err
	}
	return due, nil
}

// DeleteCustomer removes a customer with no sales or payments on record.
func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	return mustAffect(res, err, ErrNotFound)
}

func (s *Store) GetCustomer(ctx context.Context, id int64) (domain.Customer, error) {
	var c domain.Customer
	err := s.q.GetContext(ctx, &c, `SELECT `+customerColumns+` FROM customers WHERE id = ?`, id)
	return c, wrap(err)
}

func (s *Store) GetCustomerByPhone(ctx context.Context, phone string) (domain.Customer, error) {
	var c domain.Customer
	err := s.q.GetContext(ctx, &c, `SELECT `+customerColumns+` FROM customers WHERE phone = ?`, phone)
	return c, wrap(err)
}

func (s *Store) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	customers := []domain.Customer{}
	err := s.q.SelectContext(ctx, &customers, `SELECT `+customerColumns+` FROM customers ORDER BY name`)
	return customers, wrap(err)
}

// SearchCustomers matches phone, name or email, at most 25 rows.
func (s *Store) SearchCustomers(ctx context.Context, query string) ([]domain.Customer, error) {
	like := likePattern(query)
	customers := []domain.Customer{}
	err := s.q.SelectContext(ctx, &customers, `SELECT `+customerColumns+` FROM customers WHERE phone LIKE ? OR name LIKE ? OR email LIKE ? ORDER BY name LIMIT 25`, like, like, like)
	return customers, wrap(err)
}
