package store

import (
	"context"

	"shoppos/m/domain"
)

const productColumns = `id, name, description, buy_price, sell_price, quantity, created_at, updated_at`

// InsertProduct adds p and returns the stored row.
func (s *Store) InsertProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	res, err := s.q.ExecContext(ctx, `INSERT INTO products (name, description, buy_price, sell_price, quantity) VALUES (?, ?, ?, ?, ?)`,
		p.Name, p.Description, p.BuyPrice, p.SellPrice, p.Quantity)
	if err != nil {
		return domain.Product{}, wrap(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Product{}, wrap(err)
	}
	return s.GetProduct(ctx, id)
}

// UpdateProduct overwrites the editable fields of the product with p.ID.
func (s *Store) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	res, err := s.q.ExecContext(ctx, `UPDATE products SET name = ?, description = ?, buy_price = ?, sell_price = ?, quantity = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		p.Name, p.Description, p.BuyPrice, p.SellPrice, p.Quantity, p.ID)
	if err := mustAffect(res, err, ErrNotFound); err != nil {
		return domain.Product{}, err
	}
	return s.GetProduct(ctx, p.ID)
}

// DeleteProduct removes a product that no sale refers to.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	return mustAffect(res, err, ErrNotFound)
}

func (s *Store) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := s.q.GetContext(ctx, &p, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	return p, wrap(err)
}

func (s *Store) GetProductByName(ctx context.Context, name string) (domain.Product, error) {
	var p domain.Product
	err := s.q.GetContext(ctx, &p, `SELECT `+productColumns+` FROM products WHERE name = ?`, name)
	return p, wrap(err)
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products := []domain.Product{}
	err := s.q.SelectContext(ctx, &products, `SELECT `+productColumns+` FROM products ORDER BY name`)
	return products, wrap(err)
}

// SearchProducts matches name or description, at most 25 rows.
func (s *Store) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	like := likePattern(query)
	products := []domain.Product{}
	err := s.q.SelectContext(ctx, &products, `SELECT `+productColumns+` FROM products WHERE name LIKE ? OR description LIKE ? ORDER BY name LIMIT 25`, like, like)
	return products, wrap(err)
}

// DecrementStock removes qty units from stock. It fails with ErrConflict
// instead of letting the quantity go below zero.
func (s *Store) DecrementStock(ctx context.Context, id, qty int64) error {
	res, err := s.q.ExecContext(ctx, `UPDATE products SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND quantity >= ?`, qty, id, qty)
	return mustAffect(res, err, ErrConflict)
}
