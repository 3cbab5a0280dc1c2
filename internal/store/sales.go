package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"shoppos/m/domain"
)

const saleColumns = `id, customer_id, subtotal, discount, total, amount_paid, previous_due, due_after, payment_mode, status, created_at`

// SaleFilter narrows ListSales. Dates are YYYY-MM-DD and inclusive.
type SaleFilter struct {
	From       string
	To         string
	CustomerID *int64
	Status     domain.SaleStatus
}

// InsertSale stores the sale header and returns its id. Items are written
// separately with InsertSaleItem.
func (s *Store) InsertSale(ctx context.Context, sale domain.Sale) (int64, error) {
	res, err := s.q.ExecContext(ctx, `INSERT INTO sales (customer_id, subtotal, discount, total, amount_paid, previous_due, due_after, payment_mode, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sale.CustomerID, sale.Subtotal, sale.Discount, sale.Total, sale.AmountPaid, sale.PreviousDue, sale.DueAfter, sale.Mode, sale.Status, sale.CreatedAt)
	if err != nil {
		return 0, wrap(err)
	}
	id, err := res.LastInsertId()
	return id, wrap(err)
}

func (s *Store) InsertSaleItem(ctx context.Context, item domain.SaleItem) (int64, error) {
	res, err := s.q.ExecContext(ctx, `INSERT INTO sale_items (sale_id, product_id, product_name, quantity, unit_price, subtotal) VALUES (?, ?, ?, ?, ?, ?)`,
		item.SaleID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, item.Subtotal)
	if err != nil {
		return 0, wrap(err)
	}
	id, err := res.LastInsertId()
	return id, wrap(err)
}

// GetSale loads a sale together with its line items.
func (s *Store) GetSale(ctx context.Context, id int64) (domain.Sale, error) {
	var sale domain.Sale
	if err := s.q.GetContext(ctx, &sale, `SELECT `+saleColumns+` FROM sales WHERE id = ?`, id); err != nil {
		return domain.Sale{}, wrap(err)
	}
	items := []domain.SaleItem{}
	err := s.q.SelectContext(ctx, &items, `SELECT id, sale_id, product_id, product_name, quantity, unit_price, subtotal FROM sale_items WHERE sale_id = ? ORDER BY id`, id)
	if err != nil {
		return domain.Sale{}, wrap(err)
	}
	sale.Items = items
	return sale, nil
}

// ListSales returns matching sales, newest first, with their items.
func (s *Store) ListSales(ctx context.Context, f SaleFilter) ([]domain.Sale, error) {
	var (
		args    []any
		clauses []string
	)
	if f.From != "" {
		args = append(args, f.From)
		clauses = append(clauses, "DATE(created_at) >= ?")
	}
	if f.To != "" {
		args = append(args, f.To)
		clauses = append(clauses, "DATE(created_at) <= ?")
	}
	if f.CustomerID != nil {
		args = append(args, *f.CustomerID)
		clauses = append(clauses, "customer_id = ?")
	}
	if f.Status != "" {
		args = append(args, f.Status)
		clauses = append(clauses, "status = ?")
	}

	query := `SELECT ` + saleColumns + ` FROM sales`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	sales := []domain.Sale{}
	if err := s.q.SelectContext(ctx, &sales, query, args...); err != nil {
		return nil, wrap(err)
	}
	if len(sales) == 0 {
		return sales, nil
	}

	ids := make([]int64, len(sales))
	for i, sale := range sales {
		ids[i] = sale.ID
	}
	itemsQuery, itemsArgs, err := sqlx.In(`SELECT id, sale_id, product_id, product_name, quantity, unit_price, subtotal FROM sale_items WHERE sale_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("prepare sale items query: %w", err)
	}
	var rows []domain.SaleItem
	if err := s.q.SelectContext(ctx, &rows, s.q.Rebind(itemsQuery), itemsArgs...); err != nil {
		return nil, wrap(err)
	}
	itemsBySale := make(map[int64][]domain.SaleItem)
	for _, row := range rows {
		itemsBySale[row.SaleID] = append(itemsBySale[row.SaleID], row)
	}
	for i := range sales {
		items := itemsBySale[sales[i].ID]
		if items == nil {
			items = []domain.SaleItem{}
		}
		sales[i].Items = items
	}
	return sales, nil
}

// SettleCreditSales marks every open credit sale of the customer as paid
// and reports how many changed.
func (s *Store) SettleCreditSales(ctx context.Context, customerID int64) (int64, error) {
	res, err := s.q.ExecContext(ctx, `UPDATE sales SET status = ? WHERE customer_id = ? AND status = ?`, domain.StatusPaid, customerID, domain.StatusCredit)
	if err != nil {
		return 0, wrap(err)
	}
	n, err := res.RowsAffected()
	return n, wrap(err)
}

// SalesSummary aggregates sales whose date falls within [from, to]. Amounts
// are added as decimals so totals stay exact.
func (s *Store) SalesSummary(ctx context.Context, from, to string) (domain.SalesSummary, error) {
	var rows []struct {
		Total      decimal.Decimal    `db:"total"`
		Discount   decimal.Decimal    `db:"discount"`
		AmountPaid decimal.Decimal    `db:"amount_paid"`
		Mode       domain.PaymentMode `db:"payment_mode"`
	}
	err := s.q.SelectContext(ctx, &rows, `SELECT total, discount, amount_paid, payment_mode
		FROM sales WHERE DATE(created_at) >= ? AND DATE(created_at) <= ?`, from, to)
	if err != nil {
		return domain.SalesSummary{}, wrap(err)
	}

	summary := domain.SalesSummary{Revenue: decimal.Zero, Discounts: decimal.Zero, Collected: decimal.Zero}
	for _, r := range rows {
		summary.Revenue = summary.Revenue.Add(r.Total)
		summary.Discounts = summary.Discounts.Add(r.Discount)
		summary.Collected = summary.Collected.Add(r.AmountPaid)
		summary.SalesCount++
		if r.Mode == domain.ModeCredit {
			summary.CreditCount++
		}
	}
	return summary, nil
}
