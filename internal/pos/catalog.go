package pos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"shoppos/m/domain"
	"shoppos/m/internal/store"
)

// AddProduct creates a product. Names are unique.
func (s *Service) AddProduct(ctx context.Context, in ProductInput) (domain.Product, error) {
	if err := in.normalize(); err != nil {
		return domain.Product{}, err
	}
	var created domain.Product
	err := s.store.InTx(ctx, func(tx *store.Store) error {
		if _, err := tx.GetProductByName(ctx, in.Name); err == nil {
			return fmt.Errorf("product %q: %w", in.Name, ErrDuplicateKey)
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		p, err := tx.InsertProduct(ctx, in.product(0))
		created = p
		return err
	})
	return created, err
}

// UpdateProduct replaces the product's fields, including a stock count
// correction.
func (s *Service) UpdateProduct(ctx context.Context, id int64, in ProductInput) (domain.Product, error) {
	if err := in.normalize(); err != nil {
		return domain.Product{}, err
	}
	var updated domain.Product
	err := s.store.InTx(ctx, func(tx *store.Store) error {
		if _, err := tx.GetProduct(ctx, id); err != nil {
			return notFound("product", id, err)
		}
		if other, err := tx.GetProductByName(ctx, in.Name); err == nil && other.ID != id {
			return fmt.Errorf("product %q: %w", in.Name, ErrDuplicateKey)
		} else if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		p, err := tx.UpdateProduct(ctx, in.product(id))
		updated = p
		return err
	})
	return updated, err
}

// DeleteProduct removes a product that has never been sold.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	err := s.store.DeleteProduct(ctx, id)
	if errors.Is(err, store.ErrConflict) {
		return invalid("product %d appears on recorded sales and cannot be deleted", id)
	}
	return notFound("product", id, err)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	p, err := s.store.GetProduct(ctx, id)
	return p, notFound("product", id, err)
}

// ListProducts lists every product, or those matching query when it is not
// blank.
func (s *Service) ListProducts(ctx context.Context, query string) ([]domain.Product, error) {
	if strings.TrimSpace(query) == "" {
		return s.store.ListProducts(ctx)
	}
	return s.store.SearchProducts(ctx, query)
}

// AddCustomer creates a customer with no due. Phone numbers are unique.
func (s *Service) AddCustomer(ctx context.Context, in CustomerInput) (domain.Customer, error) {
	if err := in.normalize(); err != nil {
		return domain.Customer{}, err
	}
	var created domain.Customer
	err := s.store.InTx(ctx, func(tx *store.Store) error {
		if _, err := tx.GetCustomerByPhone(ctx, in.Phone); err == nil {
			return fmt.Errorf("customer %s: %w", in.Phone, ErrDuplicateKey)
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		c, err := tx.InsertCustomer(ctx, in.customer(0))
		created = c
		return err
	})
	return created, err
}

// UpdateCustomer changes contact details. The due balance is untouched.
func (s *Service) UpdateCustomer(ctx context.Context, id int64, in CustomerInput) (domain.Customer, error) {
	if err := in.normalize(); err != nil {
		return domain.Customer{}, err
	}
	var updated domain.Customer
	err := s.store.InTx(ctx, func(tx *store.Store) error {
		if _, err := tx.GetCustomer(ctx, id); err != nil {
			return notFound("customer", id, err)
		}
		if other, err := tx.GetCustomerByPhone(ctx, in.Phone); err == nil && other.ID != id {
			return fmt.Errorf("customer %s: %w", in.Phone, ErrDuplicateKey)
		} else if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		c, err := tx.UpdateCustomer(ctx, in.customer(id))
		updated = c
		return err
	})
	return updated, err
}

// DeleteCustomer removes a customer with no sales, payments or due.
func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	return s.store.InTx(ctx, func(tx *store.Store) error {
		c, err := tx.GetCustomer(ctx, id)
		if err != nil {
			return notFound("customer", id, err)
		}
		if c.Due.IsPositive() {
			return invalid("customer %s still owes %s", c.Phone, c.Due.StringFixed(2))
		}
		err = tx.DeleteCustomer(ctx, id)
		if errors.Is(err, store.ErrConflict) {
			return invalid("customer %s has recorded sales or payments and cannot be deleted", c.Phone)
		}
		return err
	})
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (domain.Customer, error) {
	c, err := s.store.GetCustomer(ctx, id)
	return c, notFound("customer", id, err)
}

// CustomerBalance is the amount the customer currently owes.
func (s *Service) CustomerBalance(ctx context.Context, id int64) (decimal.Decimal, error) {
	c, err := s.GetCustomer(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return c.Due, nil
}

func (s *Service) FindCustomerByPhone(ctx context.Context, phone string) (domain.Customer, error) {
	phone = strings.TrimSpace(phone)
	c, err := s.store.GetCustomerByPhone(ctx, phone)
	return c, notFound("customer", phone, err)
}

// ListCustomers lists every customer, or those matching query when it is
// not blank.
func (s *Service) ListCustomers(ctx context.Context, query string) ([]domain.Customer, error) {
	if strings.TrimSpace(query) == "" {
		return s.store.ListCustomers(ctx)
	}
	return s.store.SearchCustomers(ctx, query)
}
