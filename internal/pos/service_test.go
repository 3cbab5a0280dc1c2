package pos

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoppos/m/domain"
	"shoppos/m/internal/store"
)

var fixedNow = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "pos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewService(st, WithClock(func() time.Time { return fixedNow })), st
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func mustProduct(t *testing.T, svc *Service, name, price string, qty int64) domain.Product {
	t.Helper()
	p, err := svc.AddProduct(context.Background(), ProductInput{Name: name, BuyPrice: dec("1"), SellPrice: dec(price), Quantity: qty})
	require.NoError(t, err)
	return p
}

func mustCustomer(t *testing.T, svc *Service, phone, name string) domain.Customer {
	t.Helper()
	c, err := svc.AddCustomer(context.Background(), CustomerInput{Phone: phone, Name: name})
	require.NoError(t, err)
	return c
}

func TestRetailWalkInSale(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	p := mustProduct(t, svc, "Wheat Seed 1kg", "50", 100)

	sale, err := svc.RecordSale(ctx, RecordSaleRequest{
		Items: []SaleItemInput{{ProductID: p.ID, Quantity: 10}},
		Mode:  domain.ModeRetail,
	})
	require.NoError(t, err)

	assert.Nil(t, sale.CustomerID)
	assert.True(t, sale.Subtotal.Equal(dec("500")))
	assert.True(t, sale.Total.Equal(dec("500")))
	assert.True(t, sale.AmountPaid.Equal(dec("500")))
	assert.Equal(t, domain.StatusPaid, sale.Status)
	assert.Equal(t, "2024-03-15 10:30:00", sale.CreatedAt)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, int64(10), sale.Items[0].Quantity)
	assert.True(t, sale.Items[0].UnitPrice.Equal(dec("50")))
	assert.True(t, sale.Items[0].Subtotal.Equal(dec("500")))

	after, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(90), after.Quantity)
}

func TestCreditSaleIncreasesDue(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	p := mustProduct(t, svc, "Wheat Seed 1kg", "50", 100)
	c := mustCustomer(t, svc, "01712087445", "Rahim")

	sale, err := svc.RecordSale(ctx, RecordSaleRequest{
		CustomerID: &c.ID,
		Items:      []SaleItemInput{{ProductID: p.ID, Quantity: 5}},
		Discount:   dec("10"),
		Mode:       domain.ModeCredit,
	})
	require.NoError(t, err)

	assert.True(t, sale.Subtotal.Equal(dec("250")))
	assert.True(t, sale.Total.Equal(dec("240")))
	assert.True(t, sale.PreviousDue.IsZero())
	assert.True(t, sale.DueAfter.Equal(dec("240")))
	assert.Equal(t, domain.StatusCredit, sale.Status)

	got, err := svc.GetCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.Due.Equal(dec("240")), "due %s", got.Due)
}

func TestCreditSaleWithUpfrontPayment(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	p := mustProduct(t, svc, "Organic Fertilizer 5kg", "350", 10)
	c := mustCustomer(t, svc, "0170", "Karim")

	sale, err := svc.RecordSale(ctx, RecordSaleRequest{
		CustomerID: &c.ID,
		Items:      []SaleItemInput{{ProductID: p.ID, Quantity: 2}},
		AmountPaid: dec("500"),
		Mode:       domain.ModeCredit,
	})
	require.NoError(t, err)
	assert.True(t, sale.DueAfter.Equal(dec("200")))

	full, err := svc.RecordSale(ctx, RecordSaleRequest{
		CustomerID: &c.ID,
		Items:      []SaleItemInput{{ProductID: p.ID, Quantity: 1}},
		AmountPaid: dec("350"),
		Mode:       domain.ModeCredit,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, full.Status)
	assert.True(t, full.PreviousDue.Equal(dec("200")))
	assert.True(t, full.DueAfter.Equal(dec("200")))

	_, err = svc.RecordSale(ctx, RecordSaleRequest{
		CustomerID: &c.ID,
		Items:      []SaleItemInput{{ProductID: p.ID, Quantity: 1}},
		AmountPaid: dec("351"),
		Mode:       domain.ModeCredit,
	})
	assert.ErrorIs(t, err, ErrOverPayment)
}

func TestCreditSaleCreatesCustomerOnFirstSale(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	p := mustProduct(t, svc, "Wheat Seed 1kg", "50", 100)

	req := RecordSaleRequest{
		NewCustomer: &CustomerInput{Phone: " 0181 ", Name: "Salma"},
		Items:       []SaleItemInput{{ProductID: p.ID, Quantity: 1}},
		Mode:        domain.ModeCredit,
	}
	first, err := svc.RecordSale(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, first.CustomerID)

	c, err := svc.FindCustomerByPhone(ctx, "0181")
	require.NoError(t, err)
	assert.Equal(t, "Salma", c.Name)
	assert.True(t, c.Due.Equal(dec("50")))

	req.NewCustomer = &CustomerInput{Phone: "0181", Name: "Salma"}
	second, err := svc.RecordSale(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, *first.CustomerID, *second.CustomerID, "known phone reuses the customer")
	assert.True(t, second.DueAfter.Equal(dec("100")))
}

func TestRecordSaleFailuresLeaveStateUntouched(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     func(p domain.Product, c domain.Customer) RecordSaleRequest
		wantErr error
	}{
		{
			name: "insufficient stock",
			req: func(p domain.Product, c domain.Customer) RecordSaleRequest {
				return RecordSaleRequest{Items: []SaleItemInput{{ProductID: p.ID, Quantity: 200}}, Mode: domain.ModeRetail}
			},
			wantErr: ErrInsufficientStock,
		},
		{
			name: "merged lines exceed stock",
			req: func(p domain.Product, c domain.Customer) RecordSaleRequest {
				return RecordSaleRequest{Items: []SaleItemInput{{ProductID: p.ID, Quantity: 60}, {ProductID: p.ID, Quantity: 41}}, Mode: domain.ModeRetail}
			},
			wantErr: ErrInsufficientStock,
		},
		{
			name: "merged lines overflow quantity",
			req: func(p domain.Product, c domain.Customer) RecordSaleRequest {
				return RecordSaleRequest{Items: []SaleItemInput{
					{ProductID: p.ID, Quantity: math.MaxInt64},
					{ProductID: p.ID, Quantity: math.MaxInt64},
					{ProductID: p.ID + 1, Quantity: 1},
				}, Mode: domain.ModeRetail}
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "negative discount",
			req: func(p domain.Product, c domain.Customer) RecordSaleRequest {
				return RecordSaleRequest{CustomerID: &c.ID, Items: []SaleItemInput{{ProductID: p.ID, Quantity: 1}}, Discount: dec("-1"), Mode: domain.ModeCredit}
			},
			wantErr: ErrInvalidDiscount,
		},
		{
			name: "discount above subtotal",
			req: func(p domain.Product, c domain.Customer) RecordSaleRequest {
				return RecordSaleRequest{CustomerID: &c.ID, Items: []SaleItemInput{{ProductID: p.ID, Quantity: 1}}, Discount: dec("51"), Mode: domain.ModeCredit}
			},
			wantErr: ErrInvalidDiscount,
		},
		{
			name: "credit without customer",
			req: func(p domain.Product, c domain.Customer) RecordSaleRequest {
				return RecordSaleRequest{Items: []SaleItemInput{{ProductID: p.ID, Quantity: 1}}, Mode: domain.ModeCredit}
			},
			wantErr: ErrMissingCustomer,
		},
		{
			name: "unknown product",
			req: func(p domain.Product, c domain.Customer) RecordSaleRequest {
				return RecordSaleRequest{Items: []SaleItemInput{{ProductID: p.ID, Quantity: 1}, {ProductID: 999, Quantity: 1}}, Mode: domain.ModeRetail}
			},
			wantErr: ErrRecordNotFound,
		},
		{
			name: "unknown customer",
			req: func(p domain.Product, c domain.Customer) RecordSaleRequest {
				missing := int64(999)
				return RecordSaleRequest{CustomerID: &missing, Items: []SaleItemInput{{ProductID: p.ID, Quantity: 1}}, Mode: domain.ModeCredit}
			},
			wantErr: ErrRecordNotFound,
		},
		{
			name: "empty sale",
			req: func(p domain.Product, c domain.Customer) RecordSaleRequest {
				return RecordSaleRequest{Mode: domain.ModeRetail}
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "zero quantity",
			req: func(p domain.Product, c domain.Customer) RecordSaleRequest {
				return RecordSaleRequest{Items: []SaleItemInput{{ProductID: p.ID, Quantity: 0}}}
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "unknown mode",
			req: func(p domain.Product, c domain.Customer) RecordSaleRequest {
				return RecordSaleRequest{Items: []SaleItemInput{{ProductID: p.ID, Quantity: 1}}, Mode: "barter"}
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "new customer on a failing sale is not created",
			req: func(p domain.Product, c domain.Customer) RecordSaleRequest {
				return RecordSaleRequest{NewCustomer: &CustomerInput{Phone: "0199", Name: "Ghost"}, Items: []SaleItemInput{{ProductID: p.ID, Quantity: 101}}, Mode: domain.ModeCredit}
			},
			wantErr: ErrInsufficientStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, st := newTestService(t)
			p := mustProduct(t, svc, "Wheat Seed 1kg", "50", 100)
			c := mustCustomer(t, svc, "0170", "Rahim")

			_, err := svc.RecordSale(ctx, tt.req(p, c))
			require.ErrorIs(t, err, tt.wantErr)

			after, err := svc.GetProduct(ctx, p.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(100), after.Quantity)

			cust, err := svc.GetCustomer(ctx, c.ID)
			require.NoError(t, err)
			assert.True(t, cust.Due.IsZero())

			sales, err := st.ListSales(ctx, store.SaleFilter{})
			require.NoError(t, err)
			assert.Empty(t, sales)

			customers, err := svc.ListCustomers(ctx, "")
			require.NoError(t, err)
			assert.Len(t, customers, 1)
		})
	}
}

func TestStockErrorDetails(t *testing.T) {
	svc, _ := newTestService(t)
	p := mustProduct(t, svc, "Wheat Seed 1kg", "50", 100)

	_, err := svc.RecordSale(context.Background(), RecordSaleRequest{Items: []SaleItemInput{{ProductID: p.ID, Quantity: 200}}})

	var stockErr *StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, int64(200), stockErr.Requested)
	assert.Equal(t, int64(100), stockErr.Available)
	assert.Contains(t, err.Error(), "Wheat Seed 1kg")
}

func TestRecordPayment(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	p := mustProduct(t, svc, "Wheat Seed 1kg", "50", 100)
	c := mustCustomer(t, svc, "0170", "Rahim")

	sale, err := svc.RecordSale(ctx, RecordSaleRequest{
		CustomerID: &c.ID,
		Items:      []SaleItemInput{{ProductID: p.ID, Quantity: 5}},
		Discount:   dec("10"),
		Mode:       domain.ModeCredit,
	})
	require.NoError(t, err)

	t.Run("over payment is rejected", func(t *testing.T) {
		_, err := svc.RecordPayment(ctx, RecordPaymentRequest{CustomerID: c.ID, Amount: dec("300")})
		require.ErrorIs(t, err, ErrOverPayment)

		got, err := svc.GetCustomer(ctx, c.ID)
		require.NoError(t, err)
		assert.True(t, got.Due.Equal(dec("240")))
	})

	t.Run("non-positive amount is rejected", func(t *testing.T) {
		_, err := svc.RecordPayment(ctx, RecordPaymentRequest{CustomerID: c.ID, Amount: dec("0")})
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("unknown customer", func(t *testing.T) {
		_, err := svc.RecordPayment(ctx, RecordPaymentRequest{CustomerID: 999, Amount: dec("1")})
		assert.ErrorIs(t, err, ErrRecordNotFound)

		_, err = svc.CustomerBalance(ctx, 999)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("partial payment keeps the sale on credit", func(t *testing.T) {
		payment, err := svc.RecordPayment(ctx, RecordPaymentRequest{CustomerID: c.ID, Amount: dec("100")})
		require.NoError(t, err)
		assert.True(t, payment.DueAfter.Equal(dec("140")))

		balance, err := svc.CustomerBalance(ctx, c.ID)
		require.NoError(t, err)
		assert.True(t, balance.Equal(dec("140")))

		got, err := svc.GetSale(ctx, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCredit, got.Status)
	})

	t.Run("clearing the due settles credit sales", func(t *testing.T) {
		_, err := svc.RecordPayment(ctx, RecordPaymentRequest{CustomerID: c.ID, Amount: dec("140")})
		require.NoError(t, err)

		got, err := svc.GetCustomer(ctx, c.ID)
		require.NoError(t, err)
		assert.True(t, got.Due.IsZero())

		settled, err := svc.GetSale(ctx, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPaid, settled.Status)

		open, err := st.ListSales(ctx, store.SaleFilter{Status: domain.StatusCredit})
		require.NoError(t, err)
		assert.Empty(t, open)
	})

	t.Run("history and statement", func(t *testing.T) {
		history, err := svc.PaymentHistory(ctx, &c.ID)
		require.NoError(t, err)
		assert.Len(t, history, 2)

		statement, err := svc.CustomerStatement(ctx, c.ID)
		require.NoError(t, err)
		assert.True(t, statement.Balanced)
		assert.True(t, statement.LedgerDue.IsZero())
		assert.Len(t, statement.Sales, 1)
	})
}

func TestInvariantsHoldOverSequences(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	p := mustProduct(t, svc, "Wheat Seed 1kg", "50", 20)
	c := mustCustomer(t, svc, "0170", "Rahim")

	for i := 0; i < 30; i++ {
		qty := int64(i%4 + 1)
		_, _ = svc.RecordSale(ctx, RecordSaleRequest{
			CustomerID: &c.ID,
			Items:      []SaleItemInput{{ProductID: p.ID, Quantity: qty}},
			Mode:       domain.ModeCredit,
		})
		_, _ = svc.RecordPayment(ctx, RecordPaymentRequest{CustomerID: c.ID, Amount: dec("120")})

		prod, err := svc.GetProduct(ctx, p.ID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, prod.Quantity, int64(0))

		cust, err := svc.GetCustomer(ctx, c.ID)
		require.NoError(t, err)
		assert.False(t, cust.Due.IsNegative())
	}

	statement, err := svc.CustomerStatement(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, statement.Balanced, "ledger %s stored %s", statement.LedgerDue, statement.Customer.Due)
}

func TestCatalogMaintenance(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	p := mustProduct(t, svc, "Wheat Seed 1kg", "50", 100)

	_, err := svc.AddProduct(ctx, ProductInput{Name: "Wheat Seed 1kg", SellPrice: dec("55"), Quantity: 1})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	_, err = svc.AddProduct(ctx, ProductInput{Name: " ", SellPrice: dec("55")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AddProduct(ctx, ProductInput{Name: "Rice", SellPrice: dec("55"), Quantity: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	other := mustProduct(t, svc, "Rice Seed 1kg", "80", 5)
	_, err = svc.UpdateProduct(ctx, other.ID, ProductInput{Name: "Wheat Seed 1kg", SellPrice: dec("80"), Quantity: 5})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	updated, err := svc.UpdateProduct(ctx, p.ID, ProductInput{Name: "Wheat Seed 1kg", Description: "Local", SellPrice: dec("52.5"), Quantity: 120})
	require.NoError(t, err)
	assert.True(t, updated.SellPrice.Equal(dec("52.5")))
	assert.Equal(t, int64(120), updated.Quantity)

	_, err = svc.UpdateProduct(ctx, 999, ProductInput{Name: "Ghost", SellPrice: dec("1")})
	assert.ErrorIs(t, err, ErrRecordNotFound)

	found, err := svc.ListProducts(ctx, "rice")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, other.ID, found[0].ID)

	_, err = svc.RecordSale(ctx, RecordSaleRequest{Items: []SaleItemInput{{ProductID: p.ID, Quantity: 1}}})
	require.NoError(t, err)
	assert.ErrorIs(t, svc.DeleteProduct(ctx, p.ID), ErrInvalidInput)
	require.NoError(t, svc.DeleteProduct(ctx, other.ID))
	assert.ErrorIs(t, svc.DeleteProduct(ctx, other.ID), ErrRecordNotFound)
}

func TestCustomerMaintenance(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	p := mustProduct(t, svc, "Wheat Seed 1kg", "50", 100)

	c := mustCustomer(t, svc, "0170", "Rahim")
	_, err := svc.AddCustomer(ctx, CustomerInput{Phone: "0170", Name: "Karim"})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	_, err = svc.AddCustomer(ctx, CustomerInput{Phone: "", Name: "Karim"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	updated, err := svc.UpdateCustomer(ctx, c.ID, CustomerInput{Phone: "0170", Name: "Rahim Uddin", Email: "RAHIM@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "rahim@example.com", updated.Email)

	_, err = svc.RecordSale(ctx, RecordSaleRequest{CustomerID: &c.ID, Items: []SaleItemInput{{ProductID: p.ID, Quantity: 1}}, Mode: domain.ModeCredit})
	require.NoError(t, err)
	assert.ErrorIs(t, svc.DeleteCustomer(ctx, c.ID), ErrInvalidInput, "customer owes money")

	idle := mustCustomer(t, svc, "0171", "Idle")
	require.NoError(t, svc.DeleteCustomer(ctx, idle.ID))
	_, err = svc.GetCustomer(ctx, idle.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestReportsAndInvoice(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	p := mustProduct(t, svc, "Wheat Seed 1kg", "50", 100)
	c := mustCustomer(t, svc, "0170", "Rahim")

	retail, err := svc.RecordSale(ctx, RecordSaleRequest{Items: []SaleItemInput{{ProductID: p.ID, Quantity: 10}}})
	require.NoError(t, err)
	credit, err := svc.RecordSale(ctx, RecordSaleRequest{CustomerID: &c.ID, Items: []SaleItemInput{{ProductID: p.ID, Quantity: 5}}, Discount: dec("10"), Mode: domain.ModeCredit})
	require.NoError(t, err)

	daily, err := svc.DailySales(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), daily.SalesCount)
	assert.True(t, daily.Revenue.Equal(dec("740")), "revenue %s", daily.Revenue)
	assert.True(t, daily.Collected.Equal(dec("500")))

	monthly, err := svc.MonthlySales(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), monthly.SalesCount)

	listed, err := svc.ListSales(ctx, store.SaleFilter{From: "2024-03-15", To: "2024-03-15"})
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	_, err = svc.ListSales(ctx, store.SaleFilter{From: "15/03/2024"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	inv, err := svc.Invoice(ctx, retail.ID)
	require.NoError(t, err)
	assert.Nil(t, inv.Customer)

	inv, err = svc.Invoice(ctx, credit.ID)
	require.NoError(t, err)
	require.NotNil(t, inv.Customer)
	assert.Equal(t, "Rahim", inv.Customer.Name)

	_, err = svc.Invoice(ctx, 999)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
