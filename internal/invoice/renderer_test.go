package invoice

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoppos/m/domain"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func retailInvoice() domain.Invoice {
	return domain.Invoice{Sale: domain.Sale{
		ID:         7,
		Subtotal:   dec("500"),
		Discount:   decimal.Zero,
		Total:      dec("500"),
		AmountPaid: dec("500"),
		Mode:       domain.ModeRetail,
		Status:     domain.StatusPaid,
		CreatedAt:  "2024-03-15 10:30:00",
		Items: []domain.SaleItem{
			{ID: 1, SaleID: 7, ProductID: 1, ProductName: "Wheat Seed 1kg", Quantity: 10, UnitPrice: dec("50"), Subtotal: dec("500")},
		},
	}}
}

func creditInvoice() domain.Invoice {
	customerID := int64(3)
	return domain.Invoice{
		Sale: domain.Sale{
			ID:          8,
			CustomerID:  &customerID,
			Subtotal:    dec("250"),
			Discount:    dec("10"),
			Total:       dec("240"),
			AmountPaid:  decimal.Zero,
			PreviousDue: decimal.Zero,
			DueAfter:    dec("240"),
			Mode:        domain.ModeCredit,
			Status:      domain.StatusCredit,
			CreatedAt:   "2024-03-15 11:00:00",
			Items: []domain.SaleItem{
				{ID: 2, SaleID: 8, ProductID: 1, ProductName: "Wheat Seed 1kg", Quantity: 5, UnitPrice: dec("50"), Subtotal: dec("250")},
			},
		},
		Customer: &domain.Customer{ID: 3, Phone: "01712087445", Name: "Rahim", Due: dec("240")},
	}
}

func testRenderer() *Renderer {
	return NewRenderer(Business{
		Name:    "M/s Alif Seed Farm",
		Address: "Sayed Market, Highcourt-Mor, Jashore-7400",
		Phone:   "+8801712087445",
		Email:   "alifseedfarm@outlook.com",
	})
}

func TestRender(t *testing.T) {
	r := testRenderer()

	for name, inv := range map[string]domain.Invoice{"retail": retailInvoice(), "credit": creditInvoice()} {
		t.Run(name, func(t *testing.T) {
			out, err := r.Render(inv)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
			assert.Contains(t, string(out), "%%EOF")
		})
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	r := testRenderer()

	first, err := r.Render(creditInvoice())
	require.NoError(t, err)
	second, err := r.Render(creditInvoice())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderManyLinesPaginates(t *testing.T) {
	inv := retailInvoice()
	inv.Sale.Items = nil
	total := decimal.Zero
	for i := 0; i < 80; i++ {
		item := domain.SaleItem{ProductID: int64(i + 1), ProductName: fmt.Sprintf("Product %02d", i), Quantity: 1, UnitPrice: dec("2.5"), Subtotal: dec("2.5")}
		inv.Sale.Items = append(inv.Sale.Items, item)
		total = total.Add(item.Subtotal)
	}
	inv.Sale.Subtotal = total
	inv.Sale.Total = total
	inv.Sale.AmountPaid = total

	out, err := testRenderer().Render(inv)
	require.NoError(t, err)
	assert.Regexp(t, `/Count [2-9]`, string(out))
}

func TestRenderRejectsMalformedSales(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(inv *domain.Invoice)
	}{
		{name: "missing id", mutate: func(inv *domain.Invoice) { inv.Sale.ID = 0 }},
		{name: "bad timestamp", mutate: func(inv *domain.Invoice) { inv.Sale.CreatedAt = "yesterday" }},
		{name: "no items", mutate: func(inv *domain.Invoice) { inv.Sale.Items = nil }},
		{name: "zero quantity", mutate: func(inv *domain.Invoice) { inv.Sale.Items[0].Quantity = 0 }},
		{name: "line total mismatch", mutate: func(inv *domain.Invoice) { inv.Sale.Items[0].Subtotal = dec("499") }},
		{name: "total mismatch", mutate: func(inv *domain.Invoice) { inv.Sale.Total = dec("250") }},
		{name: "customer not attached", mutate: func(inv *domain.Invoice) { inv.Customer = nil }},
		{name: "unknown mode", mutate: func(inv *domain.Invoice) { inv.Sale.Mode = "barter" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := creditInvoice()
			tt.mutate(&inv)
			_, err := testRenderer().Render(inv)
			assert.ErrorIs(t, err, ErrInvalidSaleRecord)
		})
	}
}

func TestRenderDoesNotMutateInput(t *testing.T) {
	inv := creditInvoice()
	before := fmt.Sprintf("%+v %+v", inv.Sale, *inv.Customer)

	_, err := testRenderer().Render(inv)
	require.NoError(t, err)

	assert.Equal(t, before, fmt.Sprintf("%+v %+v", inv.Sale, *inv.Customer))
}

func TestLoadLogo(t *testing.T) {
	data, kind, err := LoadLogo(filepath.Join(t.TempDir(), "missing.png"))
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.Empty(t, kind)

	path := filepath.Join(t.TempDir(), "logo.jpeg")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xd8}, 0o600))
	data, kind, err = LoadLogo(path)
	require.NoError(t, err)
	assert.Len(t, data, 2)
	assert.Equal(t, "JPG", kind)
}

func TestRenderWithUnicodeFont(t *testing.T) {
	var ttf []byte
	for _, path := range []string{
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/TTF/DejaVuSans.ttf",
		"/Library/Fonts/Arial Unicode.ttf",
	} {
		if data, err := LoadFont(path); err == nil && data != nil {
			ttf = data
			break
		}
	}
	if ttf == nil {
		t.Skip("no TrueType font available")
	}

	inv := creditInvoice()
	inv.Customer.Name = "Иван Žižek"
	r := NewRenderer(Business{Name: "Ünal Store"}, WithFont(ttf))

	data, err := r.Render(inv)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Contains(t, string(data), "/FontFile2", "font is embedded")
}

func TestLoadFont(t *testing.T) {
	data, err := LoadFont(filepath.Join(t.TempDir(), "missing.ttf"))
	require.NoError(t, err)
	assert.Nil(t, data)

	data, err = LoadFont("")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestArchive(t *testing.T) {
	inv := retailInvoice()
	assert.Equal(t, "Invoice_7_20240315_103000.pdf", FileName(inv.Sale))

	dir := filepath.Join(t.TempDir(), "POS_Invoices")
	path, err := Archive{Dir: dir}.Save(inv.Sale, []byte("%PDF-1.3"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Invoice_7_20240315_103000.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(data))
}
