// Package invoice prints stored sales as PDF bills. Rendering reads nothing
// but its input, so the same sale always yields the same bytes.
package invoice

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"shoppos/m/domain"
)

// Business is the shop identity printed in the invoice header.
type Business struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

type Renderer struct {
	business Business
	currency string
	logo     []byte
	logoType string
	font     []byte
}

type Option func(*Renderer)

// WithCurrency sets the suffix printed after amounts.
func WithCurrency(code string) Option {
	return func(r *Renderer) { r.currency = code }
}

// WithLogo draws the image in the header. imageType is "PNG", "JPG" or "GIF".
func WithLogo(data []byte, imageType string) Option {
	return func(r *Renderer) {
		r.logo = data
		r.logoType = imageType
	}
}

// WithFont prints all text in the given TrueType font, embedded as UTF-8.
// Without it the core Helvetica font is used, which only covers Latin-1
// (cp1252); names in other scripts need a font such as Noto Sans Bengali.
func WithFont(ttf []byte) Option {
	return func(r *Renderer) { r.font = ttf }
}

func NewRenderer(b Business, opts ...Option) *Renderer {
	r := &Renderer{business: b, currency: "tk"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadLogo reads an image file for WithLogo. A missing file is not an
// error: it yields no data.
func LoadLogo(path string) ([]byte, string, error) {
	if path == "" {
		return nil, "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", nil
		}
		return nil, "", err
	}
	kind := strings.ToUpper(strings.TrimPrefix(filepath.Ext(path), "."))
	if kind == "JPEG" {
		kind = "JPG"
	}
	return data, kind, nil
}

// LoadFont reads a TrueType file for WithFont. A missing file yields no
// data.
func LoadFont(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	return data, err
}

const (
	coreFamily    = "Helvetica"
	unicodeFamily = "invoice"

	margin    = 12.7
	rowHeight = 7.0
)

var (
	colorInk    = [3]int{0x2c, 0x3e, 0x50}
	colorAccent = [3]int{0x34, 0x98, 0xdb}
	colorMuted  = [3]int{0x7f, 0x8c, 0x8d}
	colorStripe = [3]int{0xf8, 0xf9, 0xfa}
	colorGrid   = [3]int{0xe0, 0xe0, 0xe0}
	colorDue    = [3]int{0xd4, 0xed, 0xda}
)

// Render lays out the invoice for inv and returns the PDF bytes.
func (r *Renderer) Render(inv domain.Invoice) ([]byte, error) {
	if err := Validate(inv); err != nil {
		return nil, err
	}
	at, _ := inv.Sale.Time()

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(at)
	pdf.SetModificationDate(at)
	pdf.SetTitle(fmt.Sprintf("Invoice %d", inv.Sale.ID), true)
	pdf.SetAuthor(r.business.Name, true)
	pdf.SetCreator("shoppos", false)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin+8)
	pdf.AliasNbPages("")

	p := &page{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), currency: r.currency, family: coreFamily}
	if len(r.font) > 0 {
		// The same face serves every style; TrueType fonts get no synthetic bold.
		for _, style := range []string{"", "B", "I"} {
			pdf.AddUTF8FontFromBytes(unicodeFamily, style, r.font)
		}
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("load invoice font: %w", err)
		}
		p.family = unicodeFamily
		p.tr = func(s string) string { return s }
	}
	pdf.SetFooterFunc(p.footer)
	pdf.AddPage()

	r.header(p, inv, at.Format("02-Jan-2006 03:04 PM"))
	p.customer(inv.Customer)
	p.items(inv.Sale.Items)
	p.summary(inv)
	p.closing()

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %d: %w", inv.Sale.ID, err)
	}
	return buf.Bytes(), nil
}

type page struct {
	pdf      *fpdf.Fpdf
	tr       func(string) string
	currency string
	family   string
}

func (p *page) font(style string, size float64) {
	p.pdf.SetFont(p.family, style, size)
}

func (p *page) color(c [3]int) {
	p.pdf.SetTextColor(c[0], c[1], c[2])
}

func (p *page) fill(c [3]int) {
	p.pdf.SetFillColor(c[0], c[1], c[2])
}

func (p *page) money(d decimal.Decimal) string {
	return d.StringFixed(2) + " " + p.currency
}

func (p *page) width() float64 {
	w, _ := p.pdf.GetPageSize()
	return w - 2*margin
}

func (r *Renderer) header(p *page, inv domain.Invoice, date string) {
	pdf := p.pdf
	if len(r.logo) > 0 {
		name := "logo"
		info := pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: r.logoType}, bytes.NewReader(r.logo))
		if info != nil && pdf.Ok() {
			pdf.ImageOptions(name, margin, margin, 0, 18, false, fpdf.ImageOptions{ImageType: r.logoType}, 0, "")
		} else {
			pdf.ClearError()
		}
	}

	p.color(colorInk)
	p.font("B", 24)
	pdf.CellFormat(0, 11, p.tr(r.business.Name), "", 1, "C", false, 0, "")
	p.font("B", 9)
	for _, line := range []string{r.business.Address, contact("Phone", r.business.Phone), contact("Email", r.business.Email)} {
		if line == "" {
			continue
		}
		pdf.CellFormat(0, 4.5, p.tr(line), "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)
	y := pdf.GetY()
	pdf.SetDrawColor(colorInk[0], colorInk[1], colorInk[2])
	pdf.Line(margin, y, margin+p.width(), y)
	pdf.Ln(4)

	p.color(colorAccent)
	p.font("B", 16)
	pdf.CellFormat(0, 9, "SALES INVOICE", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	p.color(colorInk)
	p.font("", 10)
	half := p.width() / 2
	pdf.CellFormat(half, 6, fmt.Sprintf("Invoice #: %d", inv.Sale.ID), "", 0, "L", false, 0, "")
	pdf.CellFormat(half, 6, "Date: "+date, "", 1, "R", false, 0, "")
	pdf.Ln(4)
}

func contact(label, value string) string {
	if value == "" {
		return ""
	}
	return label + ": " + value
}

func (p *page) section(title string) {
	p.color(colorInk)
	p.font("B", 9)
	p.pdf.CellFormat(0, 5, title, "", 1, "L", false, 0, "")
	p.pdf.Ln(1)
}

func (p *page) customer(c *domain.Customer) {
	pdf := p.pdf
	p.section("CUSTOMER DETAILS")
	rows := [][2]string{{"Name:", "Walk-in customer"}}
	if c != nil {
		email := c.Email
		if email == "" {
			email = "N/A"
		}
		rows = [][2]string{{"Name:", c.Name}, {"Phone:", c.Phone}, {"Email:", email}}
		if c.Address != "" {
			rows = append(rows, [2]string{"Address:", c.Address})
		}
	}
	p.font("", 10)
	for i, row := range rows {
		p.fill(colorStripe)
		pdf.CellFormat(28, 6, row[0], "", 0, "L", i == 0, 0, "")
		pdf.CellFormat(0, 6, p.tr(row[1]), "", 1, "L", i == 0, 0, "")
	}
	pdf.Ln(6)
}

func (p *page) itemColumns() []float64 {
	w := p.width()
	return []float64{w - 32 - 2*40, 32, 40, 40}
}

func (p *page) tableHeader() {
	pdf := p.pdf
	cols := p.itemColumns()
	p.fill(colorAccent)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetDrawColor(colorGrid[0], colorGrid[1], colorGrid[2])
	p.font("B", 10)
	for i, title := range []string{"Product", "Qty", "Unit Price", "Total"} {
		align := "L"
		if i > 1 {
			align = "R"
		}
		pdf.CellFormat(cols[i], rowHeight+1, title, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)
	p.color(colorInk)
	p.font("", 10)
}

func (p *page) items(items []domain.SaleItem) {
	pdf := p.pdf
	p.section("ITEMS PURCHASED")
	p.tableHeader()

	cols := p.itemColumns()
	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for i, item := range items {
		if pdf.GetY()+rowHeight > pageHeight-bottom {
			pdf.AddPage()
			p.tableHeader()
		}
		p.fill(colorStripe)
		stripe := i%2 == 1
		pdf.CellFormat(cols[0], rowHeight, p.tr(item.ProductName), "1", 0, "L", stripe, 0, "")
		pdf.CellFormat(cols[1], rowHeight, fmt.Sprintf("%d", item.Quantity), "1", 0, "L", stripe, 0, "")
		pdf.CellFormat(cols[2], rowHeight, p.money(item.UnitPrice), "1", 0, "R", stripe, 0, "")
		pdf.CellFormat(cols[3], rowHeight, p.money(item.Subtotal), "1", 1, "R", stripe, 0, "")
	}
	pdf.Ln(6)
}

func (p *page) summary(inv domain.Invoice) {
	pdf := p.pdf
	sale := inv.Sale
	p.section("PAYMENT SUMMARY")

	mode := "Retail (paid in full)"
	if sale.Mode == domain.ModeCredit {
		mode = "Credit"
	}
	rows := [][2]string{
		{"Subtotal:", p.money(sale.Subtotal)},
		{"Discount:", p.money(sale.Discount)},
		{"Total:", p.money(sale.Total)},
		{"Payment Mode:", mode},
		{"Amount Paid:", p.money(sale.AmountPaid)},
	}
	if inv.Customer != nil {
		rows = append(rows,
			[2]string{"Previous Due:", p.money(sale.PreviousDue)},
			[2]string{"New Due:", p.money(sale.DueAfter)},
		)
	}

	label := p.width() - 50
	for i, row := range rows {
		last := inv.Customer != nil && i == len(rows)-1
		style := ""
		if row[0] == "Total:" || last {
			style = "B"
		}
		p.font(style, 12)
		if last {
			p.fill(colorDue)
		}
		pdf.CellFormat(label, 8, row[0], "", 0, "R", last, 0, "")
		pdf.CellFormat(50, 8, row[1], "", 1, "R", last, 0, "")
	}
	pdf.Ln(10)
}

func (p *page) closing() {
	pdf := p.pdf
	p.color(colorMuted)
	p.font("I", 8)
	for _, line := range []string{
		"Thank you for your business!",
		"We appreciate your trust in our products",
		"Terms: All sales are final. Please contact us within 7 days for any issues.",
	} {
		pdf.CellFormat(0, 4.5, line, "", 1, "C", false, 0, "")
	}
}

func (p *page) footer() {
	pdf := p.pdf
	pdf.SetY(-margin - 4)
	p.color(colorMuted)
	p.font("I", 7)
	pdf.CellFormat(0, 4, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
}
