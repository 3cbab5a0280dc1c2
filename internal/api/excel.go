package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"

	"shoppos/m/internal/pos"
)

var productColumns = []string{
	"ID", "Name", "Description", "BuyPrice", "SellPrice", "Quantity", "CreatedAt", "UpdatedAt",
}

const maxImportSize = 10 << 20

func (h *Handler) exportProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.pos.ListProducts(r.Context(), "")
	if err != nil {
		respondServiceError(w, err)
		return
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create sheet")
		return
	}
	header := sheet.AddRow()
	for _, col := range productColumns {
		header.AddCell().SetValue(col)
	}
	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetValue(p.BuyPrice.StringFixed(2))
		row.AddCell().SetValue(p.SellPrice.StringFixed(2))
		row.AddCell().SetValue(p.Quantity)
		row.AddCell().SetValue(p.CreatedAt)
		row.AddCell().SetValue(p.UpdatedAt)
	}

	w.Header().Set("Content-Disposition", "attachment; filename=products.xlsx")
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(w); err != nil {
		log.Printf("write products export: %v", err)
	}
}

type importResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// importProducts reads a sheet laid out like the export. Rows with a known
// ID update that product, other rows are added. Each row stands alone.
func (h *Handler) importProducts(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		respondError(w, http.StatusBadRequest, "multipart form with an xlsx file is required")
		return
	}
	file, fh, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "xlsx file is required")
		return
	}
	defer file.Close()

	book, err := xlsx.OpenReaderAt(file, fh.Size)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse xlsx file")
		return
	}
	if len(book.Sheets) == 0 || book.Sheets[0].MaxRow < 2 {
		respondError(w, http.StatusBadRequest, "sheet is empty or missing header row")
		return
	}

	sheet := book.Sheets[0]
	var res importResult
	for i := 1; i < sheet.MaxRow && i < len(sheet.Rows); i++ {
		row := sheet.Rows[i]
		get := func(index int) string {
			if index < len(row.Cells) {
				return strings.TrimSpace(row.Cells[index].String())
			}
			return ""
		}

		in, err := productRow(get)
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, "row "+strconv.Itoa(i+1)+": "+err.Error())
			continue
		}

		if id, err := strconv.ParseInt(get(0), 10, 64); err == nil && id > 0 {
			_, err := h.pos.UpdateProduct(r.Context(), id, in)
			if err == nil {
				res.Updated++
				continue
			}
			if !errors.Is(err, pos.ErrRecordNotFound) {
				res.Skipped++
				res.Errors = append(res.Errors, "row "+strconv.Itoa(i+1)+": "+err.Error())
				continue
			}
		}
		if _, err := h.pos.AddProduct(r.Context(), in); err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, "row "+strconv.Itoa(i+1)+": "+err.Error())
			continue
		}
		res.Created++
	}

	log.Printf("product import: %d created, %d updated, %d skipped", res.Created, res.Updated, res.Skipped)
	respondJSON(w, http.StatusOK, res)
}

func productRow(get func(int) string) (pos.ProductInput, error) {
	buy, err := decimal.NewFromString(orZero(get(3)))
	if err != nil {
		return pos.ProductInput{}, errors.New("invalid buy price")
	}
	sell, err := decimal.NewFromString(get(4))
	if err != nil {
		return pos.ProductInput{}, errors.New("invalid sell price")
	}
	qty, err := decimal.NewFromString(orZero(get(5)))
	if err != nil || !qty.IsInteger() {
		return pos.ProductInput{}, errors.New("invalid quantity")
	}
	return pos.ProductInput{
		Name:        get(1),
		Description: get(2),
		BuyPrice:    buy,
		SellPrice:   sell,
		Quantity:    qty.IntPart(),
	}, nil
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
