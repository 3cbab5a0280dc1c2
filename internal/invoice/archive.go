package invoice

import (
	"fmt"
	"os"
	"path/filepath"

	"shoppos/m/domain"
)

// FileName names the PDF for sale, e.g. Invoice_12_20240315_103000.pdf.
func FileName(sale domain.Sale) string {
	stamp := "undated"
	if at, err := sale.Time(); err == nil {
		stamp = at.Format("20060102_150405")
	}
	return fmt.Sprintf("Invoice_%d_%s.pdf", sale.ID, stamp)
}

// Archive keeps printed invoices in a directory.
type Archive struct {
	Dir string
}

// Save writes data under FileName(sale) and returns the full path.
func (a Archive) Save(sale domain.Sale, data []byte) (string, error) {
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create invoice directory: %w", err)
	}
	path := filepath.Join(a.Dir, FileName(sale))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write invoice %s: %w", path, err)
	}
	return path, nil
}
