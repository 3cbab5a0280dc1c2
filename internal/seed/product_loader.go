package seed

import (
	"context"
	"encoding/csv"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// LoadProducts ingests a product catalog CSV with the header
// name,description,buy_price,sell_price,quantity. Rows whose name already
// exists are ignored. It returns the number of products added.
func LoadProducts(ctx context.Context, db *sqlx.DB, csvPath string) int {
	if csvPath == "" {
		return 0
	}
	file, err := os.Open(csvPath)
	if err != nil {
		log.Printf("unable to load product catalog %s: %v", csvPath, err)
		return 0
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	// Skip header
	if _, err := reader.Read(); err != nil {
		log.Printf("unable to read product header: %v", err)
		return 0
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		log.Printf("unable to start product transaction: %v", err)
		return 0
	}
	stmt, err := tx.PreparexContext(ctx, `INSERT OR IGNORE INTO products (name, description, buy_price, sell_price, quantity) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		log.Printf("unable to prepare product insert: %v", err)
		_ = tx.Rollback()
		return 0
	}
	defer stmt.Close()

	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("unable to read product row: %v", err)
			continue
		}
		if len(record) < 5 {
			continue
		}
		name := strings.TrimSpace(record[0])
		description := strings.TrimSpace(record[1])
		buy, errBuy := decimal.NewFromString(strings.TrimSpace(record[2]))
		sell, errSell := decimal.NewFromString(strings.TrimSpace(record[3]))
		qty, errQty := strconv.ParseInt(strings.TrimSpace(record[4]), 10, 64)

		if name == "" || errBuy != nil || errSell != nil || errQty != nil || qty < 0 || !sell.IsPositive() {
			log.Printf("skipping product row %q: bad values", name)
			continue
		}

		res, err := stmt.ExecContext(ctx, name, description, buy, sell, qty)
		if err != nil {
			log.Printf("unable to insert product %s: %v", name, err)
			continue
		}
		if n, _ := res.RowsAffected(); n > 0 {
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("unable to commit product seed: %v", err)
		return 0
	}
	log.Printf("seeded product catalog with %d rows", rows)
	return rows
}
