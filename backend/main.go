package main

import (
	"context"
	"log"
	"net/http"

	"shoppos/m/internal/api"
	"shoppos/m/internal/auth"
	"shoppos/m/internal/config"
	"shoppos/m/internal/invoice"
	"shoppos/m/internal/pos"
	"shoppos/m/internal/seed"
	"shoppos/m/internal/store"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	st, err := store.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("database error: %v", err)
	}
	defer st.Close()

	seed.LoadProducts(ctx, st.DB(), cfg.CatalogCSV)

	authSvc := auth.NewService(st, cfg.Secret)
	if err := seed.Operator(ctx, st, authSvc, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("seed operator: %v", err)
	}

	opts := []invoice.Option{invoice.WithCurrency(cfg.Currency)}
	logo, logoType, err := invoice.LoadLogo(cfg.LogoPath)
	if err != nil {
		log.Printf("invoice logo skipped: %v", err)
	} else if logo != nil {
		opts = append(opts, invoice.WithLogo(logo, logoType))
	}
	font, err := invoice.LoadFont(cfg.FontPath)
	if err != nil {
		log.Printf("invoice font skipped: %v", err)
	} else if font != nil {
		opts = append(opts, invoice.WithFont(font))
	}
	renderer := invoice.NewRenderer(invoice.Business{
		Name:    cfg.Business.Name,
		Address: cfg.Business.Address,
		Phone:   cfg.Business.Phone,
		Email:   cfg.Business.Email,
	}, opts...)

	handler := api.New(pos.NewService(st), authSvc, renderer, &invoice.Archive{Dir: cfg.InvoiceDir})

	log.Printf("POS server starting on %s", cfg.Addr())
	if err := http.ListenAndServe(cfg.Addr(), handler.Router()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
