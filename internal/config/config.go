package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Business identifies the shop on printed invoices.
type Business struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// DefaultSecret signs tokens when SECRET is not set. It is public.
const DefaultSecret = "dev_secret"

// Config holds application configuration values.
type Config struct {
	Secret        string
	DatabaseDSN   string
	HTTPHost      string
	HTTPPort      string
	InvoiceDir    string
	LogoPath      string
	FontPath      string
	CatalogCSV    string
	AdminUsername string
	AdminPassword string
	Currency      string
	Business      Business
}

// Addr is the listen address for the local API.
func (c Config) Addr() string {
	return c.HTTPHost + ":" + c.HTTPPort
}

// Load reads configuration from environment variables with reasonable defaults.
// A .env file in the working directory is applied first when present.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("unable to read .env file: %v", err)
	}

	secret := os.Getenv("SECRET")
	if secret == "" {
		secret = DefaultSecret
	}
	if secret == DefaultSecret {
		log.Printf("warning: SECRET is unset or left at the default; anyone can forge login tokens")
	}

	host := os.Getenv("HTTP_HOST")
	if host == "" {
		host = "127.0.0.1"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	// Validate that port is numeric.
	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = "pos_system.db"
	}

	invoiceDir := os.Getenv("INVOICE_DIR")
	if invoiceDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		invoiceDir = filepath.Join(home, "POS_Invoices")
	}

	logo := os.Getenv("LOGO_PATH")
	if logo == "" {
		logo = "logo.png"
	}

	adminUser := os.Getenv("ADMIN_USERNAME")
	if adminUser == "" {
		adminUser = "admin"
	}

	currency := os.Getenv("CURRENCY")
	if currency == "" {
		currency = "tk"
	}

	business := Business{
		Name:    os.Getenv("BUSINESS_NAME"),
		Address: os.Getenv("BUSINESS_ADDRESS"),
		Phone:   os.Getenv("BUSINESS_PHONE"),
		Email:   os.Getenv("BUSINESS_EMAIL"),
	}
	if business.Name == "" {
		business.Name = "My Shop"
	}

	return Config{
		Secret:        secret,
		DatabaseDSN:   dsn,
		HTTPHost:      host,
		HTTPPort:      port,
		InvoiceDir:    invoiceDir,
		LogoPath:      logo,
		FontPath:      os.Getenv("FONT_PATH"),
		CatalogCSV:    os.Getenv("CATALOG_CSV"),
		AdminUsername: adminUser,
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		Currency:      currency,
		Business:      business,
	}
}
