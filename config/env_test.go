package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Order.TaxRate != 0.18 {
		t.Errorf("expected default tax rate 0.18, got %v", cfg.Order.TaxRate)
	}
	if cfg.Order.Currency != "FCFA" {
		t.Errorf("expected default currency FCFA, got %s", cfg.Order.Currency)
	}
	if cfg.QR.MaxAge != 24*time.Hour {
		t.Errorf("expected default QR max age 24h, got %v", cfg.QR.MaxAge)
	}
	if cfg.DB.SSLMode != "disable" {
		t.Errorf("expected default sslmode disable, got %s", cfg.DB.SSLMode)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("TAX_RATE", "0.2")
	t.Setenv("QR_MAX_AGE_HOURS", "0")
	t.Setenv("CURRENCY", "EUR")

	cfg := LoadConfig()

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Order.TaxRate != 0.2 {
		t.Errorf("expected tax rate 0.2, got %v", cfg.Order.TaxRate)
	}
	if cfg.QR.MaxAge != 0 {
		t.Errorf("expected QR expiry disabled, got %v", cfg.QR.MaxAge)
	}
	if cfg.Order.Currency != "EUR" {
		t.Errorf("expected currency EUR, got %s", cfg.Order.Currency)
	}
}

func TestDBConfigDSN(t *testing.T) {
	c := DBConfig{
		Host:     "db.internal",
		Port:     "5433",
		User:     "resto",
		Password: "secret",
		Name:     "akounamatata",
		SSLMode:  "require",
	}

	want := "host=db.internal port=5433 user=resto password=secret dbname=akounamatata sslmode=require"
	if got := c.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
