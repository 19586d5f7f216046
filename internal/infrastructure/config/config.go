package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderERede       = "erede"
	ProviderMercadoPago = "mercadopago"
)

// Config is the service configuration, read from the environment (a local .env
// file is loaded by godotenv at startup).
//
// Supported env vars:
//   - PORT (default: 8080)
//   - APP_ENV (default: local)
//   - PAYMENT_PROVIDER: erede | mercadopago (default: erede)
//   - PAYMENT_GATEWAY_MOCK: 1/true/yes/on/mock answers e.Rede calls in process
//   - EREDE_AFFILIATION, EREDE_TOKEN, EREDE_ENVIRONMENT (default: production), EREDE_BASE_URL
//   - EREDE_TIMEOUT (Go duration, default: 30s)
//   - MERCADOPAGO_ACCESS_TOKEN, MERCADOPAGO_PAYER_EMAIL, MERCADOPAGO_PAYMENT_METHOD_ID
type Config struct {
	Port     int
	AppEnv   string
	Provider string
	MockMode bool

	ERede       ERedeConfig
	MercadoPago MercadoPagoConfig
}

type ERedeConfig struct {
	Affiliation int
	Token       string
	Environment string
	BaseURL     string
	Timeout     time.Duration
}

type MercadoPagoConfig struct {
	AccessToken     string
	PayerEmail      string
	PaymentMethodID string
}

func DefaultConfig() Config {
	return Config{
		Port:     8080,
		AppEnv:   "local",
		Provider: ProviderERede,
		ERede: ERedeConfig{
			Environment: "production",
			Timeout:     30 * time.Second,
		},
	}
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 {
			return Config{}, fmt.Errorf("invalid PORT %q", v)
		}
		cfg.Port = port
	}
	cfg.AppEnv = getenvDefault("APP_ENV", cfg.AppEnv)
	cfg.Provider = strings.ToLower(getenvDefault("PAYMENT_PROVIDER", cfg.Provider))
	cfg.MockMode = isEnabled(os.Getenv("PAYMENT_GATEWAY_MOCK"))

	if v := os.Getenv("EREDE_AFFILIATION"); v != "" {
		affiliation, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return Config{}, fmt.Errorf("invalid EREDE_AFFILIATION %q", v)
		}
		cfg.ERede.Affiliation = affiliation
	}
	cfg.ERede.Token = os.Getenv("EREDE_TOKEN")
	cfg.ERede.Environment = getenvDefault("EREDE_ENVIRONMENT", cfg.ERede.Environment)
	cfg.ERede.BaseURL = os.Getenv("EREDE_BASE_URL")
	if v := os.Getenv("EREDE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid EREDE_TIMEOUT %q: %w", v, err)
		}
		cfg.ERede.Timeout = d
	}

	cfg.MercadoPago = MercadoPagoConfig{
		AccessToken:     os.Getenv("MERCADOPAGO_ACCESS_TOKEN"),
		PayerEmail:      os.Getenv("MERCADOPAGO_PAYER_EMAIL"),
		PaymentMethodID: os.Getenv("MERCADOPAGO_PAYMENT_METHOD_ID"),
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Provider {
	case ProviderERede:
		if c.MockMode {
			return nil
		}
		if c.ERede.Affiliation == 0 || c.ERede.Token == "" {
			return errors.New("EREDE_AFFILIATION and EREDE_TOKEN are required")
		}
	case ProviderMercadoPago:
		if c.MercadoPago.AccessToken == "" {
			return errors.New("MERCADOPAGO_ACCESS_TOKEN is required")
		}
	default:
		return fmt.Errorf("unknown PAYMENT_PROVIDER %q", c.Provider)
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func isEnabled(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on", "mock":
		return true
	}
	return false
}
