package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Resolution strategies. The deployed storefront decides which one applies:
// kiosks printing ?skuId= QR codes use StrategySKU, kiosks printing product
// page links use StrategySlug.
const (
	StrategySKU  = "sku"
	StrategySlug = "slug"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Store    StoreConfig
	Upstream UpstreamConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

type AuthConfig struct {
	APIKeys []string // Kiosk API keys; empty disables auth on /resolve
}

// StoreConfig describes the storefront whose QR codes this deployment accepts.
type StoreConfig struct {
	Domain             string // host the scanned URL must belong to
	SalesChannel       string // trade policy selecting the applicable price list
	DefaultSeller      string // marketplace seller used when the catalog names none
	Currency           string // ISO code reported back to the kiosk front end
	Strategy           string // "sku" or "slug"
	SimulationFallback bool   // substitute the catalog offer price when simulation rejects
	StockEnabled       bool   // attempt the best-effort inventory lookup
}

// UpstreamConfig carries the commerce platform account and credentials.
type UpstreamConfig struct {
	Account        string
	AppKey         string
	AppToken       string
	TimeoutSeconds int
}

// Load reads configuration from environment variables.
// A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 30),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Auth: AuthConfig{
			APIKeys: getEnvAsSlice("API_KEYS", nil),
		},
		Store: StoreConfig{
			Domain:             getEnv("STORE_DOMAIN", "www.tiendacolucci.com.ar"),
			SalesChannel:       getEnv("SALES_CHANNEL", "1"),
			DefaultSeller:      getEnv("DEFAULT_SELLER", "1"),
			Currency:           getEnv("CURRENCY", "ARS"),
			Strategy:           getEnv("RESOLVE_STRATEGY", StrategySKU),
			SimulationFallback: getEnvAsBool("SIMULATION_FALLBACK", true),
			StockEnabled:       getEnvAsBool("STOCK_ENABLED", true),
		},
		Upstream: UpstreamConfig{
			Account:        os.Getenv("VTEX_ACCOUNT"),
			AppKey:         os.Getenv("VTEX_APP_KEY"),
			AppToken:       os.Getenv("VTEX_APP_TOKEN"),
			TimeoutSeconds: getEnvAsInt("UPSTREAM_TIMEOUT", 15),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	// Missing platform credentials are a startup error, never a runtime one.
	if c.Upstream.Account == "" || c.Upstream.AppKey == "" || c.Upstream.AppToken == "" {
		return fmt.Errorf("VTEX_ACCOUNT, VTEX_APP_KEY and VTEX_APP_TOKEN are required")
	}

	if c.Store.Domain == "" {
		return fmt.Errorf("STORE_DOMAIN is required")
	}

	if c.Store.Strategy != StrategySKU && c.Store.Strategy != StrategySlug {
		return fmt.Errorf("invalid resolve strategy: %s (must be %s or %s)", c.Store.Strategy, StrategySKU, StrategySlug)
	}

	if c.Upstream.TimeoutSeconds <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
