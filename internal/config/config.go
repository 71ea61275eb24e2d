// Package config reads server settings from the environment. A .env file in
// the working directory is loaded first when present; variables already set
// in the process environment win.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	Price  PriceConfig
}

type ServerConfig struct {
	Addr      string
	DBPath    string
	AdminUser string
	LogPath   string
	JWTIssuer string
}

type PriceConfig struct {
	URL      string
	Field    string
	Interval time.Duration
	Timeout  time.Duration
	Fallback float64
}

// Load reads the .env file (if any) and builds the configuration.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return FromEnv(), nil
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:      getEnv("KHUSHII_ADDR", ":8080"),
			DBPath:    getEnv("KHUSHII_DB", "khushii.sqlite3"),
			AdminUser: getEnv("KHUSHII_ADMIN_USER", "Admin"),
			LogPath:   getEnv("KHUSHII_LOG", ""),
			JWTIssuer: getEnv("KHUSHII_JWT_ISSUER", "khushii"),
		},
		Price: PriceConfig{
			URL:      getEnv("GOLD_PRICE_URL", ""),
			Field:    getEnv("GOLD_PRICE_FIELD", "price"),
			Interval: getEnvDuration("GOLD_PRICE_INTERVAL", 24*time.Hour),
			Timeout:  getEnvDuration("GOLD_PRICE_TIMEOUT", 10*time.Second),
			Fallback: getEnvFloat("GOLD_PRICE_FALLBACK", 0),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
