package model

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Setting is a row of admin_settings.
type Setting struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Well-known setting keys.
const (
	SettingStoreName     = "store_name"
	SettingFallbackPrice = "gold_price_fallback"

	// SettingJWTSecret is never listed or writable through the API.
	SettingJWTSecret = "jwt_secret"
)

var (
	ErrReservedSetting = errors.New("setting is managed by the server")
	ErrInvalidKey      = errors.New("setting key must be lowercase letters, digits or underscores")
)

var settingKey = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)

// IsReservedSetting reports whether key is managed internally.
func IsReservedSetting(key string) bool {
	return key == SettingJWTSecret
}

// ValidateSetting checks that key may be written and that well-known keys
// carry a value of the right shape.
func ValidateSetting(key, value string) error {
	if IsReservedSetting(key) {
		return ErrReservedSetting
	}
	if !settingKey.MatchString(key) {
		return ErrInvalidKey
	}
	if key == SettingFallbackPrice {
		if _, err := ParsePrice(value); err != nil {
			return err
		}
	}
	return nil
}

// ParsePrice parses a positive, finite price such as "6250.50".
func ParsePrice(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, fmt.Errorf("invalid price %q: must be a positive number", s)
	}
	return v, nil
}
