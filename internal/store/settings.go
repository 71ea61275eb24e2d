package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/model"
)

// ListSettings returns all admin settings except reserved keys, ordered by key.
func ListSettings(ctx context.Context, db *sqlx.DB) ([]model.Setting, error) {
	var settings []model.Setting
	err := db.SelectContext(ctx, &settings,
		`SELECT key, value, updated_at FROM admin_settings WHERE key <> ? ORDER BY key`,
		model.SettingJWTSecret,
	)
	if err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}
	return settings, nil
}

// GetSetting returns a setting's value and whether it exists.
func GetSetting(ctx context.Context, db *sqlx.DB, key string) (string, bool, error) {
	var value string
	err := db.GetContext(ctx, &value, `SELECT value FROM admin_settings WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSetting inserts or replaces a setting.
func SetSetting(ctx context.Context, db *sqlx.DB, key, value string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO admin_settings (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

// GetJWTSecret retrieves the JWT secret from admin_settings.
// If no secret exists, it generates one, stores it, and returns it.
// Uses INSERT OR IGNORE + re-SELECT to avoid TOCTOU race on concurrent startup.
func GetJWTSecret(ctx context.Context, db *sqlx.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	candidate := hex.EncodeToString(buf)

	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO admin_settings (key, value) VALUES (?, ?)`,
		model.SettingJWTSecret, candidate,
	)
	if err != nil {
		return "", fmt.Errorf("storing jwt_secret: %w", err)
	}

	secret, _, err := GetSetting(ctx, db, model.SettingJWTSecret)
	if err != nil {
		return "", err
	}
	return secret, nil
}
