package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// revocation is a row of revoked_tokens. Times are stored in UTC so the
// expiry comparison in PurgeExpiredTokens orders correctly.
type revocation struct {
	JTI       string    `db:"jti"`
	ExpiresAt time.Time `db:"expires_at"`
}

// RevokeToken blocks the token with the given JTI until it expires. Rows for
// tokens that have already expired are dropped on the way.
func RevokeToken(ctx context.Context, db *sqlx.DB, jti string, expiresAt time.Time) error {
	_, err := db.NamedExecContext(ctx,
		`INSERT OR IGNORE INTO revoked_tokens (jti, expires_at) VALUES (:jti, :expires_at)`,
		revocation{JTI: jti, ExpiresAt: expiresAt.UTC()},
	)
	if err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}

	if _, err := PurgeExpiredTokens(ctx, db, time.Now()); err != nil {
		slog.Warn("failed to purge expired revocations", "error", err)
	}
	return nil
}

// PurgeExpiredTokens deletes revocations whose token expired before now and
// reports how many were removed.
func PurgeExpiredTokens(ctx context.Context, db *sqlx.DB, now time.Time) (int64, error) {
	result, err := db.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < ?`, now.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("purging revoked tokens: %w", err)
	}
	return result.RowsAffected()
}

// IsTokenRevoked reports whether the JTI is on the revocation list.
func IsTokenRevoked(ctx context.Context, db *sqlx.DB, jti string) (bool, error) {
	var revoked bool
	err := db.GetContext(ctx, &revoked,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = ?)`, jti,
	)
	if err != nil {
		return false, fmt.Errorf("checking token revocation: %w", err)
	}
	return revoked, nil
}
