package store

import (
	"context"
	"testing"
	"time"

	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/db"
)

func TestIsTokenRevoked(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if err := RevokeToken(ctx, database, "session-a", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}
	// A second logout with the same token is harmless.
	if err := RevokeToken(ctx, database, "session-a", time.Now().Add(2*time.Hour)); err != nil {
		t.Fatalf("RevokeToken again: %v", err)
	}

	tests := []struct {
		jti  string
		want bool
	}{
		{"session-a", true},
		{"session-b", false},
		{"", false},
	}
	for _, tt := range tests {
		got, err := IsTokenRevoked(ctx, database, tt.jti)
		if err != nil {
			t.Fatalf("IsTokenRevoked(%q): %v", tt.jti, err)
		}
		if got != tt.want {
			t.Errorf("IsTokenRevoked(%q) = %v, want %v", tt.jti, got, tt.want)
		}
	}
}

func TestRevokeTokenDropsExpiredRows(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// Already expired: stored, then swept by the purge in the same call.
	if err := RevokeToken(ctx, database, "stale", time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}
	if revoked, _ := IsTokenRevoked(ctx, database, "stale"); revoked {
		t.Error("expected expired revocation to be purged")
	}

	if err := RevokeToken(ctx, database, "live", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}
	var rows int
	if err := database.Get(&rows, `SELECT COUNT(*) FROM revoked_tokens`); err != nil {
		t.Fatal(err)
	}
	if rows != 1 {
		t.Errorf("expected 1 revocation row, got %d", rows)
	}
}

func TestPurgeExpiredTokens(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	base := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, jti := range []string{"t1", "t2", "t3"} {
		if err := RevokeToken(ctx, database, jti, base.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("RevokeToken(%s): %v", jti, err)
		}
	}

	n, err := PurgeExpiredTokens(ctx, database, base.Add(90*time.Minute))
	if err != nil {
		t.Fatalf("PurgeExpiredTokens: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 purged, got %d", n)
	}
	if revoked, _ := IsTokenRevoked(ctx, database, "t3"); !revoked {
		t.Error("expected t3 to still be revoked")
	}
	if revoked, _ := IsTokenRevoked(ctx, database, "t1"); revoked {
		t.Error("expected t1 to be purged")
	}
}
