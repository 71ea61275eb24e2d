package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/auth"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/catalog"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/model"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/policy"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/store"
)

type webContextKey string

const webClaimsKey webContextKey = "webclaims"

const (
	tokenCookie    = "token"
	expandedCookie = "expanded"
	loginPath      = "/admin/login"
)

// CookieAuthMiddleware validates the JWT cookie, checks token revocation and
// adds the claims to the context. Requests without a valid session are sent
// to the login page.
func CookieAuthMiddleware(tokens *auth.Tokens, db *sqlx.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := sessionClaims(r, tokens, db)
			if claims == nil {
				clearCookie(w, tokenCookie)
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), webClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionClaims returns the claims of a valid, unrevoked session cookie.
func sessionClaims(r *http.Request, tokens *auth.Tokens, db *sqlx.DB) *auth.Claims {
	cookie, err := r.Cookie(tokenCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}

	claims, err := tokens.Validate(cookie.Value)
	if err != nil {
		return nil
	}

	revoked, err := store.IsTokenRevoked(r.Context(), db, claims.ID)
	if err != nil {
		slog.Error("failed to check token revocation", "error", err)
		return nil
	}
	if revoked {
		return nil
	}
	return claims
}

// requirePolicy gates a page on the access policy for table and op.
func (s *Server) requirePolicy(table policy.Table, op policy.Op) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetWebClaims(r.Context())
			if policy.Allow(table, op, policy.RoleOf(claims != nil)) {
				next.ServeHTTP(w, r)
				return
			}
			if claims == nil {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			s.renderError(w, r, http.StatusForbidden, "You do not have permission to do that.")
		})
	}
}

// requireAdmin limits a page to the admin role.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetWebClaims(r.Context())
		if claims == nil || !model.RoleAtLeast(claims.Role, model.RoleAdmin) {
			s.renderError(w, r, http.StatusForbidden, "Only administrators can manage accounts.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clearCookie removes a cookie with consistent attributes.
func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// GetWebClaims retrieves the JWT claims from web context.
func GetWebClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(webClaimsKey).(*auth.Claims)
	return claims
}

// expandedSet reads the per-session expand/collapse set.
func expandedSet(r *http.Request) catalog.ExpandSet {
	cookie, err := r.Cookie(expandedCookie)
	if err != nil {
		return catalog.ExpandSet{}
	}
	return catalog.DecodeExpandSet(cookie.Value)
}

// saveExpandedSet stores the set as a session cookie (no MaxAge).
func saveExpandedSet(w http.ResponseWriter, set catalog.ExpandSet) {
	http.SetCookie(w, &http.Cookie{
		Name:     expandedCookie,
		Value:    set.Encode(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
