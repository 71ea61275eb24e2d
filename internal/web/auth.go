package web

import (
	"log/slog"
	"net/http"

	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/auth"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/store"
)

// LoginPage handles GET /admin/login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	data := s.page(r, "Sign in")
	s.Templates.Render(w, "login.html", &data)
}

// LoginSubmit handles POST /admin/login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	fail := func(status int, msg string) {
		data := s.page(r, "Sign in")
		data.Error = msg
		s.Templates.RenderStatus(w, status, "login.html", &data)
	}

	if username == "" || password == "" {
		fail(http.StatusBadRequest, "Enter your username and password.")
		return
	}

	user, err := store.GetUserByUsername(r.Context(), s.DB, username)
	if err != nil {
		slog.Error("failed to look up user", "error", err)
		fail(http.StatusInternalServerError, "Sign in failed. Please try again.")
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		slog.Warn("login failed", "username", username, "remote", r.RemoteAddr)
		fail(http.StatusUnauthorized, "Wrong username or password.")
		return
	}

	token, err := s.Tokens.Generate(user.ID, user.Username, user.Role)
	if err != nil {
		slog.Error("failed to generate token", "error", err)
		fail(http.StatusInternalServerError, "Sign in failed. Please try again.")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(auth.TokenExpiry.Seconds()),
	})

	slog.Info("user logged in", "user", user.Username, "role", user.Role)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Logout handles POST /admin/logout. The session token is revoked so a
// copied cookie stops working too.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if claims := GetWebClaims(r.Context()); claims != nil {
		if err := store.RevokeToken(r.Context(), s.DB, claims.ID, claims.ExpiresAt.Time); err != nil {
			slog.Error("failed to revoke token", "error", err)
		}
		slog.Info("user logged out", "user", claims.Username)
	}

	clearCookie(w, tokenCookie)
	clearCookie(w, expandedCookie)
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}
