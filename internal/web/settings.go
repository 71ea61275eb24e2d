package web

import (
	"log/slog"
	"net/http"

	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/auth"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/model"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/store"
)

// SettingsPage handles GET /admin/settings.
func (s *Server) SettingsPage(w http.ResponseWriter, r *http.Request) {
	s.renderSettings(w, r, http.StatusOK, "", "")
}

// SettingsSubmit handles POST /admin/settings (upsert one admin setting).
func (s *Server) SettingsSubmit(w http.ResponseWriter, r *http.Request) {
	key := r.FormValue("key")
	value := r.FormValue("value")

	if err := model.ValidateSetting(key, value); err != nil {
		s.renderSettings(w, r, http.StatusBadRequest, err.Error(), "")
		return
	}

	if err := store.SetSetting(r.Context(), s.DB, key, value); err != nil {
		slog.Error("failed to save setting", "key", key, "error", err)
		s.renderSettings(w, r, http.StatusInternalServerError, "Could not save the setting.", "")
		return
	}

	if key == model.SettingFallbackPrice {
		fallback, _ := model.ParsePrice(value)
		s.Prices.SetFallback(fallback)
	}

	slog.Info("setting updated", "user", GetWebClaims(r.Context()).Username, "key", key)
	s.renderSettings(w, r, http.StatusOK, "", "Setting saved.")
}

// PasswordSubmit handles POST /admin/settings/password (change own password).
func (s *Server) PasswordSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	currentPassword := r.FormValue("current_password")
	newPassword := r.FormValue("new_password")

	if currentPassword == "" || newPassword == "" {
		s.renderSettings(w, r, http.StatusBadRequest, "Enter your current and new password.", "")
		return
	}
	if err := model.ValidatePassword(newPassword); err != nil {
		s.renderSettings(w, r, http.StatusBadRequest, err.Error(), "")
		return
	}

	user, err := store.GetUser(r.Context(), s.DB, claims.UserID)
	if err != nil || user == nil {
		s.renderSettings(w, r, http.StatusInternalServerError, "Could not load your account.", "")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, currentPassword) {
		s.renderSettings(w, r, http.StatusUnauthorized, "Current password is incorrect.", "")
		return
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		s.renderSettings(w, r, http.StatusInternalServerError, "Could not change the password.", "")
		return
	}

	if err := store.UpdateUserPassword(r.Context(), s.DB, claims.UserID, hash); err != nil {
		slog.Error("failed to update password", "error", err)
		s.renderSettings(w, r, http.StatusInternalServerError, "Could not change the password.", "")
		return
	}

	slog.Info("user changed own password", "user", claims.Username)
	s.renderSettings(w, r, http.StatusOK, "", "Password changed.")
}

func (s *Server) renderSettings(w http.ResponseWriter, r *http.Request, status int, errMsg, success string) {
	settings, err := store.ListSettings(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list settings", "error", err)
	}

	data := struct {
		PageData
		Settings []model.Setting
		Known    []string
	}{
		PageData: s.page(r, "Settings"),
		Settings: settings,
		Known:    []string{model.SettingStoreName, model.SettingFallbackPrice},
	}
	data.Error = errMsg
	data.Success = success
	s.Templates.RenderStatus(w, status, "settings.html", &data)
}
