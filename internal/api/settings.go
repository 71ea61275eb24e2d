package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/model"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/store"
)

// SettingsHandler handles the admin_settings endpoints.
type SettingsHandler struct {
	DB     *sqlx.DB
	Prices Prices
}

type settingRequest struct {
	Value string `json:"value" validate:"max=2000"`
}

// List handles GET /api/settings.
func (h *SettingsHandler) List(w http.ResponseWriter, r *http.Request) {
	settings, err := store.ListSettings(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list settings", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list settings")
		return
	}
	if settings == nil {
		settings = []model.Setting{}
	}
	jsonResponse(w, http.StatusOK, settings)
}

// Put handles PUT /api/settings/{key}.
func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var req settingRequest
	if !decodeValid(w, r, &req) {
		return
	}

	if err := model.ValidateSetting(key, req.Value); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, model.ErrReservedSetting) {
			status = http.StatusForbidden
		}
		jsonError(w, status, err.Error())
		return
	}

	if err := store.SetSetting(r.Context(), h.DB, key, req.Value); err != nil {
		slog.Error("failed to save setting", "key", key, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to save setting")
		return
	}

	if key == model.SettingFallbackPrice && h.Prices != nil {
		fallback, _ := model.ParsePrice(req.Value)
		h.Prices.SetFallback(fallback)
	}

	slog.Info("setting updated", "user", username(r), "key", key)
	jsonResponse(w, http.StatusOK, map[string]string{"key": key, "value": req.Value})
}
