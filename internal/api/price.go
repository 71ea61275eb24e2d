package api

import (
	"net/http"

	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/price"
)

// Prices exposes the gold price poller to handlers.
type Prices interface {
	State() price.State
	SetFallback(float64)
}

// PriceHandler serves the current gold price.
type PriceHandler struct {
	Prices Prices
}

// Get handles GET /api/price.
func (h *PriceHandler) Get(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, h.Prices.State())
}
