package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/model"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/store"
)

// ItemsHandler handles jewelry item CRUD endpoints.
type ItemsHandler struct {
	DB *sqlx.DB
}

type itemRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Category    string  `json:"category" validate:"required,max=200"`
	Price       float64 `json:"price" validate:"gte=0"`
	ImageURL    *string `json:"image_url" validate:"omitempty,max=2000"`
	InStock     *bool   `json:"in_stock"`
}

func (req itemRequest) input() model.JewelryItemInput {
	in := model.JewelryItemInput{
		Name:        strings.TrimSpace(req.Name),
		Description: trimmed(req.Description),
		Category:    req.Category,
		Price:       req.Price,
		ImageURL:    trimmed(req.ImageURL),
		InStock:     true,
	}
	if req.InStock != nil {
		in.InStock = *req.InStock
	}
	return in
}

// List handles GET /api/items. The optional "category" query parameter
// filters by exact category name.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListJewelryItems(r.Context(), h.DB, r.URL.Query().Get("category"))
	if err != nil {
		slog.Error("failed to list items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.JewelryItem{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !decodeValid(w, r, &req) {
		return
	}

	item, err := store.CreateJewelryItem(r.Context(), h.DB, req.input())
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		slog.Error("failed to create item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	slog.Info("item created", "user", username(r), "item", item.Name, "category", item.Category)
	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetJewelryItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to get item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req itemRequest
	if !decodeValid(w, r, &req) {
		return
	}

	if err := store.UpdateJewelryItem(r.Context(), h.DB, id, req.input()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "item not found")
			return
		}
		slog.Error("failed to update item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	item, err := store.GetJewelryItem(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := store.DeleteJewelryItem(r.Context(), h.DB, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "item not found")
			return
		}
		slog.Error("failed to delete item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	slog.Info("item deleted", "user", username(r), "id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
