package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/catalog"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/model"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/store"
)

// CategoriesHandler handles category CRUD and the derived tree.
type CategoriesHandler struct {
	DB *sqlx.DB
}

type categoryRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	ImageURL    *string `json:"image_url" validate:"omitempty,max=4000"`
	ParentID    *string `json:"parent_id" validate:"omitempty,max=64"`
}

// input normalises the request the same way the admin form does, so blank
// optional fields are stored as NULL.
func (req categoryRequest) input() model.CategoryInput {
	return catalog.Form{
		Name:        req.Name,
		Description: deref(req.Description),
		ImageURL:    deref(req.ImageURL),
		ParentID:    deref(req.ParentID),
	}.Input()
}

// List handles GET /api/categories.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := store.ListCategories(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list categories", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	jsonResponse(w, http.StatusOK, categories)
}

// Tree handles GET /api/categories/tree. The optional "expanded" query
// parameter uses the same encoding as the admin cookie.
func (h *CategoriesHandler) Tree(w http.ResponseWriter, r *http.Request) {
	categories, items, err := loadCatalog(r, h.DB)
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}

	tree := catalog.BuildTree(categories, items, catalog.DecodeExpandSet(r.URL.Query().Get("expanded")))
	if tree == nil {
		tree = []catalog.Node{}
	}
	jsonResponse(w, http.StatusOK, tree)
}

// Get handles GET /api/categories/{id}.
func (h *CategoriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	category, err := store.GetCategory(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to get category", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get category")
		return
	}
	if category == nil {
		jsonError(w, http.StatusNotFound, "category not found")
		return
	}
	jsonResponse(w, http.StatusOK, category)
}

// Create handles POST /api/categories.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeValid(w, r, &req) {
		return
	}

	in := req.input()
	if !h.checkInput(w, r, "", in) {
		return
	}

	category, err := store.CreateCategory(r.Context(), h.DB, in)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "category not found")
		return
	}
	if err != nil {
		slog.Error("failed to create category", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	slog.Info("category created", "user", username(r), "category", category.Name, "id", category.ID)
	jsonResponse(w, http.StatusCreated, category)
}

// Update handles PUT /api/categories/{id}.
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req categoryRequest
	if !decodeValid(w, r, &req) {
		return
	}

	in := req.input()
	if !h.checkInput(w, r, id, in) {
		return
	}

	if err := store.UpdateCategory(r.Context(), h.DB, id, in); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "category not found")
			return
		}
		slog.Error("failed to update category", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update category")
		return
	}

	category, err := store.GetCategory(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get category", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get category")
		return
	}
	if category == nil {
		jsonError(w, http.StatusNotFound, "category not found")
		return
	}

	slog.Info("category updated", "user", username(r), "category", category.Name, "id", id)
	jsonResponse(w, http.StatusOK, category)
}

// Delete handles DELETE /api/categories/{id}. A category that still has
// items or subcategories is refused with 409 and the reason.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	categories, items, err := loadCatalog(r, h.DB)
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}

	target := catalog.Find(categories, id)
	if target == nil {
		jsonError(w, http.StatusNotFound, "category not found")
		return
	}

	if err := catalog.CheckDelete(*target, categories, items); err != nil {
		jsonError(w, http.StatusConflict, err.Error())
		return
	}

	if err := store.DeleteCategory(r.Context(), h.DB, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "category not found")
			return
		}
		slog.Error("failed to delete category", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}

	slog.Info("category deleted", "user", username(r), "category", target.Name, "id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "category deleted"})
}

// checkInput rejects a blank name and a parent id that is malformed, does
// not exist or points at the category itself. It runs on normalised input so
// a blank parent_id means top level, as in the admin form.
func (h *CategoriesHandler) checkInput(w http.ResponseWriter, r *http.Request, id string, in model.CategoryInput) bool {
	if in.Name == "" {
		jsonError(w, http.StatusBadRequest, catalog.ErrNameRequired.Error())
		return false
	}
	parentID := in.ParentID
	if parentID == nil {
		return true
	}
	if _, err := uuid.Parse(*parentID); err != nil {
		jsonError(w, http.StatusBadRequest, "parent_id is invalid")
		return false
	}
	if *parentID == id {
		jsonError(w, http.StatusBadRequest, "a category cannot be its own parent")
		return false
	}
	parent, err := store.GetCategory(r.Context(), h.DB, *parentID)
	if err != nil {
		slog.Error("failed to get parent category", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return false
	}
	if parent == nil {
		jsonError(w, http.StatusBadRequest, "parent category not found")
		return false
	}
	return true
}

func loadCatalog(r *http.Request, db *sqlx.DB) ([]model.Category, []model.JewelryItem, error) {
	categories, err := store.ListCategories(r.Context(), db)
	if err != nil {
		return nil, nil, err
	}
	items, err := store.ListJewelryItems(r.Context(), db, "")
	if err != nil {
		return nil, nil, err
	}
	return categories, items, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func username(r *http.Request) string {
	if claims := GetClaims(r.Context()); claims != nil {
		return claims.Username
	}
	return ""
}
