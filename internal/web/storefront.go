package web

import (
	"log/slog"
	"net/http"

	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/catalog"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/model"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/store"
)

// Storefront handles GET /. It lists top-level categories with their
// subcategories, item counts and the current gold price.
func (s *Server) Storefront(w http.ResponseWriter, r *http.Request) {
	categories, items, err := s.loadCatalog(r)
	if err != nil {
		slog.Error("failed to load catalog for storefront", "error", err)
		s.renderError(w, r, http.StatusInternalServerError, "The catalog is unavailable right now.")
		return
	}

	s.Templates.Render(w, "storefront.html", &struct {
		PageData
		Tree []catalog.Node
	}{
		PageData: s.page(r, "Collections"),
		Tree:     catalog.BuildTree(categories, items, nil),
	})
}

// ShopCategory handles GET /shop/{id}.
func (s *Server) ShopCategory(w http.ResponseWriter, r *http.Request) {
	categories, err := store.ListCategories(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list categories", "error", err)
		s.renderError(w, r, http.StatusInternalServerError, "The catalog is unavailable right now.")
		return
	}

	category := catalog.Find(categories, r.PathValue("id"))
	if category == nil {
		s.renderError(w, r, http.StatusNotFound, "That collection does not exist.")
		return
	}

	items, err := store.ListJewelryItems(r.Context(), s.DB, category.Name)
	if err != nil {
		slog.Error("failed to list items", "category", category.Name, "error", err)
		s.renderError(w, r, http.StatusInternalServerError, "The catalog is unavailable right now.")
		return
	}

	var parent *model.Category
	if category.ParentID != nil {
		parent = catalog.Find(categories, *category.ParentID)
	}

	s.Templates.Render(w, "shop_category.html", &struct {
		PageData
		Category      *model.Category
		Parent        *model.Category
		Subcategories []model.Category
		Items         []model.JewelryItem
	}{
		PageData:      s.page(r, category.Name),
		Category:      category,
		Parent:        parent,
		Subcategories: catalog.Subcategories(categories, category.ID),
		Items:         items,
	})
}

// loadCatalog reads the full category and item lists. Views are always
// derived from a fresh read.
func (s *Server) loadCatalog(r *http.Request) ([]model.Category, []model.JewelryItem, error) {
	categories, err := store.ListCategories(r.Context(), s.DB)
	if err != nil {
		return nil, nil, err
	}
	items, err := store.ListJewelryItems(r.Context(), s.DB, "")
	if err != nil {
		return nil, nil, err
	}
	return categories, items, nil
}
