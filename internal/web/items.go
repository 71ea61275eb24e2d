package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/model"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/store"
)

// itemForm keeps the raw submitted values so a failed submit can be shown
// again unchanged.
type itemForm struct {
	Name        string
	Description string
	Category    string
	Price       string
	ImageURL    string
	InStock     bool
}

func (f itemForm) input() (model.JewelryItemInput, string) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return model.JewelryItemInput{}, "Name is required."
	}
	if f.Category == "" {
		return model.JewelryItemInput{}, "Choose a category."
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(f.Price), 64)
	if err != nil || price < 0 {
		return model.JewelryItemInput{}, "Price must be a number of zero or more."
	}
	return model.JewelryItemInput{
		Name:        name,
		Description: optional(f.Description),
		Category:    f.Category,
		Price:       price,
		ImageURL:    optional(f.ImageURL),
		InStock:     f.InStock,
	}, ""
}

// ItemsPage handles GET /admin/items. The optional "category" query
// parameter filters the list and preselects the form.
func (s *Server) ItemsPage(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	s.renderItems(w, r, http.StatusOK, itemForm{Category: category, InStock: true}, category, "", "")
}

// ItemCreateSubmit handles POST /admin/items.
func (s *Server) ItemCreateSubmit(w http.ResponseWriter, r *http.Request) {
	form := itemForm{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Price:       r.FormValue("price"),
		ImageURL:    r.FormValue("image_url"),
		InStock:     r.FormValue("in_stock") != "",
	}

	in, msg := form.input()
	if msg != "" {
		s.renderItems(w, r, http.StatusBadRequest, form, "", msg, "")
		return
	}

	item, err := store.CreateJewelryItem(r.Context(), s.DB, in)
	if err != nil {
		slog.Error("failed to create item", "error", err)
		s.renderItems(w, r, http.StatusInternalServerError, form, "", "Could not save the item. Please try again.", "")
		return
	}

	slog.Info("item created", "user", GetWebClaims(r.Context()).Username, "item", item.Name, "category", item.Category)
	s.renderItems(w, r, http.StatusOK, itemForm{Category: form.Category, InStock: true}, "", "", "Added "+item.Name+".")
}

// ItemDeleteSubmit handles POST /admin/items/{id}/delete.
func (s *Server) ItemDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := store.DeleteJewelryItem(r.Context(), s.DB, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.renderError(w, r, http.StatusNotFound, "Item not found.")
			return
		}
		slog.Error("failed to delete item", "error", err)
		s.renderError(w, r, http.StatusInternalServerError, "Could not delete the item.")
		return
	}

	slog.Info("item deleted", "user", GetWebClaims(r.Context()).Username, "id", id)
	http.Redirect(w, r, "/admin/items", http.StatusSeeOther)
}

func (s *Server) renderItems(w http.ResponseWriter, r *http.Request, status int, form itemForm, filter, errMsg, success string) {
	categories, err := store.ListCategories(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list categories", "error", err)
	}
	items, err := store.ListJewelryItems(r.Context(), s.DB, filter)
	if err != nil {
		slog.Error("failed to list items", "error", err)
	}

	data := struct {
		PageData
		Form       itemForm
		Filter     string
		Categories []model.Category
		Items      []model.JewelryItem
	}{
		PageData:   s.page(r, "Jewelry"),
		Form:       form,
		Filter:     filter,
		Categories: categories,
		Items:      items,
	}
	data.Error = errMsg
	data.Success = success
	s.Templates.RenderStatus(w, status, "items.html", &data)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
