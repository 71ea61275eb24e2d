package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/catalog"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/model"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/store"
)

const saveFailed = "Could not save the category. Please try again."

type categoryFormData struct {
	PageData
	Form          catalog.Form
	ParentOptions []model.Category
}

type categoryDeleteData struct {
	PageData
	Category *model.Category
	Blocked  bool
}

// CategoriesPage handles GET /admin. It renders the category tree with the
// session's expand state.
func (s *Server) CategoriesPage(w http.ResponseWriter, r *http.Request) {
	categories, items, err := s.loadCatalog(r)
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		s.renderError(w, r, http.StatusInternalServerError, "Could not load categories.")
		return
	}

	s.Templates.Render(w, "categories.html", &struct {
		PageData
		Tree  []catalog.Node
		Total int
	}{
		PageData: s.page(r, "Categories"),
		Tree:     catalog.BuildTree(categories, items, expandedSet(r)),
		Total:    len(categories),
	})
}

// ToggleCategory handles POST /admin/categories/{id}/toggle.
func (s *Server) ToggleCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		s.renderError(w, r, http.StatusNotFound, "Category not found.")
		return
	}

	set := expandedSet(r)
	set.Toggle(id)
	saveExpandedSet(w, set)
	http.Redirect(w, r, "/admin#cat-"+id, http.StatusSeeOther)
}

// NewCategoryPage handles GET /admin/categories/new. A "parent" query
// parameter preselects the parent.
func (s *Server) NewCategoryPage(w http.ResponseWriter, r *http.Request) {
	s.renderCategoryForm(w, r, http.StatusOK, catalog.Form{ParentID: r.URL.Query().Get("parent")}, "")
}

// EditCategoryPage handles GET /admin/categories/{id}/edit.
func (s *Server) EditCategoryPage(w http.ResponseWriter, r *http.Request) {
	category, err := store.GetCategory(r.Context(), s.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to get category", "error", err)
		s.renderError(w, r, http.StatusInternalServerError, "Could not load the category.")
		return
	}
	if category == nil {
		s.renderError(w, r, http.StatusNotFound, "Category not found.")
		return
	}
	s.renderCategoryForm(w, r, http.StatusOK, catalog.FormFor(category), "")
}

// CategorySubmit handles POST /admin/categories (create) and
// POST /admin/categories/{id} (edit). On failure the form is shown again
// with the input preserved.
func (s *Server) CategorySubmit(w http.ResponseWriter, r *http.Request) {
	form := catalog.Form{
		EditingID:   r.PathValue("id"),
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		ImageURL:    r.FormValue("image_url"),
		ParentID:    r.FormValue("parent_id"),
	}

	categories, err := store.ListCategories(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list categories", "error", err)
		s.renderCategoryForm(w, r, http.StatusInternalServerError, form, saveFailed)
		return
	}

	if form.Editing() && catalog.Find(categories, form.EditingID) == nil {
		s.renderError(w, r, http.StatusNotFound, "Category not found.")
		return
	}

	if err := form.Validate(categories); err != nil {
		s.renderCategoryForm(w, r, http.StatusBadRequest, form, validationMessage(err))
		return
	}

	claims := GetWebClaims(r.Context())
	in := form.Input()
	if form.Editing() {
		err = store.UpdateCategory(r.Context(), s.DB, form.EditingID, in)
	} else {
		_, err = store.CreateCategory(r.Context(), s.DB, in)
	}
	if err != nil {
		slog.Error("failed to save category", "editing", form.Editing(), "error", err)
		s.renderCategoryForm(w, r, http.StatusInternalServerError, form, saveFailed)
		return
	}

	slog.Info("category saved", "user", claims.Username, "category", in.Name, "editing", form.Editing())
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// DeleteCategoryPage handles GET /admin/categories/{id}/delete. It shows
// either why the category cannot be deleted or a confirmation form.
func (s *Server) DeleteCategoryPage(w http.ResponseWriter, r *http.Request) {
	s.handleDelete(w, r, false)
}

// DeleteCategorySubmit handles POST /admin/categories/{id}/delete. The
// guard is checked again against fresh data before deleting.
func (s *Server) DeleteCategorySubmit(w http.ResponseWriter, r *http.Request) {
	s.handleDelete(w, r, true)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request, confirmed bool) {
	categories, items, err := s.loadCatalog(r)
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		s.renderError(w, r, http.StatusInternalServerError, "Could not load the category.")
		return
	}

	target := catalog.Find(categories, r.PathValue("id"))
	if target == nil {
		s.renderError(w, r, http.StatusNotFound, "Category not found.")
		return
	}

	data := categoryDeleteData{PageData: s.page(r, "Delete "+target.Name), Category: target}

	if err := catalog.CheckDelete(*target, categories, items); err != nil {
		data.Blocked = true
		data.Error = err.Error()
		s.Templates.RenderStatus(w, http.StatusConflict, "category_delete.html", &data)
		return
	}

	if !confirmed {
		s.Templates.Render(w, "category_delete.html", &data)
		return
	}

	if err := store.DeleteCategory(r.Context(), s.DB, target.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		slog.Error("failed to delete category", "error", err)
		data.Error = "Could not delete the category. Please try again."
		s.Templates.RenderStatus(w, http.StatusInternalServerError, "category_delete.html", &data)
		return
	}

	slog.Info("category deleted", "user", GetWebClaims(r.Context()).Username, "category", target.Name)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Server) renderCategoryForm(w http.ResponseWriter, r *http.Request, status int, form catalog.Form, errMsg string) {
	categories, err := store.ListCategories(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list categories for form", "error", err)
	}

	title := "New category"
	if form.Editing() {
		title = "Edit category"
	}

	data := categoryFormData{
		PageData:      s.page(r, title),
		Form:          form,
		ParentOptions: catalog.ParentOptions(categories, form.EditingID),
	}
	data.Error = errMsg
	s.Templates.RenderStatus(w, status, "category_form.html", &data)
}

// validationMessage maps form errors to user-facing text.
func validationMessage(err error) string {
	switch {
	case errors.Is(err, catalog.ErrNameRequired):
		return "Name is required."
	case errors.Is(err, catalog.ErrInvalidParent):
		return "Choose a top-level category as the parent."
	case errors.Is(err, catalog.ErrHasChildren):
		return "This category has subcategories, so it must stay top-level."
	default:
		return saveFailed
	}
}
