package catalog

import (
	"errors"
	"strings"

	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/model"
)

// Form validation errors.
var (
	ErrNameRequired  = errors.New("name is required")
	ErrInvalidParent = errors.New("parent must be an existing top-level category")
	ErrHasChildren   = errors.New("a category with subcategories cannot be moved under another category")
)

// Form is the single create/edit form. EditingID is empty when creating.
type Form struct {
	EditingID   string
	Name        string
	Description string
	ImageURL    string
	ParentID    string
}

// FormFor returns a form pre-filled from c.
func FormFor(c *model.Category) Form {
	f := Form{EditingID: c.ID, Name: c.Name}
	if c.Description != nil {
		f.Description = *c.Description
	}
	if c.ImageURL != nil {
		f.ImageURL = *c.ImageURL
	}
	if c.ParentID != nil {
		f.ParentID = *c.ParentID
	}
	return f
}

// Editing reports whether the form edits an existing category.
func (f Form) Editing() bool {
	return f.EditingID != ""
}

// Validate checks the form against the current category list. A parent must
// be a current top-level category other than the one being edited, which
// keeps the hierarchy at two tiers.
func (f Form) Validate(categories []model.Category) error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrNameRequired
	}
	parentID := strings.TrimSpace(f.ParentID)
	if parentID == "" {
		return nil
	}
	if f.Editing() && len(Subcategories(categories, f.EditingID)) > 0 {
		return ErrHasChildren
	}
	for _, c := range ParentOptions(categories, f.EditingID) {
		if c.ID == parentID {
			return nil
		}
	}
	return ErrInvalidParent
}

// Input converts the form for storage. Blank optional fields, including an
// empty parent, become nil so no empty strings are persisted.
func (f Form) Input() model.CategoryInput {
	return model.CategoryInput{
		Name:        strings.TrimSpace(f.Name),
		Description: optional(f.Description),
		ImageURL:    optional(f.ImageURL),
		ParentID:    optional(f.ParentID),
	}
}

// ParentOptions lists the categories selectable as parent: every current
// top-level category except editingID.
func ParentOptions(categories []model.Category, editingID string) []model.Category {
	var opts []model.Category
	for _, c := range TopLevel(categories) {
		if c.ID != editingID {
			opts = append(opts, c)
		}
	}
	return opts
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
