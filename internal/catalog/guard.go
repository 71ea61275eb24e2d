package catalog

import (
	"fmt"

	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/model"
)

// DeleteBlockedError reports why a category cannot be deleted.
type DeleteBlockedError struct {
	Name          string
	Items         int
	Subcategories int
}

func (e *DeleteBlockedError) Error() string {
	if e.Items > 0 {
		return fmt.Sprintf("Cannot delete %q: %d %s this category", e.Name, e.Items, plural(e.Items, "item uses", "items use"))
	}
	return fmt.Sprintf("Cannot delete %q: it has %d %s", e.Name, e.Subcategories, plural(e.Subcategories, "subcategory", "subcategories"))
}

// CheckDelete returns a *DeleteBlockedError if any item is tagged with the
// category's name or any category has it as parent. Items are checked first.
// A nil result means the delete may go ahead once the user confirms.
func CheckDelete(target model.Category, categories []model.Category, items []model.JewelryItem) error {
	n := ItemCount(items, target.Name)
	if n > 0 {
		return &DeleteBlockedError{Name: target.Name, Items: n}
	}
	subs := len(Subcategories(categories, target.ID))
	if subs > 0 {
		return &DeleteBlockedError{Name: target.Name, Subcategories: subs}
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
