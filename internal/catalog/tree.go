// Package catalog derives the admin category tree from flat category and
// item lists, and holds the rules the admin applies before writing.
package catalog

import "github.com/Violet4Cheetha/KhushiiWithDiamond/internal/model"

// Node is one rendered category with its derived counts.
type Node struct {
	Category         model.Category `json:"category"`
	ItemCount        int            `json:"item_count"`
	ImageCount       int            `json:"image_count"`
	CoverImage       string         `json:"cover_image,omitempty"`
	SubcategoryCount int            `json:"subcategory_count"`
	Expanded         bool           `json:"expanded"`
	Children         []Node         `json:"children,omitempty"`
}

// BuildTree returns the top-level categories in input order, each followed by
// its direct children in input order. Only two tiers are rendered. Everything
// is recomputed from the inputs on each call.
func BuildTree(categories []model.Category, items []model.JewelryItem, expanded ExpandSet) []Node {
	var roots []Node
	for _, c := range categories {
		if !c.IsTopLevel() {
			continue
		}
		root := newNode(c, categories, items, expanded)
		for _, sub := range Subcategories(categories, c.ID) {
			root.Children = append(root.Children, newNode(sub, categories, items, expanded))
		}
		roots = append(roots, root)
	}
	return roots
}

func newNode(c model.Category, categories []model.Category, items []model.JewelryItem, expanded ExpandSet) Node {
	return Node{
		Category:         c,
		ItemCount:        ItemCount(items, c.Name),
		ImageCount:       c.ImageCount(),
		CoverImage:       c.CoverImage(),
		SubcategoryCount: len(Subcategories(categories, c.ID)),
		Expanded:         expanded.IsExpanded(c.ID),
	}
}

// ItemCount counts items whose category is exactly name (case-sensitive).
func ItemCount(items []model.JewelryItem, name string) int {
	n := 0
	for _, item := range items {
		if item.Category == name {
			n++
		}
	}
	return n
}

// Subcategories returns the categories whose parent is id, in input order.
func Subcategories(categories []model.Category, id string) []model.Category {
	var subs []model.Category
	for _, c := range categories {
		if c.ParentID != nil && *c.ParentID == id {
			subs = append(subs, c)
		}
	}
	return subs
}

// TopLevel returns the categories without a parent, in input order.
func TopLevel(categories []model.Category) []model.Category {
	var roots []model.Category
	for _, c := range categories {
		if c.IsTopLevel() {
			roots = append(roots, c)
		}
	}
	return roots
}

// Find returns the category with the given id, or nil.
func Find(categories []model.Category, id string) *model.Category {
	for i := range categories {
		if categories[i].ID == id {
			return &categories[i]
		}
	}
	return nil
}
