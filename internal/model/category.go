package model

import (
	"strings"
	"time"
)

// Category is a node in the catalog hierarchy. A nil ParentID marks a
// top-level category.
type Category struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	ImageURL    *string   `db:"image_url" json:"image_url,omitempty"`
	ParentID    *string   `db:"parent_id" json:"parent_id,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CategoryInput holds the writable fields of a category.
type CategoryInput struct {
	Name        string  `db:"name"`
	Description *string `db:"description"`
	ImageURL    *string `db:"image_url"`
	ParentID    *string `db:"parent_id"`
}

// IsTopLevel reports whether the category has no parent.
func (c *Category) IsTopLevel() bool {
	return c.ParentID == nil
}

// Images returns the category's gallery in order. The first entry is the cover.
func (c *Category) Images() []string {
	if c.ImageURL == nil {
		return nil
	}
	return ParseImageURLs(*c.ImageURL)
}

// ImageCount returns the number of gallery images.
func (c *Category) ImageCount() int {
	return len(c.Images())
}

// CoverImage returns the first gallery image, or "" if there is none.
func (c *Category) CoverImage() string {
	images := c.Images()
	if len(images) == 0 {
		return ""
	}
	return images[0]
}

// ParseImageURLs splits a comma-separated image list, trimming whitespace
// and dropping empty segments.
func ParseImageURLs(s string) []string {
	var urls []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			urls = append(urls, part)
		}
	}
	return urls
}
