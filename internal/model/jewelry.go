package model

import "time"

// JewelryItem is a sellable piece. Category holds a category name, not an id.
type JewelryItem struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Category    string    `db:"category" json:"category"`
	Price       float64   `db:"price" json:"price"`
	ImageURL    *string   `db:"image_url" json:"image_url,omitempty"`
	InStock     bool      `db:"in_stock" json:"in_stock"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// JewelryItemInput holds the writable fields of a jewelry item.
type JewelryItemInput struct {
	Name        string  `db:"name"`
	Description *string `db:"description"`
	Category    string  `db:"category"`
	Price       float64 `db:"price"`
	ImageURL    *string `db:"image_url"`
	InStock     bool    `db:"in_stock"`
}
