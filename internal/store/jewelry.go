package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/model"
)

const jewelryColumns = `id, name, description, category, price, image_url, in_stock, created_at, updated_at`

type jewelryRow struct {
	ID string `db:"id"`
	model.JewelryItemInput
}

// ListJewelryItems returns all items ordered by name, optionally limited to
// one category name (exact match).
func ListJewelryItems(ctx context.Context, db *sqlx.DB, category string) ([]model.JewelryItem, error) {
	var items []model.JewelryItem
	var err error
	if category != "" {
		err = db.SelectContext(ctx, &items,
			`SELECT `+jewelryColumns+` FROM jewelry_items WHERE category = ? ORDER BY name, id`, category,
		)
	} else {
		err = db.SelectContext(ctx, &items,
			`SELECT `+jewelryColumns+` FROM jewelry_items ORDER BY name, id`,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("listing jewelry items: %w", err)
	}
	return items, nil
}

// GetJewelryItem returns an item by ID, or nil if it does not exist.
func GetJewelryItem(ctx context.Context, db *sqlx.DB, id string) (*model.JewelryItem, error) {
	var item model.JewelryItem
	err := db.GetContext(ctx, &item,
		`SELECT `+jewelryColumns+` FROM jewelry_items WHERE id = ?`, id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting jewelry item: %w", err)
	}
	return &item, nil
}

// CreateJewelryItem inserts an item with a fresh UUID. It returns
// ErrNotFound if the row is gone before it can be read back.
func CreateJewelryItem(ctx context.Context, db *sqlx.DB, in model.JewelryItemInput) (*model.JewelryItem, error) {
	id := uuid.NewString()
	_, err := db.NamedExecContext(ctx,
		`INSERT INTO jewelry_items (id, name, description, category, price, image_url, in_stock)
		 VALUES (:id, :name, :description, :category, :price, :image_url, :in_stock)`,
		jewelryRow{ID: id, JewelryItemInput: in},
	)
	if err != nil {
		return nil, fmt.Errorf("creating jewelry item: %w", err)
	}
	item, err := GetJewelryItem(ctx, db, id)
	if err == nil && item == nil {
		err = fmt.Errorf("reading created jewelry item: %w", ErrNotFound)
	}
	return item, err
}

// UpdateJewelryItem replaces an item's writable fields.
func UpdateJewelryItem(ctx context.Context, db *sqlx.DB, id string, in model.JewelryItemInput) error {
	result, err := db.NamedExecContext(ctx,
		`UPDATE jewelry_items
		 SET name = :name, description = :description, category = :category, price = :price,
		     image_url = :image_url, in_stock = :in_stock, updated_at = CURRENT_TIMESTAMP
		 WHERE id = :id`,
		jewelryRow{ID: id, JewelryItemInput: in},
	)
	if err != nil {
		return fmt.Errorf("updating jewelry item: %w", err)
	}
	return expectAffected(result)
}

// DeleteJewelryItem removes an item.
func DeleteJewelryItem(ctx context.Context, db *sqlx.DB, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM jewelry_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting jewelry item: %w", err)
	}
	return expectAffected(result)
}

// CountItemsInCategory returns how many items reference the category name.
func CountItemsInCategory(ctx context.Context, db *sqlx.DB, name string) (int, error) {
	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM jewelry_items WHERE category = ?`, name); err != nil {
		return 0, fmt.Errorf("counting jewelry items: %w", err)
	}
	return n, nil
}
