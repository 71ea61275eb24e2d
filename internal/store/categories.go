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

const categoryColumns = `id, name, description, image_url, parent_id, created_at, updated_at`

// ListCategories returns every category ordered by name.
func ListCategories(ctx context.Context, db *sqlx.DB) ([]model.Category, error) {
	var categories []model.Category
	err := db.SelectContext(ctx, &categories,
		`SELECT `+categoryColumns+` FROM categories ORDER BY name, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

// GetCategory returns a category by ID, or nil if it does not exist.
func GetCategory(ctx context.Context, db *sqlx.DB, id string) (*model.Category, error) {
	var c model.Category
	err := db.GetContext(ctx, &c,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	return &c, nil
}

// CreateCategory inserts a category with a fresh UUID. It returns
// ErrNotFound if the row is gone before it can be read back.
func CreateCategory(ctx context.Context, db *sqlx.DB, in model.CategoryInput) (*model.Category, error) {
	id := uuid.NewString()
	_, err := db.NamedExecContext(ctx,
		`INSERT INTO categories (id, name, description, image_url, parent_id)
		 VALUES (:id, :name, :description, :image_url, :parent_id)`,
		struct {
			ID string `db:"id"`
			model.CategoryInput
		}{ID: id, CategoryInput: in},
	)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}
	c, err := GetCategory(ctx, db, id)
	if err == nil && c == nil {
		err = fmt.Errorf("reading created category: %w", ErrNotFound)
	}
	return c, err
}

// UpdateCategory replaces a category's writable fields.
func UpdateCategory(ctx context.Context, db *sqlx.DB, id string, in model.CategoryInput) error {
	result, err := db.NamedExecContext(ctx,
		`UPDATE categories
		 SET name = :name, description = :description, image_url = :image_url,
		     parent_id = :parent_id, updated_at = CURRENT_TIMESTAMP
		 WHERE id = :id`,
		struct {
			ID string `db:"id"`
			model.CategoryInput
		}{ID: id, CategoryInput: in},
	)
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}
	return expectAffected(result)
}

// DeleteCategory removes a category. Dependent items and subcategories are
// not checked here; callers apply the catalog delete guard first.
func DeleteCategory(ctx context.Context, db *sqlx.DB, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	return expectAffected(result)
}
