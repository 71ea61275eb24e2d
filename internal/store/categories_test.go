package store

import (
	"context"
	"errors"
	"testing"

	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/db"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/model"
)

func strPtr(s string) *string { return &s }

func TestCreateAndGetCategory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	c, err := CreateCategory(ctx, database, model.CategoryInput{
		Name:     "Rings",
		ImageURL: strPtr("a.jpg, b.jpg"),
	})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if c.ID == "" {
		t.Fatal("expected generated id")
	}
	if c.Name != "Rings" {
		t.Errorf("expected name 'Rings', got %q", c.Name)
	}
	if c.ParentID != nil {
		t.Errorf("expected nil parent, got %q", *c.ParentID)
	}
	if c.Description != nil {
		t.Errorf("expected nil description, got %q", *c.Description)
	}

	got, err := GetCategory(ctx, database, c.ID)
	if err != nil {
		t.Fatalf("GetCategory: %v", err)
	}
	if got == nil || got.ImageCount() != 2 {
		t.Errorf("expected category with 2 images, got %+v", got)
	}

	missing, err := GetCategory(ctx, database, "nope")
	if err != nil {
		t.Fatalf("GetCategory missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing category")
	}
}

func TestListCategoriesSortedByName(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"Rings", "Bangles", "Necklaces"} {
		if _, err := CreateCategory(ctx, database, model.CategoryInput{Name: name}); err != nil {
			t.Fatal(err)
		}
	}

	categories, err := ListCategories(ctx, database)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	want := []string{"Bangles", "Necklaces", "Rings"}
	if len(categories) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(categories))
	}
	for i, c := range categories {
		if c.Name != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], c.Name)
		}
	}
}

func TestUpdateCategoryParent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	parent, _ := CreateCategory(ctx, database, model.CategoryInput{Name: "Rings"})
	child, _ := CreateCategory(ctx, database, model.CategoryInput{Name: "Solitaire"})

	err := UpdateCategory(ctx, database, child.ID, model.CategoryInput{
		Name:        "Solitaire Rings",
		Description: strPtr("Single stone"),
		ParentID:    &parent.ID,
	})
	if err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}

	got, _ := GetCategory(ctx, database, child.ID)
	if got.Name != "Solitaire Rings" {
		t.Errorf("expected renamed category, got %q", got.Name)
	}
	if got.ParentID == nil || *got.ParentID != parent.ID {
		t.Errorf("expected parent %q, got %v", parent.ID, got.ParentID)
	}

	// Clearing the parent stores NULL.
	UpdateCategory(ctx, database, child.ID, model.CategoryInput{Name: "Solitaire Rings"})
	got, _ = GetCategory(ctx, database, child.ID)
	if got.ParentID != nil {
		t.Errorf("expected nil parent after clearing, got %q", *got.ParentID)
	}
}

func TestUpdateMissingCategory(t *testing.T) {
	database := db.NewTestDB(t)

	err := UpdateCategory(context.Background(), database, "missing", model.CategoryInput{Name: "X"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCategory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	c, _ := CreateCategory(ctx, database, model.CategoryInput{Name: "Anklets"})
	if err := DeleteCategory(ctx, database, c.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}

	got, _ := GetCategory(ctx, database, c.ID)
	if got != nil {
		t.Error("expected category to be gone")
	}

	if err := DeleteCategory(ctx, database, c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteCategoryDoesNotGuard(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	parent, _ := CreateCategory(ctx, database, model.CategoryInput{Name: "Rings"})
	CreateCategory(ctx, database, model.CategoryInput{Name: "Bands", ParentID: &parent.ID})
	CreateJewelryItem(ctx, database, model.JewelryItemInput{Name: "Band", Category: "Rings"})

	// The database accepts the delete; guarding is the catalog's job.
	if err := DeleteCategory(ctx, database, parent.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
}

func TestCreateCategoryVanishedRow(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	database.MustExec(`CREATE TRIGGER drop_category AFTER INSERT ON categories
		BEGIN DELETE FROM categories WHERE id = NEW.id; END`)

	c, err := CreateCategory(ctx, database, model.CategoryInput{Name: "Rings"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if c != nil {
		t.Errorf("expected no category, got %+v", c)
	}
}
