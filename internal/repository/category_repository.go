package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/citydesk/announce-api/internal/models"
)

// CategoryRepository provides persistence for categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates the repository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns all categories ordered by id.
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := r.db.SelectContext(ctx, &categories, "SELECT id, name, display_name FROM categories ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Create inserts a new category and fills in its assigned id.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	const query = `INSERT INTO categories (name, display_name) VALUES ($1, $2) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, category.Name, category.DisplayName).Scan(&category.ID); err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// UpsertByName inserts a category or, when the name is already taken, updates
// its display name. Name is the stable key; ids never change on conflict.
func (r *CategoryRepository) UpsertByName(ctx context.Context, name, displayName string) (*models.Category, error) {
	const query = `INSERT INTO categories (name, display_name) VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET display_name = EXCLUDED.display_name
RETURNING id, name, display_name`
	var category models.Category
	if err := r.db.GetContext(ctx, &category, query, name, displayName); err != nil {
		return nil, fmt.Errorf("upsert category %s: %w", name, err)
	}
	return &category, nil
}
