package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/samudata/samudata-api/internal/models"
)

// LookupRepository reads the seeded category and region tables.
type LookupRepository struct {
	db *sqlx.DB
}

// NewLookupRepository constructs the repository.
func NewLookupRepository(db *sqlx.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

// ListCategories returns every category ordered by name.
func (r *LookupRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	const query = `SELECT id, name, display_name, created_at FROM categories ORDER BY name ASC`
	categories := make([]models.Category, 0)
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// ListRegions returns every region ordered by name.
func (r *LookupRepository) ListRegions(ctx context.Context) ([]models.Region, error) {
	const query = `SELECT id, name, created_at FROM regions ORDER BY name ASC`
	regions := make([]models.Region, 0)
	if err := r.db.SelectContext(ctx, &regions, query); err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	return regions, nil
}
