package categories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrbebidas/catalog-backend/pkg/db"
	"github.com/mrbebidas/catalog-backend/pkg/db/models"
	pkgerrors "github.com/mrbebidas/catalog-backend/pkg/errors"
)

// Repository persists categories.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// List loads all categories ordered by sort_order then name.
func (r *Repository) List(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Order("sort_order ASC NULLS FIRST").
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		if db.IsSchemaMissing(err) {
			return nil, db.ErrSchemaMissing
		}
		return nil, err
	}
	return rows, nil
}

// FindByID loads a single category.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var row models.Category
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		case db.IsSchemaMissing(err):
			return nil, db.ErrSchemaMissing
		default:
			return nil, err
		}
	}
	return &row, nil
}

// Create inserts the category, assigning an ID when absent.
func (r *Repository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if db.IsSchemaMissing(err) {
			return nil, db.ErrSchemaMissing
		}
		return nil, err
	}
	return category, nil
}

// Update saves the mutated category row.
func (r *Repository) Update(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes the category; products cascade at the database level.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id).Error
}

// CountProducts reports how many products reference the category.
func (r *Repository) CountProducts(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id = ?", id).
		Count(&count).Error
	return count, err
}
