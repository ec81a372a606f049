package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrbebidas/catalog-backend/pkg/db"
	"github.com/mrbebidas/catalog-backend/pkg/db/models"
	pkgerrors "github.com/mrbebidas/catalog-backend/pkg/errors"
)

// Repository loads the storefront read model.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

// ListCategoriesWithProducts loads every category and its products in one
// pass. A missing schema is surfaced as db.ErrSchemaMissing.
func (r *Repository) ListCategoriesWithProducts(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Preload("Products", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("products.name ASC")
		}).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		if db.IsSchemaMissing(err) {
			return nil, db.ErrSchemaMissing
		}
		return nil, err
	}
	return categories, nil
}

// FindProductByID loads a single product for cart operations.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		case db.IsSchemaMissing(err):
			return nil, db.ErrSchemaMissing
		default:
			return nil, err
		}
	}
	return &product, nil
}
