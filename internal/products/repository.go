package products

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrbebidas/catalog-backend/pkg/db"
	"github.com/mrbebidas/catalog-backend/pkg/db/models"
	pkgerrors "github.com/mrbebidas/catalog-backend/pkg/errors"
)

// Repository persists products.
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

// List loads products, optionally scoped to one category, ordered by name.
func (r *Repository) List(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Order("name ASC")
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		if db.IsSchemaMissing(err) {
			return nil, db.ErrSchemaMissing
		}
		return nil, err
	}
	return rows, nil
}

// FindByID loads a single product.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var row models.Product
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
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
	return &row, nil
}

// Create inserts the product, assigning an ID when absent.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if db.IsSchemaMissing(err) {
			return nil, db.ErrSchemaMissing
		}
		return nil, err
	}
	return product, nil
}

// Update saves the mutated product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes the product.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}
