package settings

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrbebidas/catalog-backend/pkg/db"
	"github.com/mrbebidas/catalog-backend/pkg/db/models"
)

// Repository persists store configuration key/value rows.
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

// GetAll loads every settings row into a key/value map. A missing schema
// is surfaced as db.ErrSchemaMissing.
func (r *Repository) GetAll(ctx context.Context) (map[string]string, error) {
	var rows []models.Setting
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		if db.IsSchemaMissing(err) {
			return nil, db.ErrSchemaMissing
		}
		return nil, err
	}
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	return values, nil
}

// Get loads a single setting value. Missing keys return empty string.
func (r *Repository) Get(ctx context.Context, key string) (string, error) {
	var row models.Setting
	err := r.db.WithContext(ctx).First(&row, "key = ?", key).Error
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return "", nil
		case db.IsSchemaMissing(err):
			return "", db.ErrSchemaMissing
		default:
			return "", err
		}
	}
	return row.Value, nil
}

// Upsert writes the value for the key, inserting or updating as needed.
func (r *Repository) Upsert(ctx context.Context, key, value string) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&models.Setting{Key: key, Value: value}).Error
	if err != nil && db.IsSchemaMissing(err) {
		return db.ErrSchemaMissing
	}
	return err
}
