package models

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a storefront section the catalog groups products under.
type Category struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	SortOrder *int      `gorm:"column:sort_order"`
	Products  []Product `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
