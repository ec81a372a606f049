package models

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalog item. Price is stored as raw operator input
// and only interpreted at display and checkout time; rows whose price does
// not parse render as price-on-request.
type Product struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CategoryID  uuid.UUID `gorm:"column:category_id;type:uuid;not null"`
	Name        string    `gorm:"column:name;not null"`
	Description *string   `gorm:"column:description"`
	Price       string    `gorm:"column:price;type:text;not null;default:''"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
