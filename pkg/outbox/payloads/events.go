package payloads

import (
	"time"

	"github.com/google/uuid"
)

// CategoryUpsertedEvent is emitted when an operator creates or updates a category.
type CategoryUpsertedEvent struct {
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
	SortOrder  *int      `json:"sort_order,omitempty"`
}

// CategoryDeletedEvent is emitted after a category and its products are removed.
type CategoryDeletedEvent struct {
	CategoryID   uuid.UUID `json:"category_id"`
	Name         string    `json:"name"`
	ProductCount int       `json:"product_count"`
}

// ProductUpsertedEvent is emitted when an operator creates or updates a product.
type ProductUpsertedEvent struct {
	ProductID  uuid.UUID `json:"product_id"`
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
	Price      string    `json:"price"`
}

// ProductDeletedEvent is emitted after a product is removed.
type ProductDeletedEvent struct {
	ProductID  uuid.UUID `json:"product_id"`
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
}

// SettingsUpdatedEvent reports which store configuration keys changed.
type SettingsUpdatedEvent struct {
	Keys []string `json:"keys"`
}

// CheckoutComposedEvent records a completed customer handoff to WhatsApp.
type CheckoutComposedEvent struct {
	CheckoutID   uuid.UUID `json:"checkout_id"`
	CustomerName string    `json:"customer_name"`
	ItemCount    int       `json:"item_count"`
	TotalCents   int64     `json:"total_cents"`
	ComposedAt   time.Time `json:"composed_at"`
}
