package catalog

import (
	"github.com/google/uuid"

	"github.com/mrbebidas/catalog-backend/internal/pricing"
	"github.com/mrbebidas/catalog-backend/pkg/db/models"
)

// Snapshot states exposed to the storefront.
const (
	StateReady         = "ok"
	StateSetupRequired = "setup_required"
)

// ProductDTO is the storefront view of a product.
type ProductDTO struct {
	ID          uuid.UUID `json:"id"`
	CategoryID  uuid.UUID `json:"category_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Price       string    `json:"price"`
	PriceLabel  string    `json:"price_label"`
	HasPrice    bool      `json:"has_price"`
}

// CategoryDTO is the storefront view of a category with its products.
type CategoryDTO struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	SortOrder int          `json:"sort_order"`
	Products  []ProductDTO `json:"products"`
}

// SnapshotDTO is the full storefront payload. When State is
// setup_required both lists are empty and the storefront renders its
// provisioning notice instead.
type SnapshotDTO struct {
	State              string        `json:"state"`
	Categories         []CategoryDTO `json:"categories"`
	Products           []ProductDTO  `json:"products"`
	LogoURL            string        `json:"logo_url"`
	WhatsAppConfigured bool          `json:"whatsapp_configured"`
}

func productToDTO(p models.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		PriceLabel:  pricing.Format(p.Price),
		HasPrice:    pricing.IsValid(p.Price),
	}
}

func categoryToDTO(c models.Category) CategoryDTO {
	order := 0
	if c.SortOrder != nil {
		order = *c.SortOrder
	}
	dto := CategoryDTO{
		ID:        c.ID,
		Name:      c.Name,
		SortOrder: order,
		Products:  make([]ProductDTO, 0, len(c.Products)),
	}
	for _, p := range c.Products {
		dto.Products = append(dto.Products, productToDTO(p))
	}
	return dto
}
