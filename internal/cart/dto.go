package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mrbebidas/catalog-backend/internal/pricing"
)

// LineDTO is the wire representation of one cart line.
type LineDTO struct {
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	Price      string    `json:"price"`
	PriceLabel string    `json:"price_label"`
	Quantity   int       `json:"quantity"`
}

// CartDTO is the wire representation of a session cart.
type CartDTO struct {
	Token      string    `json:"token"`
	Lines      []LineDTO `json:"lines"`
	ItemCount  int       `json:"item_count"`
	Total      string    `json:"total"`
	TotalLabel string    `json:"total_label"`
}

// ToDTO renders the cart with display labels attached.
func ToDTO(c *Cart) *CartDTO {
	dto := &CartDTO{
		Token:     c.Token,
		Lines:     make([]LineDTO, 0, len(c.Lines)),
		ItemCount: c.ItemCount(),
	}
	for _, line := range c.Lines {
		dto.Lines = append(dto.Lines, LineDTO{
			ProductID:  line.ProductID,
			Name:       line.Name,
			Price:      line.Price,
			PriceLabel: pricing.Format(line.Price),
			Quantity:   line.Quantity,
		})
	}
	total := c.Total()
	dto.Total = total.StringFixed(2)
	dto.TotalLabel = pricing.FormatAmount(total)
	return dto
}

// EmptyDTO renders a cart with no lines for the given token.
func EmptyDTO(token string) *CartDTO {
	return &CartDTO{
		Token:      token,
		Lines:      []LineDTO{},
		Total:      decimal.Zero.StringFixed(2),
		TotalLabel: pricing.FormatAmount(decimal.Zero),
	}
}
