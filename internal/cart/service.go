package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mrbebidas/catalog-backend/pkg/db/models"
	pkgerrors "github.com/mrbebidas/catalog-backend/pkg/errors"
	"github.com/mrbebidas/catalog-backend/pkg/metrics"
)

type productLoader interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes session cart operations for the storefront.
type Service interface {
	Get(ctx context.Context, token string) (*CartDTO, error)
	Add(ctx context.Context, token string, productID uuid.UUID) (*CartDTO, error)
	AdjustQuantity(ctx context.Context, token string, productID uuid.UUID, delta int) (*CartDTO, error)
	Remove(ctx context.Context, token string, productID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, token string) (*CartDTO, error)
	Snapshot(ctx context.Context, token string) (*Cart, error)
}

type service struct {
	registry *Registry
	products productLoader
	metrics  *metrics.CatalogMetrics
}

// NewService builds a cart service backed by the in-memory registry.
func NewService(registry *Registry, products productLoader, m *metrics.CatalogMetrics) (Service, error) {
	if registry == nil {
		return nil, fmt.Errorf("cart registry required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{registry: registry, products: products, metrics: m}, nil
}

func (s *service) Get(ctx context.Context, token string) (*CartDTO, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}
	var dto *CartDTO
	s.registry.With(token, func(c *Cart) {
		dto = ToDTO(c)
	})
	return dto, nil
}

// Add puts one unit of the product into the cart. A product whose price
// does not parse is silently skipped and the cart returned unchanged.
func (s *service) Add(ctx context.Context, token string, productID uuid.UUID) (*CartDTO, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	product, err := s.products.FindProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	var (
		dto   *CartDTO
		added bool
	)
	s.registry.With(token, func(c *Cart) {
		added = c.add(product.ID, product.Name, product.Price)
		dto = ToDTO(c)
	})
	if added {
		s.metrics.IncCartOp("add")
	}
	return dto, nil
}

func (s *service) AdjustQuantity(ctx context.Context, token string, productID uuid.UUID, delta int) (*CartDTO, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}
	if delta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delta must be non-zero")
	}

	var dto *CartDTO
	s.registry.With(token, func(c *Cart) {
		c.adjustQuantity(productID, delta)
		dto = ToDTO(c)
	})
	s.metrics.IncCartOp("adjust")
	return dto, nil
}

func (s *service) Remove(ctx context.Context, token string, productID uuid.UUID) (*CartDTO, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}

	var dto *CartDTO
	s.registry.With(token, func(c *Cart) {
		c.remove(productID)
		dto = ToDTO(c)
	})
	s.metrics.IncCartOp("remove")
	return dto, nil
}

func (s *service) Clear(ctx context.Context, token string) (*CartDTO, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}
	s.registry.Drop(token)
	s.metrics.IncCartOp("clear")
	return EmptyDTO(token), nil
}

// Snapshot returns a detached copy of the cart for checkout composition.
func (s *service) Snapshot(ctx context.Context, token string) (*Cart, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}
	return s.registry.Snapshot(token), nil
}
