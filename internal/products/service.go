package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrbebidas/catalog-backend/internal/pricing"
	"github.com/mrbebidas/catalog-backend/internal/realtime"
	dbpkg "github.com/mrbebidas/catalog-backend/pkg/db"
	"github.com/mrbebidas/catalog-backend/pkg/db/models"
	"github.com/mrbebidas/catalog-backend/pkg/enums"
	pkgerrors "github.com/mrbebidas/catalog-backend/pkg/errors"
	"github.com/mrbebidas/catalog-backend/pkg/outbox"
	"github.com/mrbebidas/catalog-backend/pkg/outbox/payloads"
)

// ProductDTO is the admin view of a product. PriceValid tells the back
// office when a stored price will render as price-on-request.
type ProductDTO struct {
	ID          uuid.UUID `json:"id"`
	CategoryID  uuid.UUID `json:"category_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Price       string    `json:"price"`
	PriceLabel  string    `json:"price_label"`
	PriceValid  bool      `json:"price_valid"`
}

// CreateInput holds the validated payload to create a product. Price is
// stored as typed; invalid prices are allowed and surface as
// price-on-request on the storefront.
type CreateInput struct {
	CategoryID  uuid.UUID
	Name        string
	Description *string
	Price       string
}

// UpdateInput holds optional mutation values for a product.
type UpdateInput struct {
	CategoryID  *uuid.UUID
	Name        *string
	Description *string
	Price       *string
}

type categoryLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type changeNotifier interface {
	CatalogChanged(ctx context.Context, kind string)
}

// Service exposes back-office product management.
type Service interface {
	List(ctx context.Context, categoryID *uuid.UUID) ([]ProductDTO, error)
	Create(ctx context.Context, actor *outbox.ActorRef, input CreateInput) (*ProductDTO, error)
	Update(ctx context.Context, actor *outbox.ActorRef, id uuid.UUID, input UpdateInput) (*ProductDTO, error)
	Delete(ctx context.Context, actor *outbox.ActorRef, id uuid.UUID) error
}

type service struct {
	repo       *Repository
	categories categoryLoader
	tx         txRunner
	events     eventEmitter
	notifier   changeNotifier
}

// NewService builds the product service.
func NewService(repo *Repository, categories categoryLoader, tx txRunner, events eventEmitter, notifier changeNotifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category loader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("change notifier required")
	}
	return &service{repo: repo, categories: categories, tx: tx, events: events, notifier: notifier}, nil
}

func (s *service) List(ctx context.Context, categoryID *uuid.UUID) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx, categoryID)
	if err != nil {
		return nil, mapRepoError(err, "db: list products")
	}
	dtos := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toDTO(row))
	}
	return dtos, nil
}

func (s *service) Create(ctx context.Context, actor *outbox.ActorRef, input CreateInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	if _, err := s.categories.FindByID(ctx, input.CategoryID); err != nil {
		return nil, mapRepoError(err, "db: load category")
	}

	var created *models.Product
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		row, err := txRepo.Create(ctx, &models.Product{
			CategoryID:  input.CategoryID,
			Name:        name,
			Description: input.Description,
			Price:       strings.TrimSpace(input.Price),
		})
		if err != nil {
			return mapRepoError(err, "db: insert product")
		}
		created = row

		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventProductUpserted,
			AggregateType: enums.AggregateProduct,
			AggregateID:   row.ID,
			Actor:         actor,
			Data: payloads.ProductUpsertedEvent{
				ProductID:  row.ID,
				CategoryID: row.CategoryID,
				Name:       row.Name,
				Price:      row.Price,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifier.CatalogChanged(ctx, realtime.KindProducts)
	dto := toDTO(*created)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, actor *outbox.ActorRef, id uuid.UUID, input UpdateInput) (*ProductDTO, error) {
	if input.CategoryID == nil && input.Name == nil && input.Description == nil && input.Price == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "db: load product")
	}

	if input.CategoryID != nil {
		if *input.CategoryID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id cannot be empty")
		}
		if _, err := s.categories.FindByID(ctx, *input.CategoryID); err != nil {
			return nil, mapRepoError(err, "db: load category")
		}
		row.CategoryID = *input.CategoryID
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		row.Name = name
	}
	if input.Description != nil {
		row.Description = input.Description
	}
	if input.Price != nil {
		row.Price = strings.TrimSpace(*input.Price)
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.Update(ctx, row); err != nil {
			return mapRepoError(err, "db: update product")
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventProductUpserted,
			AggregateType: enums.AggregateProduct,
			AggregateID:   row.ID,
			Actor:         actor,
			Data: payloads.ProductUpsertedEvent{
				ProductID:  row.ID,
				CategoryID: row.CategoryID,
				Name:       row.Name,
				Price:      row.Price,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifier.CatalogChanged(ctx, realtime.KindProducts)
	dto := toDTO(*row)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, actor *outbox.ActorRef, id uuid.UUID) error {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepoError(err, "db: load product")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Delete(ctx, id); err != nil {
			return mapRepoError(err, "db: delete product")
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventProductDeleted,
			AggregateType: enums.AggregateProduct,
			AggregateID:   id,
			Actor:         actor,
			Data: payloads.ProductDeletedEvent{
				ProductID:  id,
				CategoryID: row.CategoryID,
				Name:       row.Name,
			},
		})
	})
	if err != nil {
		return err
	}

	s.notifier.CatalogChanged(ctx, realtime.KindProducts)
	return nil
}

func toDTO(row models.Product) ProductDTO {
	return ProductDTO{
		ID:          row.ID,
		CategoryID:  row.CategoryID,
		Name:        row.Name,
		Description: row.Description,
		Price:       row.Price,
		PriceLabel:  pricing.Format(row.Price),
		PriceValid:  pricing.IsValid(row.Price),
	}
}

func mapRepoError(err error, msg string) error {
	if appErr := pkgerrors.As(err); appErr != nil {
		return appErr
	}
	if errors.Is(err, dbpkg.ErrSchemaMissing) {
		return pkgerrors.Wrap(pkgerrors.CodeSetupRequired, err, msg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
