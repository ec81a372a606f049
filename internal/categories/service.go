package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrbebidas/catalog-backend/internal/realtime"
	dbpkg "github.com/mrbebidas/catalog-backend/pkg/db"
	"github.com/mrbebidas/catalog-backend/pkg/db/models"
	"github.com/mrbebidas/catalog-backend/pkg/enums"
	pkgerrors "github.com/mrbebidas/catalog-backend/pkg/errors"
	"github.com/mrbebidas/catalog-backend/pkg/outbox"
	"github.com/mrbebidas/catalog-backend/pkg/outbox/payloads"
)

// CategoryDTO is the admin view of a category.
type CategoryDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	SortOrder    *int      `json:"sort_order,omitempty"`
	ProductCount int64     `json:"product_count"`
}

// CreateInput holds the validated payload to create a category.
type CreateInput struct {
	Name      string
	SortOrder *int
}

// UpdateInput holds optional mutation values for a category.
type UpdateInput struct {
	Name      *string
	SortOrder *int
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

// Service exposes back-office category management.
type Service interface {
	List(ctx context.Context) ([]CategoryDTO, error)
	Create(ctx context.Context, actor *outbox.ActorRef, input CreateInput) (*CategoryDTO, error)
	Update(ctx context.Context, actor *outbox.ActorRef, id uuid.UUID, input UpdateInput) (*CategoryDTO, error)
	Delete(ctx context.Context, actor *outbox.ActorRef, id uuid.UUID) error
}

type service struct {
	repo     *Repository
	tx       txRunner
	events   eventEmitter
	notifier changeNotifier
}

// NewService builds the category service.
func NewService(repo *Repository, tx txRunner, events eventEmitter, notifier changeNotifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
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
	return &service{repo: repo, tx: tx, events: events, notifier: notifier}, nil
}

func (s *service) List(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapRepoError(err, "db: list categories")
	}
	dtos := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		count, err := s.repo.CountProducts(ctx, row.ID)
		if err != nil {
			return nil, mapRepoError(err, "db: count products")
		}
		dtos = append(dtos, toDTO(row, count))
	}
	return dtos, nil
}

func (s *service) Create(ctx context.Context, actor *outbox.ActorRef, input CreateInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	var created *models.Category
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		row, err := txRepo.Create(ctx, &models.Category{Name: name, SortOrder: input.SortOrder})
		if err != nil {
			return mapRepoError(err, "db: insert category")
		}
		created = row

		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventCategoryUpserted,
			AggregateType: enums.AggregateCategory,
			AggregateID:   row.ID,
			Actor:         actor,
			Data: payloads.CategoryUpsertedEvent{
				CategoryID: row.ID,
				Name:       row.Name,
				SortOrder:  row.SortOrder,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifier.CatalogChanged(ctx, realtime.KindCategories)
	dto := toDTO(*created, 0)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, actor *outbox.ActorRef, id uuid.UUID, input UpdateInput) (*CategoryDTO, error) {
	if input.Name == nil && input.SortOrder == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "db: load category")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name cannot be empty")
		}
		row.Name = name
	}
	if input.SortOrder != nil {
		row.SortOrder = input.SortOrder
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.Update(ctx, row); err != nil {
			return mapRepoError(err, "db: update category")
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventCategoryUpserted,
			AggregateType: enums.AggregateCategory,
			AggregateID:   row.ID,
			Actor:         actor,
			Data: payloads.CategoryUpsertedEvent{
				CategoryID: row.ID,
				Name:       row.Name,
				SortOrder:  row.SortOrder,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifier.CatalogChanged(ctx, realtime.KindCategories)
	count, err := s.repo.CountProducts(ctx, row.ID)
	if err != nil {
		return nil, mapRepoError(err, "db: count products")
	}
	dto := toDTO(*row, count)
	return &dto, nil
}

// Delete removes the category and, through the database cascade, every
// product under it.
func (s *service) Delete(ctx context.Context, actor *outbox.ActorRef, id uuid.UUID) error {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepoError(err, "db: load category")
	}
	count, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return mapRepoError(err, "db: count products")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Delete(ctx, id); err != nil {
			return mapRepoError(err, "db: delete category")
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventCategoryDeleted,
			AggregateType: enums.AggregateCategory,
			AggregateID:   id,
			Actor:         actor,
			Data: payloads.CategoryDeletedEvent{
				CategoryID:   id,
				Name:         row.Name,
				ProductCount: int(count),
			},
		})
	})
	if err != nil {
		return err
	}

	s.notifier.CatalogChanged(ctx, realtime.KindCategories)
	return nil
}

func toDTO(row models.Category, productCount int64) CategoryDTO {
	return CategoryDTO{
		ID:           row.ID,
		Name:         row.Name,
		SortOrder:    row.SortOrder,
		ProductCount: productCount,
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
