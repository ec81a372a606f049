package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/mrbebidas/catalog-backend/internal/settings"
	"github.com/mrbebidas/catalog-backend/pkg/config"
	"github.com/mrbebidas/catalog-backend/pkg/db"
	"github.com/mrbebidas/catalog-backend/pkg/db/models"
	"github.com/mrbebidas/catalog-backend/pkg/logger"
	"github.com/mrbebidas/catalog-backend/pkg/metrics"
)

type snapshotLoader interface {
	ListCategoriesWithProducts(ctx context.Context) ([]models.Category, error)
}

type settingsLoader interface {
	GetAll(ctx context.Context) (map[string]string, error)
}

// Service exposes the storefront catalog read path.
type Service interface {
	Snapshot(ctx context.Context, search string, categoryID *uuid.UUID) (*SnapshotDTO, error)
	AdminSnapshot(ctx context.Context) (*SnapshotDTO, error)
}

type service struct {
	repo     snapshotLoader
	settings settingsLoader
	cfg      config.CatalogConfig
	logg     *logger.Logger
	metrics  *metrics.CatalogMetrics
}

// NewService builds the catalog read service.
func NewService(repo snapshotLoader, settingsRepo settingsLoader, cfg config.CatalogConfig, logg *logger.Logger, m *metrics.CatalogMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if settingsRepo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo, settings: settingsRepo, cfg: cfg, logg: logg, metrics: m}, nil
}

// Snapshot loads the full catalog and applies the optional search and
// category filters. A database without the expected tables yields the
// setup_required state rather than an error so the storefront can render
// its provisioning notice.
func (s *service) Snapshot(ctx context.Context, search string, categoryID *uuid.UUID) (*SnapshotDTO, error) {
	dtos, values, err := s.load(ctx)
	if err != nil {
		return s.handleLoadError(ctx, err)
	}
	shown, products := Filter(dtos, search, categoryID)
	return s.buildSnapshot(shown, products, values), nil
}

// AdminSnapshot serves the back office an unfiltered view. Categories
// without products stay visible so a freshly created one can be managed.
func (s *service) AdminSnapshot(ctx context.Context) (*SnapshotDTO, error) {
	dtos, values, err := s.load(ctx)
	if err != nil {
		return s.handleLoadError(ctx, err)
	}
	sort.SliceStable(dtos, func(i, j int) bool {
		return dtos[i].SortOrder < dtos[j].SortOrder
	})
	products := make([]ProductDTO, 0)
	for _, category := range dtos {
		products = append(products, category.Products...)
	}
	return s.buildSnapshot(dtos, products, values), nil
}

func (s *service) load(ctx context.Context) ([]CategoryDTO, map[string]string, error) {
	categories, err := s.repo.ListCategoriesWithProducts(ctx)
	if err != nil {
		return nil, nil, err
	}
	values, err := s.settings.GetAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	dtos := make([]CategoryDTO, 0, len(categories))
	for _, category := range categories {
		dtos = append(dtos, categoryToDTO(category))
	}
	return dtos, values, nil
}

func (s *service) buildSnapshot(shown []CategoryDTO, products []ProductDTO, values map[string]string) *SnapshotDTO {
	logoURL := values[models.SettingLogoURL]
	if logoURL == "" {
		logoURL = s.cfg.DefaultLogoURL
	}
	_, waErr := settings.NormalizeWhatsAppNumber(values[models.SettingWhatsAppNumber])

	s.metrics.IncSnapshotLoad(StateReady)
	return &SnapshotDTO{
		State:              StateReady,
		Categories:         shown,
		Products:           products,
		LogoURL:            logoURL,
		WhatsAppConfigured: waErr == nil,
	}
}

func (s *service) handleLoadError(ctx context.Context, err error) (*SnapshotDTO, error) {
	if errors.Is(err, db.ErrSchemaMissing) {
		if s.logg != nil {
			s.logg.Warn(ctx, "catalog tables missing, storefront in setup mode")
		}
		s.metrics.IncSnapshotLoad(StateSetupRequired)
		return &SnapshotDTO{
			State:      StateSetupRequired,
			Categories: []CategoryDTO{},
			Products:   []ProductDTO{},
			LogoURL:    s.cfg.DefaultLogoURL,
		}, nil
	}
	return nil, err
}
