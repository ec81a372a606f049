package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrbebidas/catalog-backend/internal/realtime"
	"github.com/mrbebidas/catalog-backend/pkg/config"
	dbpkg "github.com/mrbebidas/catalog-backend/pkg/db"
	"github.com/mrbebidas/catalog-backend/pkg/db/models"
	"github.com/mrbebidas/catalog-backend/pkg/enums"
	pkgerrors "github.com/mrbebidas/catalog-backend/pkg/errors"
	"github.com/mrbebidas/catalog-backend/pkg/outbox"
	"github.com/mrbebidas/catalog-backend/pkg/outbox/payloads"
)

const minWhatsAppDigits = 10

// StoreSettingsDTO is the wire representation of store configuration.
type StoreSettingsDTO struct {
	WhatsAppNumber     string `json:"whatsapp_number"`
	WhatsAppConfigured bool   `json:"whatsapp_configured"`
	LogoURL            string `json:"logo_url"`
}

// UpdateInput carries optional new values for each settings key.
type UpdateInput struct {
	WhatsAppNumber *string
	LogoURL        *string
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

// Service exposes store configuration reads and admin updates.
type Service interface {
	StoreSettings(ctx context.Context) (*StoreSettingsDTO, error)
	Update(ctx context.Context, actor *outbox.ActorRef, input UpdateInput) (*StoreSettingsDTO, error)
}

type service struct {
	repo     *Repository
	tx       txRunner
	events   eventEmitter
	notifier changeNotifier
	cfg      config.CatalogConfig
	checkout config.CheckoutConfig
}

// NewService builds the settings service.
func NewService(repo *Repository, tx txRunner, events eventEmitter, notifier changeNotifier, cfg config.CatalogConfig, checkout config.CheckoutConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
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
	return &service{repo: repo, tx: tx, events: events, notifier: notifier, cfg: cfg, checkout: checkout}, nil
}

// StoreSettings loads configuration with config-level fallbacks. A missing
// schema falls back to defaults so the storefront can still render.
func (s *service) StoreSettings(ctx context.Context) (*StoreSettingsDTO, error) {
	values, err := s.repo.GetAll(ctx)
	if err != nil {
		if errors.Is(err, dbpkg.ErrSchemaMissing) {
			return s.defaults(), nil
		}
		return nil, err
	}

	dto := s.defaults()
	if number := values[models.SettingWhatsAppNumber]; number != "" {
		dto.WhatsAppNumber = number
		dto.WhatsAppConfigured = true
	}
	if logo := values[models.SettingLogoURL]; logo != "" {
		dto.LogoURL = logo
	}
	return dto, nil
}

func (s *service) defaults() *StoreSettingsDTO {
	return &StoreSettingsDTO{
		WhatsAppNumber:     s.checkout.DefaultPhone,
		WhatsAppConfigured: false,
		LogoURL:            s.cfg.DefaultLogoURL,
	}
}

// Update validates and persists the provided keys, emitting a settings
// event and a realtime notification for the storefront.
func (s *service) Update(ctx context.Context, actor *outbox.ActorRef, input UpdateInput) (*StoreSettingsDTO, error) {
	if input.WhatsAppNumber == nil && input.LogoURL == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no settings provided")
	}

	var changed []string
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if input.WhatsAppNumber != nil {
			digits, err := NormalizeWhatsAppNumber(*input.WhatsAppNumber)
			if err != nil {
				return err
			}
			if err := txRepo.Upsert(ctx, models.SettingWhatsAppNumber, digits); err != nil {
				return wrapSchemaMissing(err, "db: upsert whatsapp number")
			}
			changed = append(changed, models.SettingWhatsAppNumber)
		}

		if input.LogoURL != nil {
			logo := strings.TrimSpace(*input.LogoURL)
			if err := txRepo.Upsert(ctx, models.SettingLogoURL, logo); err != nil {
				return wrapSchemaMissing(err, "db: upsert logo url")
			}
			changed = append(changed, models.SettingLogoURL)
		}

		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventSettingsUpdated,
			AggregateType: enums.AggregateSetting,
			AggregateID:   uuid.New(),
			Actor:         actor,
			Data:          payloads.SettingsUpdatedEvent{Keys: changed},
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifier.CatalogChanged(ctx, realtime.KindSettings)
	return s.StoreSettings(ctx)
}

// NormalizeWhatsAppNumber strips formatting and validates the digit count.
func NormalizeWhatsAppNumber(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	if digits.Len() < minWhatsAppDigits {
		return "", pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("whatsapp number needs at least %d digits", minWhatsAppDigits))
	}
	return digits.String(), nil
}

func wrapSchemaMissing(err error, msg string) error {
	if errors.Is(err, dbpkg.ErrSchemaMissing) {
		return pkgerrors.Wrap(pkgerrors.CodeSetupRequired, err, msg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
