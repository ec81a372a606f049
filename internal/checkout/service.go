package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mrbebidas/catalog-backend/internal/cart"
	"github.com/mrbebidas/catalog-backend/internal/pricing"
	"github.com/mrbebidas/catalog-backend/internal/settings"
	"github.com/mrbebidas/catalog-backend/pkg/config"
	"github.com/mrbebidas/catalog-backend/pkg/enums"
	pkgerrors "github.com/mrbebidas/catalog-backend/pkg/errors"
	"github.com/mrbebidas/catalog-backend/pkg/metrics"
	"github.com/mrbebidas/catalog-backend/pkg/outbox"
	"github.com/mrbebidas/catalog-backend/pkg/outbox/payloads"
)

var decimalHundred = decimal.NewFromInt(100)

// ResultDTO is returned to the storefront after a successful compose.
type ResultDTO struct {
	CheckoutID uuid.UUID `json:"checkout_id"`
	Message    string    `json:"message"`
	HandoffURL string    `json:"handoff_url"`
	Total      string    `json:"total"`
	TotalLabel string    `json:"total_label"`
}

type cartAccess interface {
	Snapshot(ctx context.Context, token string) (*cart.Cart, error)
	Clear(ctx context.Context, token string) (*cart.CartDTO, error)
}

type settingsReader interface {
	StoreSettings(ctx context.Context) (*settings.StoreSettingsDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service composes WhatsApp checkout handoffs.
type Service interface {
	Compose(ctx context.Context, token, customerName string) (*ResultDTO, error)
}

type service struct {
	carts    cartAccess
	settings settingsReader
	tx       txRunner
	events   eventEmitter
	cfg      config.CheckoutConfig
	metrics  *metrics.CatalogMetrics
}

// NewService builds the checkout service.
func NewService(carts cartAccess, settingsSvc settingsReader, tx txRunner, events eventEmitter, cfg config.CheckoutConfig, m *metrics.CatalogMetrics) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart access required")
	}
	if settingsSvc == nil {
		return nil, fmt.Errorf("settings reader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &service{carts: carts, settings: settingsSvc, tx: tx, events: events, cfg: cfg, metrics: m}, nil
}

// Compose builds the order message and deep link, records the checkout
// event, and clears the session cart.
func (s *service) Compose(ctx context.Context, token, customerName string) (*ResultDTO, error) {
	name := strings.TrimSpace(customerName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}

	c, err := s.carts.Snapshot(ctx, token)
	if err != nil {
		return nil, err
	}
	if len(c.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	storeSettings, err := s.settings.StoreSettings(ctx)
	if err != nil {
		return nil, err
	}
	phone := storeSettings.WhatsAppNumber
	if phone == "" {
		phone = s.cfg.DefaultPhone
	}

	message := ComposeMessage(s.cfg.StoreDisplayName, name, c)
	total := c.Total()
	checkoutID := uuid.New()

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventCheckoutComposed,
			AggregateType: enums.AggregateCheckout,
			AggregateID:   checkoutID,
			Data: payloads.CheckoutComposedEvent{
				CheckoutID:   checkoutID,
				CustomerName: name,
				ItemCount:    c.ItemCount(),
				TotalCents:   total.Mul(decimalHundred).IntPart(),
				ComposedAt:   time.Now(),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.carts.Clear(ctx, token); err != nil {
		return nil, err
	}
	s.metrics.IncCheckoutComposed()

	return &ResultDTO{
		CheckoutID: checkoutID,
		Message:    message,
		HandoffURL: HandoffURL(s.cfg.HandoffBaseURL, phone, message),
		Total:      total.StringFixed(2),
		TotalLabel: pricing.FormatAmount(total),
	}, nil
}
