// Package realtime fans catalog change notifications out to connected
// storefront clients. Changes travel through a Redis pub/sub channel so
// every API replica sees mutations made on any of them.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mrbebidas/catalog-backend/pkg/logger"
)

// Change kinds carried on the channel.
const (
	KindCategories = "categories"
	KindProducts   = "products"
	KindSettings   = "settings"
)

// ChangeEvent is the payload published for every catalog mutation.
type ChangeEvent struct {
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
}

type channelPublisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

// Notifier publishes catalog change events.
type Notifier struct {
	publisher channelPublisher
	channel   string
	logg      *logger.Logger
}

// NewNotifier builds a notifier bound to the configured channel.
func NewNotifier(publisher channelPublisher, channel string, logg *logger.Logger) (*Notifier, error) {
	if publisher == nil {
		return nil, fmt.Errorf("publisher required")
	}
	if channel == "" {
		return nil, fmt.Errorf("channel name required")
	}
	return &Notifier{publisher: publisher, channel: channel, logg: logg}, nil
}

// CatalogChanged announces that data of the given kind changed. Publish
// failures are logged, not propagated: the mutation itself already
// committed and clients recover on their next full load.
func (n *Notifier) CatalogChanged(ctx context.Context, kind string) {
	payload, err := json.Marshal(ChangeEvent{Kind: kind, OccurredAt: time.Now()})
	if err != nil {
		return
	}
	if err := n.publisher.Publish(ctx, n.channel, string(payload)); err != nil && n.logg != nil {
		n.logg.Warn(n.logg.WithFields(ctx, map[string]any{"kind": kind}), "catalog change publish failed: "+err.Error())
	}
}
