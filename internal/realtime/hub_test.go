package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

type capturingPublisher struct {
	channel string
	payload string
	err     error
}

func (c *capturingPublisher) Publish(ctx context.Context, channel string, payload any) error {
	c.channel = channel
	c.payload = payload.(string)
	return c.err
}

func TestNotifierPublishesChangeEvent(t *testing.T) {
	pub := &capturingPublisher{}
	notifier, err := NewNotifier(pub, "mrb:catalog:changed", nil)
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}

	notifier.CatalogChanged(context.Background(), KindProducts)

	if pub.channel != "mrb:catalog:changed" {
		t.Fatalf("unexpected channel %q", pub.channel)
	}
	var event ChangeEvent
	if err := json.Unmarshal([]byte(pub.payload), &event); err != nil {
		t.Fatalf("payload not json: %v", err)
	}
	if event.Kind != KindProducts {
		t.Fatalf("unexpected kind %q", event.Kind)
	}
	if event.OccurredAt.IsZero() {
		t.Fatal("expected occurred_at set")
	}
}

func TestNewNotifierValidation(t *testing.T) {
	if _, err := NewNotifier(nil, "ch", nil); err == nil {
		t.Fatal("expected error for nil publisher")
	}
	if _, err := NewNotifier(&capturingPublisher{}, "", nil); err == nil {
		t.Fatal("expected error for empty channel")
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(nil, "mrb:catalog:changed", nil, nil)

	first, detachFirst := hub.Attach()
	second, detachSecond := hub.Attach()
	defer detachSecond()

	if hub.ClientCount() != 2 {
		t.Fatalf("expected 2 clients, got %d", hub.ClientCount())
	}

	hub.broadcast(ChangeEvent{Kind: KindCategories, OccurredAt: time.Now()})

	for name, ch := range map[string]<-chan ChangeEvent{"first": first, "second": second} {
		select {
		case event := <-ch:
			if event.Kind != KindCategories {
				t.Fatalf("%s client got kind %q", name, event.Kind)
			}
		default:
			t.Fatalf("%s client missed the broadcast", name)
		}
	}

	detachFirst()
	if hub.ClientCount() != 1 {
		t.Fatalf("expected 1 client after detach, got %d", hub.ClientCount())
	}
	// detaching twice must not panic or close twice
	detachFirst()
}

func TestHubSlowClientDoesNotBlock(t *testing.T) {
	hub := NewHub(nil, "mrb:catalog:changed", nil, nil)
	_, detach := hub.Attach()
	defer detach()

	for i := 0; i < 50; i++ {
		hub.broadcast(ChangeEvent{Kind: KindProducts})
	}
}
