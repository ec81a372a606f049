package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/mrbebidas/catalog-backend/pkg/config"
	"github.com/mrbebidas/catalog-backend/pkg/db/models"
	"github.com/mrbebidas/catalog-backend/pkg/enums"
	"github.com/mrbebidas/catalog-backend/pkg/logger"
	"github.com/mrbebidas/catalog-backend/pkg/outbox"
	"github.com/mrbebidas/catalog-backend/pkg/outbox/registry"
)

type fakeRepo struct {
	pending   []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
	terminal  []uuid.UUID
}

func (f *fakeRepo) FetchUnpublished(limit, maxAttempts int) ([]models.OutboxEvent, error) {
	events := f.pending
	f.pending = nil
	return events, nil
}

func (f *fakeRepo) MarkPublished(id uuid.UUID) error {
	f.published = append(f.published, id)
	return nil
}

func (f *fakeRepo) MarkFailed(id uuid.UUID, err error) error {
	f.failed = append(f.failed, id)
	return nil
}

func (f *fakeRepo) MarkTerminal(id uuid.UUID, err error, maxAttempts int) error {
	f.terminal = append(f.terminal, id)
	return nil
}

func (f *fakeRepo) DeletePublishedBefore(cutoff time.Time) (int64, error) {
	return 0, nil
}

type fakeResolver struct {
	err error
}

func (f *fakeResolver) Resolve(event models.OutboxEvent) (*registry.ResolvedEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &registry.ResolvedEvent{
		Descriptor: registry.EventDescriptor{
			EventType:     event.EventType,
			AggregateType: event.AggregateType,
			Topic:         "mrb-catalog-events",
		},
		Envelope: outbox.PayloadEnvelope{EventID: uuid.NewString(), OccurredAt: time.Now()},
	}, nil
}

type fakePinger struct{}

func (fakePinger) Ping(context.Context) error { return nil }

type fakePubSub struct{}

func (fakePubSub) Ping(context.Context) error            { return nil }
func (fakePubSub) Publisher(string) *gcppubsub.Publisher { return nil }

type fakeResult struct {
	err error
}

func (r fakeResult) Get(context.Context) (string, error) {
	return "server-id", r.err
}

type fakePublisher struct {
	calls int
	err   error
}

func (p *fakePublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	p.calls++
	return fakeResult{err: p.err}
}

func testEvent(attempts int) models.OutboxEvent {
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventProductUpserted,
		AggregateType: enums.AggregateProduct,
		AggregateID:   uuid.New(),
		Payload:       []byte(`{"version":1,"data":{}}`),
		CreatedAt:     time.Now().Add(-time.Second),
		AttemptCount:  attempts,
	}
}

func newTestService(t *testing.T, repo *fakeRepo, resolver *fakeResolver, pub *fakePublisher) *Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(ServiceParams{
		Config:     &config.Config{Outbox: config.OutboxConfig{BatchSize: 10, PollIntervalMS: 10, MaxAttempts: 3}},
		Logger:     logg,
		DB:         fakePinger{},
		PubSub:     fakePubSub{},
		Repository: repo,
		Registry:   resolver,
		PublisherFactory: func(topic string) publisher {
			return pub
		},
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestProcessBatchPublishes(t *testing.T) {
	event := testEvent(0)
	repo := &fakeRepo{pending: []models.OutboxEvent{event}}
	pub := &fakePublisher{}
	svc := newTestService(t, repo, &fakeResolver{}, pub)

	processed, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("processBatch: %v", err)
	}
	if !processed {
		t.Fatal("expected batch to be processed")
	}
	if pub.calls != 1 {
		t.Fatalf("expected 1 publish call, got %d", pub.calls)
	}
	if len(repo.published) != 1 || repo.published[0] != event.ID {
		t.Fatalf("expected event marked published, got %v", repo.published)
	}
}

func TestProcessBatchEmptyQueue(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo, &fakeResolver{}, &fakePublisher{})

	processed, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("processBatch: %v", err)
	}
	if processed {
		t.Fatal("expected no work for an empty queue")
	}
}

func TestProcessBatchRetriesTransientFailure(t *testing.T) {
	event := testEvent(0)
	repo := &fakeRepo{pending: []models.OutboxEvent{event}}
	pub := &fakePublisher{err: fmt.Errorf("pubsub unavailable")}
	svc := newTestService(t, repo, &fakeResolver{}, pub)

	if _, err := svc.processBatch(context.Background()); err != nil {
		t.Fatalf("processBatch: %v", err)
	}
	if len(repo.failed) != 1 || repo.failed[0] != event.ID {
		t.Fatalf("expected event marked failed for retry, got %v", repo.failed)
	}
	if len(repo.terminal) != 0 {
		t.Fatalf("transient failure should not be terminal, got %v", repo.terminal)
	}
}

func TestProcessBatchParksAfterMaxAttempts(t *testing.T) {
	event := testEvent(2) // next attempt hits the ceiling of 3
	repo := &fakeRepo{pending: []models.OutboxEvent{event}}
	pub := &fakePublisher{err: fmt.Errorf("pubsub unavailable")}
	svc := newTestService(t, repo, &fakeResolver{}, pub)

	if _, err := svc.processBatch(context.Background()); err != nil {
		t.Fatalf("processBatch: %v", err)
	}
	if len(repo.terminal) != 1 || repo.terminal[0] != event.ID {
		t.Fatalf("expected event parked after max attempts, got %v", repo.terminal)
	}
	if len(repo.failed) != 0 {
		t.Fatalf("parked event should not be marked failed, got %v", repo.failed)
	}
}

func TestProcessBatchParksNonRetryable(t *testing.T) {
	event := testEvent(0)
	repo := &fakeRepo{pending: []models.OutboxEvent{event}}
	pub := &fakePublisher{err: registry.NewNonRetryableError(errors.New("bad payload"))}
	svc := newTestService(t, repo, &fakeResolver{}, pub)

	if _, err := svc.processBatch(context.Background()); err != nil {
		t.Fatalf("processBatch: %v", err)
	}
	if len(repo.terminal) != 1 {
		t.Fatalf("expected non-retryable event parked, got %v", repo.terminal)
	}
}

func TestProcessBatchParksUnresolvable(t *testing.T) {
	event := testEvent(0)
	repo := &fakeRepo{pending: []models.OutboxEvent{event}}
	resolver := &fakeResolver{err: registry.NewNonRetryableError(errors.New("unknown event type"))}
	svc := newTestService(t, repo, resolver, &fakePublisher{})

	if _, err := svc.processBatch(context.Background()); err != nil {
		t.Fatalf("processBatch: %v", err)
	}
	if len(repo.terminal) != 1 {
		t.Fatalf("expected unresolvable event parked, got %v", repo.terminal)
	}
}
