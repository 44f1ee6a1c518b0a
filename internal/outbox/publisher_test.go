package outbox

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robertarktes/holidaze-gateway/internal/domain"
	"github.com/robertarktes/holidaze-gateway/internal/observability"
)

type fakeSender struct {
	mu       sync.Mutex
	failures int
	calls    int
	keys     []string
	msgs     []amqp.Publishing
}

func (f *fakeSender) Publish(_ context.Context, key string, msg amqp.Publishing) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.calls <= f.failures {
		return errors.New("broker unavailable")
	}
	f.keys = append(f.keys, key)
	f.msgs = append(f.msgs, msg)
	return nil
}

func (f *fakeSender) published() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.msgs)
}

func TestOutbox_NilDropsEvents(t *testing.T) {
	var o *Outbox
	if o.Enqueue(Event{Type: BookingCreated}) {
		t.Error("nil outbox must not accept events")
	}
}

func TestOutbox_FullQueueDrops(t *testing.T) {
	o := New(1, observability.NewDiscardLogger())
	if !o.Enqueue(Event{Type: BookingCreated}) {
		t.Fatal("first event should be queued")
	}
	if o.Enqueue(Event{Type: BookingCreated}) {
		t.Error("second event should be dropped")
	}
}

func TestPublisher_RelaysEvent(t *testing.T) {
	logger := observability.NewDiscardLogger()
	o := New(4, logger)
	sender := &fakeSender{failures: 1}
	p := NewPublisher(o, sender, logger)
	p.backoff = time.Millisecond

	b := &domain.Booking{ID: "b1", Guests: 2, Venue: &domain.Venue{ID: "v1"}}
	o.Enqueue(NewBookingEvent(BookingCreated, "kari", b))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for sender.published() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if sender.published() != 1 {
		t.Fatalf("expected 1 published event, got %d", sender.published())
	}
	if sender.keys[0] != BookingCreated {
		t.Errorf("unexpected routing key %s", sender.keys[0])
	}
	var e Event
	if err := json.Unmarshal(sender.msgs[0].Body, &e); err != nil {
		t.Fatal(err)
	}
	if e.BookingID != "b1" || e.VenueID != "v1" || e.Profile != "kari" {
		t.Errorf("unexpected event %+v", e)
	}
	if sender.msgs[0].MessageId != e.ID.String() {
		t.Errorf("message id should match event id")
	}
}

func TestPublisher_FlushesOnShutdown(t *testing.T) {
	logger := observability.NewDiscardLogger()
	o := New(4, logger)
	sender := &fakeSender{}
	p := NewPublisher(o, sender, logger)

	o.Enqueue(Event{Type: BookingCancelled, BookingID: "b1"})
	o.Enqueue(Event{Type: BookingCancelled, BookingID: "b2"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Run(ctx)

	if got := sender.published(); got != 2 {
		t.Errorf("expected both queued events to be flushed, got %d", got)
	}
}
