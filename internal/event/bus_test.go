package event

import (
	"testing"

	"github.com/google/uuid"

	"github.com/scribe-editor/scribe/internal/engine/buffer"
)

func TestPublishDeliversToSubscriber(t *testing.T) {
	b := NewBus()
	var got []Event
	b.Subscribe(TypeBufferChanged, func(e Event) {
		got = append(got, e)
	})

	id := uuid.New()
	b.Publish(New(TypeBufferChanged, BufferChanged{BufferID: id, Revision: 3}, "test"))

	if len(got) != 1 {
		t.Fatalf("delivered %d events, want 1", len(got))
	}
	payload, ok := got[0].Payload.(BufferChanged)
	if !ok {
		t.Fatalf("payload type %T", got[0].Payload)
	}
	if payload.BufferID != id || payload.Revision != buffer.Revision(3) {
		t.Errorf("payload = %+v", payload)
	}
	if got[0].Metadata.ID == uuid.Nil || got[0].Metadata.Timestamp.IsZero() {
		t.Error("metadata not populated")
	}
}

func TestPublishSkipsOtherTypes(t *testing.T) {
	b := NewBus()
	calls := 0
	b.Subscribe(TypeCursorMoved, func(Event) { calls++ })

	b.Publish(New(TypeBufferChanged, BufferChanged{}, "test"))
	if calls != 0 {
		t.Errorf("handler called %d times for unrelated type", calls)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBus()
	calls := 0
	sub := b.Subscribe(TypeBufferChanged, func(Event) { calls++ })

	b.Publish(New(TypeBufferChanged, BufferChanged{}, "test"))
	b.Unsubscribe(sub)
	b.Publish(New(TypeBufferChanged, BufferChanged{}, "test"))

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if b.SubscriberCount(TypeBufferChanged) != 0 {
		t.Error("subscriber still registered")
	}
}

func TestMultipleSubscribers(t *testing.T) {
	b := NewBus()
	var a, c int
	b.Subscribe(TypeBufferChanged, func(Event) { a++ })
	b.Subscribe(TypeBufferChanged, func(Event) { c++ })

	b.Publish(New(TypeBufferChanged, BufferChanged{}, "test"))
	if a != 1 || c != 1 {
		t.Errorf("deliveries = %d, %d, want 1, 1", a, c)
	}
}

func TestSubscribeDuringPublishDoesNotDeadlock(t *testing.T) {
	b := NewBus()
	b.Subscribe(TypeBufferChanged, func(Event) {
		b.Subscribe(TypeCursorMoved, func(Event) {})
	})
	b.Publish(New(TypeBufferChanged, BufferChanged{}, "test"))

	if b.SubscriberCount(TypeCursorMoved) != 1 {
		t.Error("nested subscribe failed")
	}
}
