package bus

import (
	"errors"
	"testing"
	"time"
)

func TestBasicPublishSubscribe(t *testing.T) {
	b := New()
	done := make(chan struct{})
	_, err := b.Subscribe("alarm.latched", func(e Event) error {
		if e.Data() != 7 {
			t.Errorf("unexpected payload %v", e.Data())
		}
		close(done)
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err = b.Publish(NewEvent("alarm.latched", "tester", 7)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("handler not called")
	}
}

func TestTypesIsolation(t *testing.T) {
	b := New()
	count1, count2 := 0, 0
	_, _ = b.Subscribe("tick.completed", func(e Event) error { count1++; return nil })
	_, _ = b.Subscribe("alarm.latched", func(e Event) error { count2++; return nil })
	_ = b.Publish(NewEvent("tick.completed", "src", nil))
	if count1 != 1 || count2 != 0 {
		t.Fatalf("type isolation failed: %d %d", count1, count2)
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	calls := 0
	sub, err := b.Subscribe("e", func(e Event) error { calls++; return nil })
	if err != nil {
		t.Fatalf("sub: %v", err)
	}
	_ = b.Publish(NewEvent("e", "s", nil))
	if err = b.Unsubscribe(sub); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if err = sub.Cancel(); err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	_ = b.Publish(NewEvent("e", "s", nil))
	if calls != 1 {
		t.Fatalf("expected one delivery, got %d", calls)
	}
	if sub.IsActive() {
		t.Fatal("subscription still active")
	}
	if err = b.Unsubscribe(nil); err != nil {
		t.Fatalf("nil unsubscribe: %v", err)
	}
}

func TestMetricsAndErrors(t *testing.T) {
	b := New()
	if _, err := b.Subscribe("e", nil); !errors.Is(err, ErrNilHandler) {
		t.Fatalf("expected ErrNilHandler, got %v", err)
	}
	e1, e2 := errors.New("one"), errors.New("two")
	_, _ = b.Subscribe("e", func(Event) error { return e1 })
	_, _ = b.Subscribe("e", func(Event) error { return e2 })
	err := b.Publish(NewEvent("e", "s", nil))
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Fatalf("errors not joined: %v", err)
	}
	m := b.Metrics()
	if m.Published != 1 || m.DeliveredHandlers != 2 || m.Errors != 1 || m.Subscribers != 2 {
		t.Fatalf("unexpected metrics: %+v", m)
	}
}
