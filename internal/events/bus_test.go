package events

import (
	"sync"
	"testing"
)

func TestBusDeliversInSubscriptionOrder(t *testing.T) {
	bus := NewBus[int]()
	var got []string
	bus.Subscribe(func(v int) { got = append(got, "a") })
	bus.Subscribe(func(v int) { got = append(got, "b") })
	bus.Publish(1)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected delivery order %v", got)
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus[string]()
	count := 0
	unsubscribe := bus.Subscribe(func(string) { count++ })
	keep := 0
	bus.Subscribe(func(string) { keep++ })

	bus.Publish("x")
	unsubscribe()
	unsubscribe()
	bus.Publish("y")

	if count != 1 {
		t.Fatalf("expected removed handler to see one event, got %d", count)
	}
	if keep != 2 {
		t.Fatalf("expected remaining handler to see two events, got %d", keep)
	}
	if bus.Len() != 1 {
		t.Fatalf("expected one subscriber, got %d", bus.Len())
	}
}

func TestBusNilHandlerIsIgnored(t *testing.T) {
	bus := NewBus[int]()
	unsubscribe := bus.Subscribe(nil)
	unsubscribe()
	bus.Publish(1)
	if bus.Len() != 0 {
		t.Fatalf("expected no subscribers, got %d", bus.Len())
	}
}

func TestBusHandlerMayUnsubscribeDuringPublish(t *testing.T) {
	bus := NewBus[int]()
	var unsubscribe func()
	calls := 0
	unsubscribe = bus.Subscribe(func(int) {
		calls++
		unsubscribe()
	})
	bus.Publish(1)
	bus.Publish(2)
	if calls != 1 {
		t.Fatalf("expected one call, got %d", calls)
	}
}

func TestBusConcurrentPublish(t *testing.T) {
	bus := NewBus[int]()
	var mu sync.Mutex
	total := 0
	bus.Subscribe(func(v int) {
		mu.Lock()
		total += v
		mu.Unlock()
	})
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Publish(1)
		}()
	}
	wg.Wait()
	if total != 50 {
		t.Fatalf("expected 50 deliveries, got %d", total)
	}
}
