package event

import (
	"testing"

	"reelflow/internal/biz/round"
)

func TestBusTypedDelivery(t *testing.T) {
	b := NewBus()
	var stops, states, all int
	b.Subscribe(ColumnStopped, func(Event) { stops++ })
	unsub := b.Subscribe(StateChanged, func(e Event) {
		states++
		if e.State != round.Spinning {
			t.Errorf("state = %s", e.State)
		}
	})
	b.SubscribeAll(func(Event) { all++ })

	b.Publish(Event{Kind: ColumnStopped, Column: 1})
	b.Publish(Event{Kind: StateChanged, State: round.Spinning})
	unsub()
	unsub()
	b.Publish(Event{Kind: StateChanged, State: round.Spinning})

	if stops != 1 || states != 1 || all != 3 {
		t.Fatalf("stops=%d states=%d all=%d", stops, states, all)
	}
}

func TestBusUnsubscribeDuringPublish(t *testing.T) {
	b := NewBus()
	var n int
	var unsub func()
	unsub = b.Subscribe(Sound, func(Event) {
		n++
		unsub()
	})
	b.Publish(Event{Kind: Sound})
	b.Publish(Event{Kind: Sound})
	if n != 1 {
		t.Fatalf("handler ran %d times", n)
	}
}

func TestNilBusPublish(t *testing.T) {
	var b *Bus
	b.Publish(Event{Kind: Fatal})
}
