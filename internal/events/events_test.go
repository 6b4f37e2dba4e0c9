package events_test

import (
	"testing"

	"fileconverser/internal/events"
)

func TestBusSince(t *testing.T) {
	bus := events.NewBus(3)
	bus.Publish(events.Event{Type: events.TypeJobsAdded, Message: "1"})
	bus.Publish(events.Event{Type: events.TypeJobUpdated, Message: "2"})
	bus.Publish(events.Event{Type: events.TypeJobUpdated, Message: "3"})

	got := bus.Since(1)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Seq != 2 || got[1].Seq != 3 {
		t.Fatalf("unexpected seqs: %+v", got)
	}
	if bus.LastSeq() != 3 {
		t.Fatalf("LastSeq = %d", bus.LastSeq())
	}
}

func TestBusCapsHistory(t *testing.T) {
	bus := events.NewBus(2)
	bus.Publish(events.Event{Message: "1"})
	bus.Publish(events.Event{Message: "2"})
	bus.Publish(events.Event{Message: "3"})

	got := bus.Since(0)
	if len(got) != 2 || got[0].Message != "2" || got[1].Message != "3" {
		t.Fatalf("unexpected events: %+v", got)
	}
}

func TestNilBusIsInert(t *testing.T) {
	var bus *events.Bus
	bus.Publish(events.Event{Message: "dropped"})
	if len(bus.Since(0)) != 0 || bus.LastSeq() != 0 {
		t.Fatal("nil bus should hold nothing")
	}
}
