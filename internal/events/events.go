// Package events keeps a bounded, sequenced feed of queue changes so API
// clients can poll for what happened since their last read.
package events

import (
	"sync"
	"time"
)

// Type classifies queue change events.
type Type string

const (
	TypeJobsAdded      Type = "jobs_added"
	TypeJobUpdated     Type = "job_updated"
	TypeQueueCleared   Type = "queue_cleared"
	TypeQueueReordered Type = "queue_reordered"
	TypeSelection      Type = "selection_changed"
	TypeBatchStarted   Type = "batch_started"
	TypeBatchFinished  Type = "batch_finished"
)

// DefaultCapacity is used when NewBus receives a non-positive capacity.
const DefaultCapacity = 500

// Event is one sequenced change.
type Event struct {
	Seq       int64     `json:"seq"`
	Timestamp time.Time `json:"timestamp"`
	Type      Type      `json:"type"`
	Queue     string    `json:"queue"`
	JobID     string    `json:"job_id,omitempty"`
	JobIDs    []string  `json:"job_ids,omitempty"`
	Status    string    `json:"status,omitempty"`
	Progress  int       `json:"progress,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// Bus stores recent events and provides incremental reads.
type Bus struct {
	mu       sync.RWMutex
	nextSeq  int64
	capacity int
	events   []Event
}

// NewBus creates a bounded in-memory event buffer.
func NewBus(capacity int) *Bus {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Bus{
		capacity: capacity,
		events:   make([]Event, 0, capacity),
	}
}

// Publish appends one event and assigns sequence and timestamp. A nil bus
// drops the event.
func (b *Bus) Publish(event Event) Event {
	if b == nil {
		return event
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextSeq++
	event.Seq = b.nextSeq
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	b.events = append(b.events, event)
	if len(b.events) > b.capacity {
		trim := len(b.events) - b.capacity
		b.events = append([]Event(nil), b.events[trim:]...)
	}
	return event
}

// Since returns events with sequence strictly greater than seq.
func (b *Bus) Since(seq int64) []Event {
	if b == nil {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Event, 0, len(b.events))
	for _, event := range b.events {
		if event.Seq > seq {
			out = append(out, event)
		}
	}
	return out
}

// LastSeq reports the sequence of the most recent event.
func (b *Bus) LastSeq() int64 {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.nextSeq
}
