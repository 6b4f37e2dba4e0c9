package workshop

import (
	"fileconverser/internal/events"
	"fileconverser/internal/queue"
)

// BeginDrag starts dragging the job at index on the kind's screen.
func (e *Engine) BeginDrag(kind queue.Kind, index int) error {
	if _, err := e.store(kind); err != nil {
		return err
	}
	e.screens[kind].BeginDrag(kind, index)
	return nil
}

// DropAt ends the drag on the kind's screen and reports whether the store
// order changed.
func (e *Engine) DropAt(kind queue.Kind, target int) (bool, error) {
	store, err := e.store(kind)
	if err != nil {
		return false, err
	}
	moved := e.screens[kind].DropAt(kind, target)
	if moved {
		e.bus.Publish(events.Event{Type: events.TypeQueueReordered, Queue: string(kind), JobIDs: store.IDs()})
	}
	return moved, nil
}
