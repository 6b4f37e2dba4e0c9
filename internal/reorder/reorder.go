// Package reorder implements drag-and-drop reordering of queue stores.
//
// A Controller holds at most one pending drag per screen. BeginDrag records
// the store kind and source index; DropAt consumes the drag and moves a
// single job when the drop lands on the same kind at a different index.
package reorder

import (
	"sync"

	"fileconverser/internal/queue"
)

// Mover moves one element of an ordered store.
type Mover interface {
	Move(from, to int) bool
	Len() int
}

type dragState struct {
	kind  queue.Kind
	index int
}

// Controller tracks the pending drag for one screen.
type Controller struct {
	mu     sync.Mutex
	stores map[queue.Kind]Mover
	drag   *dragState
}

// NewController returns a controller over the given stores. The compress
// screen passes both compress kinds to a single controller.
func NewController(stores map[queue.Kind]Mover) *Controller {
	return &Controller{stores: stores}
}

// BeginDrag records a drag from index in the kind's store. Unknown kinds and
// negative indexes clear any pending drag.
func (c *Controller) BeginDrag(kind queue.Kind, index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.stores[kind]; !ok || index < 0 {
		c.drag = nil
		return
	}
	c.drag = &dragState{kind: kind, index: index}
}

// Dragging reports the pending drag, if any.
func (c *Controller) Dragging() (queue.Kind, int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.drag == nil {
		return "", 0, false
	}
	return c.drag.kind, c.drag.index, true
}

// DropAt ends the pending drag. It moves the dragged job to target, clamped
// to the last index, and reports whether the store changed. Drops without a
// drag, onto another kind, onto the same index, or from a source index that
// no longer exists change nothing. The drag is consumed either way.
func (c *Controller) DropAt(kind queue.Kind, target int) bool {
	c.mu.Lock()
	drag := c.drag
	c.drag = nil
	c.mu.Unlock()

	if drag == nil || drag.kind != kind || drag.index == target {
		return false
	}
	store, ok := c.stores[kind]
	if !ok || drag.index >= store.Len() {
		return false
	}
	return store.Move(drag.index, target)
}

// Cancel drops any pending drag without moving anything.
func (c *Controller) Cancel() {
	c.mu.Lock()
	c.drag = nil
	c.mu.Unlock()
}
