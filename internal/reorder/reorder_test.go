package reorder

import (
	"testing"

	"fileconverser/internal/queue"
)

func seedStore(t *testing.T, kind queue.Kind, names ...string) (*queue.Store, map[string]string) {
	t.Helper()
	store := queue.NewStore(kind)
	byID := make(map[string]string, len(names))
	for _, name := range names {
		job := queue.NewDocumentJob(queue.Source{Name: name}, queue.DefaultDefaults())
		byID[job.ID] = name
		store.Append(job)
	}
	return store, byID
}

func order(store *queue.Store, byID map[string]string) []string {
	ids := store.IDs()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = byID[id]
	}
	return out
}

func assertOrder(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestDropMovesSingleElement(t *testing.T) {
	tests := []struct {
		name   string
		from   int
		to     int
		moved  bool
		expect []string
	}{
		{name: "forward", from: 0, to: 2, moved: true, expect: []string{"B", "C", "A", "D"}},
		{name: "backward", from: 3, to: 1, moved: true, expect: []string{"A", "D", "B", "C"}},
		{name: "clamped", from: 1, to: 99, moved: true, expect: []string{"A", "C", "D", "B"}},
		{name: "same index", from: 2, to: 2, moved: false, expect: []string{"A", "B", "C", "D"}},
		{name: "stale source", from: 7, to: 0, moved: false, expect: []string{"A", "B", "C", "D"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, byID := seedStore(t, queue.KindDocumentConvert, "A", "B", "C", "D")
			c := NewController(map[queue.Kind]Mover{queue.KindDocumentConvert: store})
			c.BeginDrag(queue.KindDocumentConvert, tt.from)
			if moved := c.DropAt(queue.KindDocumentConvert, tt.to); moved != tt.moved {
				t.Fatalf("moved = %v, want %v", moved, tt.moved)
			}
			assertOrder(t, order(store, byID), tt.expect...)
		})
	}
}

func TestDropWithoutDragIsNoop(t *testing.T) {
	store, byID := seedStore(t, queue.KindDocumentConvert, "A", "B")
	c := NewController(map[queue.Kind]Mover{queue.KindDocumentConvert: store})
	if c.DropAt(queue.KindDocumentConvert, 1) {
		t.Fatal("drop without drag should not move")
	}
	assertOrder(t, order(store, byID), "A", "B")
}

func TestDropConsumesDrag(t *testing.T) {
	store, byID := seedStore(t, queue.KindDocumentConvert, "A", "B", "C")
	c := NewController(map[queue.Kind]Mover{queue.KindDocumentConvert: store})
	c.BeginDrag(queue.KindDocumentConvert, 0)
	c.DropAt(queue.KindDocumentConvert, 0)
	if _, _, ok := c.Dragging(); ok {
		t.Fatal("drag should be consumed by a no-op drop")
	}
	if c.DropAt(queue.KindDocumentConvert, 2) {
		t.Fatal("second drop should be a no-op")
	}
	assertOrder(t, order(store, byID), "A", "B", "C")
}

func TestCompressTabSwitchMidDrag(t *testing.T) {
	docs, docIDs := seedStore(t, queue.KindDocumentCompress, "d1", "d2")
	imgs, imgIDs := seedStore(t, queue.KindImageCompress, "i1", "i2")
	c := NewController(map[queue.Kind]Mover{
		queue.KindDocumentCompress: docs,
		queue.KindImageCompress:    imgs,
	})

	c.BeginDrag(queue.KindDocumentCompress, 0)
	if c.DropAt(queue.KindImageCompress, 1) {
		t.Fatal("drop on the other tab must not move")
	}
	assertOrder(t, order(docs, docIDs), "d1", "d2")
	assertOrder(t, order(imgs, imgIDs), "i1", "i2")

	c.BeginDrag(queue.KindImageCompress, 0)
	if !c.DropAt(queue.KindImageCompress, 1) {
		t.Fatal("expected move within the image tab")
	}
	assertOrder(t, order(imgs, imgIDs), "i2", "i1")
}

func TestBeginDragRejectsUnknownKind(t *testing.T) {
	store, _ := seedStore(t, queue.KindDocumentConvert, "A")
	c := NewController(map[queue.Kind]Mover{queue.KindDocumentConvert: store})
	c.BeginDrag(queue.KindDocumentConvert, 0)
	c.BeginDrag(queue.KindImageResize, 0)
	if _, _, ok := c.Dragging(); ok {
		t.Fatal("unknown kind should clear the drag")
	}
}
