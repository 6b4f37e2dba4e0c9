package queue_test

import (
	"errors"
	"sync"
	"testing"

	"fileconverser/internal/media"
	"fileconverser/internal/queue"
)

func newDocJob(name string) *queue.Job {
	return queue.NewDocumentJob(queue.Source{Name: name, MediaType: media.MediaTypeText, Data: []byte("hello")}, queue.DefaultDefaults())
}

func seedStore(t *testing.T, names ...string) (*queue.Store, []string) {
	t.Helper()
	store := queue.NewStore(queue.KindDocumentConvert)
	ids := make([]string, 0, len(names))
	jobs := make([]*queue.Job, 0, len(names))
	for _, name := range names {
		job := newDocJob(name)
		ids = append(ids, job.ID)
		jobs = append(jobs, job)
	}
	store.Append(jobs...)
	return store, ids
}

func TestStoreMoveSingleElement(t *testing.T) {
	cases := []struct {
		name     string
		from, to int
		want     []int
		changed  bool
	}{
		{name: "forward", from: 0, to: 2, want: []int{1, 2, 0, 3}, changed: true},
		{name: "backward", from: 3, to: 1, want: []int{0, 3, 1, 2}, changed: true},
		{name: "same index", from: 1, to: 1, want: []int{0, 1, 2, 3}},
		{name: "source out of range", from: 7, to: 0, want: []int{0, 1, 2, 3}},
		{name: "target clamped", from: 0, to: 99, want: []int{1, 2, 3, 0}, changed: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, ids := seedStore(t, "a.txt", "b.txt", "c.txt", "d.txt")
			if got := store.Move(tc.from, tc.to); got != tc.changed {
				t.Fatalf("Move changed = %v, want %v", got, tc.changed)
			}
			got := store.IDs()
			for i, idx := range tc.want {
				if got[i] != ids[idx] {
					t.Fatalf("position %d = %s, want %s", i, got[i], ids[idx])
				}
			}
		})
	}
}

func TestStoreSelectionInvariants(t *testing.T) {
	store, ids := seedStore(t, "a.txt", "b.txt")
	if !store.Select(ids[1]) {
		t.Fatal("expected selection to succeed")
	}
	if store.Selected() != ids[1] {
		t.Fatalf("selected = %q", store.Selected())
	}
	if store.Select("missing") {
		t.Fatal("selecting an absent id should fail")
	}
	if store.Selected() != "" {
		t.Fatalf("selection should be cleared, got %q", store.Selected())
	}
	store.Select(ids[0])
	removed := store.Clear()
	if len(removed) != 2 {
		t.Fatalf("expected 2 removed jobs, got %d", len(removed))
	}
	if store.Len() != 0 || store.Selected() != "" {
		t.Fatalf("clear should empty jobs and selection")
	}
}

func TestStoreUpdateIsolation(t *testing.T) {
	store, ids := seedStore(t, "a.txt")

	snap, ok := store.Get(ids[0])
	if !ok {
		t.Fatal("expected job")
	}
	snap.Status = queue.StatusCompleted
	if current, _ := store.Get(ids[0]); current.Status != queue.StatusPending {
		t.Fatalf("mutating a clone leaked into the store: %s", current.Status)
	}

	boom := errors.New("boom")
	if _, err := store.Update(ids[0], func(j *queue.Job) error {
		j.Status = queue.StatusError
		return boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if current, _ := store.Get(ids[0]); current.Status != queue.StatusPending {
		t.Fatalf("failed update must not install changes, got %s", current.Status)
	}

	if _, err := store.Update("missing", func(*queue.Job) error { return nil }); !errors.Is(err, queue.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestStoreConcurrentUpdatesKeepOrder(t *testing.T) {
	store, ids := seedStore(t, "a.txt", "b.txt", "c.txt")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := ids[i%len(ids)]
			_, _ = store.Update(id, func(j *queue.Job) error {
				j.Progress++
				return nil
			})
		}(i)
	}
	wg.Wait()
	total := 0
	for i, job := range store.Snapshot() {
		if job.ID != ids[i] {
			t.Fatalf("order changed at %d", i)
		}
		total += job.Progress
	}
	if total != 50 {
		t.Fatalf("expected 50 applied updates, got %d", total)
	}
}

func TestParseKind(t *testing.T) {
	kind, err := queue.ParseKind(" Image-Resize ")
	if err != nil || kind != queue.KindImageResize {
		t.Fatalf("ParseKind = %q, %v", kind, err)
	}
	if _, err := queue.ParseKind("compress"); !errors.Is(err, queue.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	if queue.KindDocumentCompress.Category() != media.CategoryDocument {
		t.Fatal("document-compress should hold documents")
	}
	if !queue.KindImageCompress.ReducesSize() || queue.KindImageConvert.ReducesSize() {
		t.Fatal("unexpected ReducesSize")
	}
}
