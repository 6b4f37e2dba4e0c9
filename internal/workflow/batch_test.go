package workflow_test

import (
	"context"
	"errors"
	"testing"

	"fileconverser/internal/media"
	"fileconverser/internal/queue"
	"fileconverser/internal/testsupport"
	"fileconverser/internal/workflow"
)

func TestRunAllUsesTemplate(t *testing.T) {
	h := newHarness(t, testsupport.NewStubCodec())
	store := h.stores[queue.KindImageResize]
	template := imageJob("template.png", 1000, 500)
	template.Image.SetWidth(200)
	template.Image.SetTargetFormat(media.ImageWEBP)
	template.Image.SetQuality(0.5)
	square := imageJob("square.png", 300, 300)
	free := imageJob("free.png", 300, 300)
	free.Image.SetMaintainAspectRatio(false)
	store.Append(template, square, free)
	store.Select(template.ID)

	if err := h.runner.RunAll(context.Background(), queue.KindImageResize); err != nil {
		t.Fatalf("RunAll: %v", err)
	}
	reqs := h.codec.ImageRequests()
	if len(reqs) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(reqs))
	}
	for _, req := range reqs {
		if req.Format != media.ImageWEBP || req.Quality != 0.5 || req.Width != 200 {
			t.Fatalf("template not applied: %+v", req)
		}
	}
	if reqs[0].Height != 100 {
		t.Fatalf("template height = %d, want 100", reqs[0].Height)
	}
	if reqs[1].Height != 200 {
		t.Fatalf("locked member height = %d, want 200", reqs[1].Height)
	}
	if reqs[2].Height != 100 {
		t.Fatalf("unlocked member height = %d, want template height 100", reqs[2].Height)
	}

	got := mustGet(t, store, square.ID)
	if got.Image.TargetFormat != media.ImageJPG {
		t.Fatalf("member settings must not change, got %s", got.Image.TargetFormat)
	}
	if name := got.DownloadName(queue.KindImageResize); name != "resized-square.webp" {
		t.Fatalf("download name = %q", name)
	}
	if h.runner.BatchRunning(queue.KindImageResize) {
		t.Fatal("batch flag should be cleared")
	}
}

func TestRunAllContinuesPastFailures(t *testing.T) {
	h := newHarness(t, testsupport.NewStubCodec("b.png"))
	store := h.stores[queue.KindImageResize]
	a, b, c := imageJob("a.png", 10, 10), imageJob("b.png", 10, 10), imageJob("c.png", 10, 10)
	store.Append(a, b, c)
	store.Select(a.ID)

	if err := h.runner.RunAll(context.Background(), queue.KindImageResize); err != nil {
		t.Fatalf("RunAll: %v", err)
	}
	want := map[string]queue.Status{a.ID: queue.StatusCompleted, b.ID: queue.StatusError, c.ID: queue.StatusCompleted}
	for id, status := range want {
		if got := mustGet(t, store, id); got.Status != status {
			t.Fatalf("job %s: got %s want %s", id, got.Status, status)
		}
	}
	if got := mustGet(t, store, b.ID); got.Progress != queue.ProgressBatchStarted {
		t.Fatalf("failed batch job progress = %d", got.Progress)
	}
}

func TestRunAllWithoutSelectionDoesNothing(t *testing.T) {
	h := newHarness(t, testsupport.NewStubCodec())
	store := h.stores[queue.KindImageResize]
	store.Append(imageJob("a.png", 10, 10))

	if err := h.runner.RunAll(context.Background(), queue.KindImageResize); err != nil {
		t.Fatalf("RunAll: %v", err)
	}
	if calls := h.codec.Calls(); len(calls) != 0 {
		t.Fatalf("expected no codec calls, got %v", calls)
	}
}

func TestRunAllRejectsOtherQueues(t *testing.T) {
	h := newHarness(t, testsupport.NewStubCodec())
	err := h.runner.RunAll(context.Background(), queue.KindImageConvert)
	if !errors.Is(err, workflow.ErrBatchUnsupported) {
		t.Fatalf("expected ErrBatchUnsupported, got %v", err)
	}
}

func TestRunAllRejectsConcurrentBatch(t *testing.T) {
	stub := testsupport.NewStubCodec()
	stub.Gate = make(chan struct{})
	stub.Started = make(chan string, 4)
	h := newHarness(t, stub)
	store := h.stores[queue.KindImageResize]
	a, b := imageJob("a.png", 10, 10), imageJob("b.png", 10, 10)
	store.Append(a, b)
	store.Select(a.ID)

	done := make(chan error, 1)
	go func() { done <- h.runner.RunAll(context.Background(), queue.KindImageResize) }()
	<-stub.Started

	if !h.runner.BatchRunning(queue.KindImageResize) {
		t.Fatal("expected batch flag set")
	}
	if err := h.runner.RunAll(context.Background(), queue.KindImageResize); !errors.Is(err, workflow.ErrBatchRunning) {
		t.Fatalf("expected ErrBatchRunning, got %v", err)
	}
	late := imageJob("late.png", 10, 10)
	store.Append(late)
	close(stub.Gate)
	if err := <-done; err != nil {
		t.Fatalf("RunAll: %v", err)
	}
	if got := mustGet(t, store, late.ID); got.Status != queue.StatusPending {
		t.Fatalf("job appended mid-batch should be untouched, got %s", got.Status)
	}
}
