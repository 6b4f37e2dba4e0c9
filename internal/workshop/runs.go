package workshop

import (
	"context"
	"errors"

	"fileconverser/internal/logging"
	"fileconverser/internal/queue"
	"fileconverser/internal/workflow"
)

// Run processes one job and returns when it has finished.
func (e *Engine) Run(ctx context.Context, kind queue.Kind, id string) error {
	return classify("workshop", "run job", e.runner.Run(ctx, kind, id))
}

// StartRun validates that a run can start and then processes the job on its
// own goroutine. The run outlives ctx.
func (e *Engine) StartRun(ctx context.Context, kind queue.Kind, id string) error {
	store, err := e.store(kind)
	if err != nil {
		return err
	}
	job, ok := store.Get(id)
	if !ok {
		return classify("workshop", "run job", queue.ErrJobNotFound)
	}
	if job.IsProcessing() {
		return classify("workshop", "run job", workflow.ErrJobProcessing)
	}
	detached := context.WithoutCancel(ctx)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if err := e.runner.Run(detached, kind, id); err != nil && !errors.Is(err, workflow.ErrJobProcessing) {
			e.logger.Warn("background run rejected", logging.String(logging.FieldJobID, id), logging.Error(err))
		}
	}()
	return nil
}

// RunAll resizes every job of the resize store with the selected job as
// template and returns when the batch has finished.
func (e *Engine) RunAll(ctx context.Context, kind queue.Kind) error {
	return classify("workshop", "run batch", e.runner.RunAll(ctx, kind))
}

// StartRunAll starts a batch on its own goroutine.
func (e *Engine) StartRunAll(ctx context.Context, kind queue.Kind) error {
	if kind != queue.KindImageResize {
		return classify("workshop", "run batch", workflow.ErrBatchUnsupported)
	}
	if e.runner.BatchRunning(kind) {
		return classify("workshop", "run batch", workflow.ErrBatchRunning)
	}
	detached := context.WithoutCancel(ctx)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if err := e.runner.RunAll(detached, kind); err != nil && !errors.Is(err, workflow.ErrBatchRunning) {
			e.logger.Warn("background batch rejected", logging.String(logging.FieldQueue, string(kind)), logging.Error(err))
		}
	}()
	return nil
}

// Reset returns a finished job to pending so it can be reconfigured.
func (e *Engine) Reset(kind queue.Kind, id string) error {
	return classify("workshop", "reset job", e.runner.Reset(kind, id))
}

// BatchRunning reports whether a batch is active on the kind's store.
func (e *Engine) BatchRunning(kind queue.Kind) bool {
	return e.runner.BatchRunning(kind)
}
