package workflow

import (
	"context"
	"time"

	"fileconverser/internal/codec"
	"fileconverser/internal/events"
	"fileconverser/internal/logging"
	"fileconverser/internal/queue"
	"fileconverser/internal/services"
)

// RunAll resizes every job of the image-resize store using the selected job
// as the template for format, quality, colour profile and target box. Jobs
// are attempted sequentially in the order present when the batch starts;
// jobs removed meanwhile or already processing are skipped and jobs appended
// meanwhile are not included. Without a selection RunAll does nothing.
func (r *Runner) RunAll(ctx context.Context, kind queue.Kind) error {
	if kind != queue.KindImageResize {
		return ErrBatchUnsupported
	}
	store, err := r.store(kind)
	if err != nil {
		return err
	}
	template, ok := store.SelectedJob()
	if !ok || !template.IsImage() {
		return nil
	}
	flag := r.batches[kind]
	if !flag.CompareAndSwap(false, true) {
		return ErrBatchRunning
	}
	defer flag.Store(false)

	ids := store.IDs()
	batchCtx := services.WithQueue(context.WithoutCancel(ctx), string(kind))
	logger := logging.WithContext(batchCtx, r.logger)
	r.events.Publish(events.Event{Type: events.TypeBatchStarted, Queue: string(kind), JobID: template.ID, JobIDs: ids})
	logger.Info("batch started",
		logging.String(logging.FieldEventType, "batch_start"),
		logging.String("template_job", template.ID),
		logging.Int("jobs", len(ids)))

	attempted := 0
	for _, id := range ids {
		var superseded string
		job, err := store.Update(id, func(j *queue.Job) error {
			if j.IsProcessing() {
				return ErrJobProcessing
			}
			if !j.IsImage() {
				return queue.ErrCategoryMismatch
			}
			superseded = j.MarkProcessing(queue.ProgressBatchStarted)
			return nil
		})
		if err != nil {
			logger.Debug("batch skipped job", logging.String(logging.FieldJobID, id), logging.Error(err))
			continue
		}
		r.blobs.Release(superseded)
		attempted++
		r.publishJob(kind, job)

		runCtx := r.runContext(batchCtx, kind, job.ID)
		jobLogger := logging.WithContext(runCtx, r.logger)
		start := time.Now()
		out, runErr := r.codec.ConvertImage(runCtx, sourceInput(job), batchRequest(template.Image, job.Image))
		r.commit(jobLogger, store, kind, job.ID, "convert-image", out, runErr, time.Since(start))
	}

	r.events.Publish(events.Event{Type: events.TypeBatchFinished, Queue: string(kind), JobID: template.ID})
	logger.Info("batch finished",
		logging.String(logging.FieldEventType, "batch_complete"),
		logging.Int("attempted", attempted))
	return nil
}

// batchRequest derives the request for one batch member. The width always
// comes from the template; the height follows the member's own original ratio
// when its aspect lock is on and its original size is known.
func batchRequest(template, member *queue.ImageOptions) codec.ImageRequest {
	width := template.Settings.Width
	height := template.Settings.Height
	if member.Settings.MaintainAspectRatio && member.Original.Known() && width > 0 {
		height = queue.ScaleEdge(width, member.Original.Height, member.Original.Width)
	}
	return codec.ImageRequest{
		Format:  template.TargetFormat,
		Width:   width,
		Height:  height,
		Quality: template.Settings.Quality,
		Profile: template.Settings.ColorProfile,
		DPI:     template.Settings.DPI,
	}
}
