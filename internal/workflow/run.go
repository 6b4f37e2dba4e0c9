package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fileconverser/internal/codec"
	"fileconverser/internal/logging"
	"fileconverser/internal/queue"
	"fileconverser/internal/services"
)

// Run processes one job. Unknown ids are ignored. A job that is already
// processing is rejected with ErrJobProcessing. Codec failures are recorded
// on the job and do not produce an error.
func (r *Runner) Run(ctx context.Context, kind queue.Kind, id string) error {
	store, err := r.store(kind)
	if err != nil {
		return err
	}

	var superseded string
	job, err := store.Update(id, func(j *queue.Job) error {
		if j.IsProcessing() {
			return ErrJobProcessing
		}
		superseded = j.MarkProcessing(queue.ProgressStarted)
		return nil
	})
	if errors.Is(err, queue.ErrJobNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	r.blobs.Release(superseded)
	r.publishJob(kind, job)

	runCtx := r.runContext(ctx, kind, job.ID)
	logger := logging.WithContext(runCtx, r.logger)
	logger.Info("job started",
		logging.String(logging.FieldEventType, "job_start"),
		logging.String("source", job.Source.Name))

	start := time.Now()
	operation, out, runErr := r.invoke(runCtx, kind, job)
	r.commit(logger, store, kind, job.ID, operation, out, runErr, time.Since(start))
	return nil
}

// runContext detaches the caller's cancellation and tags the context for logging.
func (r *Runner) runContext(ctx context.Context, kind queue.Kind, jobID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	runCtx := context.WithoutCancel(ctx)
	runCtx = services.WithJobID(runCtx, jobID)
	runCtx = services.WithQueue(runCtx, string(kind))
	if _, ok := services.RequestIDFromContext(runCtx); !ok {
		runCtx = services.WithRequestID(runCtx, uuid.NewString())
	}
	return runCtx
}

// invoke calls the codec operation for the kind using the job's configuration
// as captured when the run started.
func (r *Runner) invoke(ctx context.Context, kind queue.Kind, job *queue.Job) (string, codec.Output, error) {
	src := sourceInput(job)
	switch kind {
	case queue.KindDocumentConvert:
		if !job.IsDocument() {
			return "convert-document", codec.Output{}, queue.ErrCategoryMismatch
		}
		out, err := r.codec.ConvertDocument(ctx, src, job.Document.TargetFormat)
		return "convert-document", out, err
	case queue.KindDocumentCompress:
		if !job.IsDocument() {
			return "compress-document", codec.Output{}, queue.ErrCategoryMismatch
		}
		out, err := r.codec.CompressDocument(ctx, src, job.Document.CompressionLevel, job.Document.CustomCompression)
		return "compress-document", out, err
	case queue.KindImageConvert, queue.KindImageResize:
		if !job.IsImage() {
			return "convert-image", codec.Output{}, queue.ErrCategoryMismatch
		}
		out, err := r.codec.ConvertImage(ctx, src, imageRequest(job.Image))
		return "convert-image", out, err
	case queue.KindImageCompress:
		if !job.IsImage() {
			return "compress-image", codec.Output{}, queue.ErrCategoryMismatch
		}
		s := job.Image.Settings
		out, err := r.codec.CompressImage(ctx, src, s.Quality, job.Image.TargetFormat, job.Image.CompressScale())
		return "compress-image", out, err
	default:
		return "", codec.Output{}, fmt.Errorf("%w: %q", queue.ErrUnknownKind, kind)
	}
}

func imageRequest(opts *queue.ImageOptions) codec.ImageRequest {
	return codec.ImageRequest{
		Format:  opts.TargetFormat,
		Width:   opts.Settings.Width,
		Height:  opts.Settings.Height,
		Quality: opts.Settings.Quality,
		Profile: opts.Settings.ColorProfile,
		DPI:     opts.Settings.DPI,
	}
}

// commit installs the outcome of a run. A job removed while the codec ran
// gets nothing written and the new blob is released.
func (r *Runner) commit(logger *slog.Logger, store *queue.Store, kind queue.Kind, id, operation string, out codec.Output, runErr error, elapsed time.Duration) {
	if runErr != nil {
		r.commitFailure(logger, store, kind, id, operation, runErr)
		return
	}

	handle := r.blobs.Put(out.Data, out.MediaType)
	var superseded string
	job, err := store.Update(id, func(j *queue.Job) error {
		superseded = j.MarkCompleted(queue.Result{
			Handle:    handle,
			MediaType: out.MediaType,
			Size:      int64(len(out.Data)),
			Width:     out.Width,
			Height:    out.Height,
		}, kind.ReducesSize())
		return nil
	})
	if err != nil {
		r.blobs.Release(handle)
		logger.Debug("job removed before result commit", logging.Error(err))
		return
	}
	r.blobs.Release(superseded)
	r.publishJob(kind, job)
	logger.Info("job completed",
		logging.String(logging.FieldEventType, "job_complete"),
		logging.String(logging.FieldOperation, operation),
		logging.String("result_media_type", out.MediaType),
		logging.Int("result_bytes", len(out.Data)),
		logging.Duration("duration", elapsed))
}

func (r *Runner) commitFailure(logger *slog.Logger, store *queue.Store, kind queue.Kind, id, operation string, runErr error) {
	wrapped := services.Wrap(services.ErrExternalTool, "codec", operation, "", runErr)
	message := services.FailureMessage(runErr)

	var superseded string
	job, err := store.Update(id, func(j *queue.Job) error {
		superseded = j.MarkFailed(message)
		return nil
	})
	if err != nil {
		logger.Debug("job removed before failure commit", logging.Error(err))
		return
	}
	r.blobs.Release(superseded)
	r.publishJob(kind, job)
	logging.ErrorWithContext(logger, "job failed", "job_failure",
		logging.String(logging.FieldOperation, operation),
		logging.String(logging.FieldErrorHint, failureHint(runErr)),
		logging.Error(wrapped))
}

func failureHint(err error) string {
	switch {
	case errors.Is(err, codec.ErrUnsupportedFormat):
		return "choose a different target format"
	case errors.Is(err, codec.ErrUnsupportedConversion):
		return "pick another target format or disable documents.strict_conversion"
	case errors.Is(err, codec.ErrDecode):
		return "the source file is damaged or not in the declared format"
	default:
		return "reset the job and run it again"
	}
}
