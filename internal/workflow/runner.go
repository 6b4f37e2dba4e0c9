package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"fileconverser/internal/codec"
	"fileconverser/internal/events"
	"fileconverser/internal/logging"
	"fileconverser/internal/media"
	"fileconverser/internal/queue"
)

var (
	// ErrJobProcessing rejects a run or reset on a job that is mid-run.
	ErrJobProcessing = errors.New("job is already processing")
	// ErrBatchRunning rejects a second batch on a store whose batch is active.
	ErrBatchRunning = errors.New("batch already running")
	// ErrBatchUnsupported is returned by RunAll for stores without a batch mode.
	ErrBatchUnsupported = errors.New("batch runs are only available for the resize queue")
)

// Codec is the set of transformations the runner drives.
type Codec interface {
	ConvertImage(ctx context.Context, src codec.Input, req codec.ImageRequest) (codec.Output, error)
	CompressImage(ctx context.Context, src codec.Input, quality float64, format media.ImageFormat, scale float64) (codec.Output, error)
	ConvertDocument(ctx context.Context, src codec.Input, target media.DocumentFormat) (codec.Output, error)
	CompressDocument(ctx context.Context, src codec.Input, level media.CompressionLevel, custom float64) (codec.Output, error)
}

// BlobStore holds run results behind handles.
type BlobStore interface {
	Put(data []byte, mediaType string) string
	Release(handles ...string) int
}

// Publisher receives queue change events.
type Publisher interface {
	Publish(event events.Event) events.Event
}

// Runner executes jobs for a fixed set of stores.
type Runner struct {
	stores  map[queue.Kind]*queue.Store
	batches map[queue.Kind]*atomic.Bool
	codec   Codec
	blobs   BlobStore
	events  Publisher
	logger  *slog.Logger
}

// NewRunner constructs a Runner. A nil publisher drops events.
func NewRunner(stores map[queue.Kind]*queue.Store, c Codec, blobs BlobStore, publisher Publisher, logger *slog.Logger) *Runner {
	batches := make(map[queue.Kind]*atomic.Bool, len(stores))
	for kind := range stores {
		batches[kind] = &atomic.Bool{}
	}
	if publisher == nil {
		publisher = (*events.Bus)(nil)
	}
	return &Runner{
		stores:  stores,
		batches: batches,
		codec:   c,
		blobs:   blobs,
		events:  publisher,
		logger:  logging.NewComponentLogger(logger, "job-runner"),
	}
}

// BatchRunning reports whether a batch is active on the kind's store.
func (r *Runner) BatchRunning(kind queue.Kind) bool {
	flag, ok := r.batches[kind]
	return ok && flag.Load()
}

func (r *Runner) store(kind queue.Kind) (*queue.Store, error) {
	store, ok := r.stores[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", queue.ErrUnknownKind, kind)
	}
	return store, nil
}

func (r *Runner) publishJob(kind queue.Kind, job *queue.Job) {
	if job == nil {
		return
	}
	r.events.Publish(events.Event{
		Type:     events.TypeJobUpdated,
		Queue:    string(kind),
		JobID:    job.ID,
		Status:   string(job.Status),
		Progress: job.Progress,
		Message:  job.ErrorMessage,
	})
}

func sourceInput(job *queue.Job) codec.Input {
	return codec.Input{Name: job.Source.Name, MediaType: job.Source.MediaType, Data: job.Source.Data}
}
