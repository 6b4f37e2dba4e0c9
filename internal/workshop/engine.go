package workshop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"fileconverser/internal/blobstore"
	"fileconverser/internal/codec"
	"fileconverser/internal/config"
	"fileconverser/internal/events"
	"fileconverser/internal/intake"
	"fileconverser/internal/logging"
	"fileconverser/internal/queue"
	"fileconverser/internal/reorder"
	"fileconverser/internal/services"
	"fileconverser/internal/workflow"
)

// EventCapacity bounds the change feed.
const EventCapacity = 1024

// Codec is everything the engine needs from the codec adapter.
type Codec interface {
	workflow.Codec
	intake.Prober
}

// Option customises an Engine.
type Option func(*Engine)

// WithCodec replaces the codec built from configuration.
func WithCodec(c Codec) Option {
	return func(e *Engine) {
		e.codec = c
	}
}

// Engine is the in-process job engine.
type Engine struct {
	cfg     *config.Config
	logger  *slog.Logger
	stores  map[queue.Kind]*queue.Store
	blobs   *blobstore.Registry
	bus     *events.Bus
	codec   Codec
	runner  *workflow.Runner
	router  *intake.Router
	screens map[queue.Kind]*reorder.Controller

	wg sync.WaitGroup
}

// New builds an engine from configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	e := &Engine{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "workshop"),
		stores: make(map[queue.Kind]*queue.Store, len(queue.Kinds())),
		blobs:  blobstore.NewRegistry(logger),
		bus:    events.NewBus(EventCapacity),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.codec == nil {
		edge := cfg.Preview.MaxEdge
		if !cfg.Preview.Enabled {
			edge = -1
		}
		e.codec = codec.New(codec.Options{
			StrictConversion: cfg.Documents.StrictConversion,
			PreviewEdge:      edge,
			Logger:           logger,
		})
	}
	for _, kind := range queue.Kinds() {
		e.stores[kind] = queue.NewStore(kind)
	}

	e.runner = workflow.NewRunner(e.stores, e.codec, e.blobs, e.bus, logger)
	e.router = intake.NewRouter(e.stores, e.codec, e.blobs, e.bus, intake.Options{
		Defaults:     cfg.JobDefaults(),
		MaxFileBytes: cfg.MaxFileBytes(),
		Previews:     cfg.Preview.Enabled,
	}, logger)
	e.screens = e.buildReorderControllers()
	return e
}

// buildReorderControllers creates one controller per screen. The two
// compress kinds share the compress screen's controller.
func (e *Engine) buildReorderControllers() map[queue.Kind]*reorder.Controller {
	single := func(kind queue.Kind) *reorder.Controller {
		return reorder.NewController(map[queue.Kind]reorder.Mover{kind: e.stores[kind]})
	}
	compress := reorder.NewController(map[queue.Kind]reorder.Mover{
		queue.KindDocumentCompress: e.stores[queue.KindDocumentCompress],
		queue.KindImageCompress:    e.stores[queue.KindImageCompress],
	})
	return map[queue.Kind]*reorder.Controller{
		queue.KindDocumentConvert:  single(queue.KindDocumentConvert),
		queue.KindImageConvert:     single(queue.KindImageConvert),
		queue.KindImageResize:      single(queue.KindImageResize),
		queue.KindDocumentCompress: compress,
		queue.KindImageCompress:    compress,
	}
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

func (e *Engine) store(kind queue.Kind) (*queue.Store, error) {
	store, ok := e.stores[kind]
	if !ok {
		return nil, services.Wrap(services.ErrNotFound, "workshop", "lookup queue", string(kind), queue.ErrUnknownKind)
	}
	return store, nil
}

// Ingest queues files dropped on the given destination.
func (e *Engine) Ingest(ctx context.Context, files []intake.File, dest intake.Destination) (intake.Result, error) {
	return e.router.Ingest(ctx, files, dest)
}

// QueueView is a consistent read of one store.
type QueueView struct {
	Kind         queue.Kind   `json:"kind"`
	Jobs         []*queue.Job `json:"jobs"`
	Selected     string       `json:"selected,omitempty"`
	BatchRunning bool         `json:"batch_running"`
}

// Queue returns a snapshot of a store.
func (e *Engine) Queue(kind queue.Kind) (QueueView, error) {
	store, err := e.store(kind)
	if err != nil {
		return QueueView{}, err
	}
	return QueueView{
		Kind:         kind,
		Jobs:         store.Snapshot(),
		Selected:     store.Selected(),
		BatchRunning: e.runner.BatchRunning(kind),
	}, nil
}

// Job returns a copy of one job.
func (e *Engine) Job(kind queue.Kind, id string) (*queue.Job, error) {
	store, err := e.store(kind)
	if err != nil {
		return nil, err
	}
	job, ok := store.Get(id)
	if !ok {
		return nil, services.Wrap(services.ErrNotFound, "workshop", "lookup job", id, queue.ErrJobNotFound)
	}
	return job, nil
}

// Select marks a job as the store's selection. An absent id clears it.
func (e *Engine) Select(kind queue.Kind, id string) (string, error) {
	store, err := e.store(kind)
	if err != nil {
		return "", err
	}
	store.Select(id)
	selected := store.Selected()
	e.bus.Publish(events.Event{Type: events.TypeSelection, Queue: string(kind), JobID: selected})
	return selected, nil
}

// Clear empties a store and releases every handle its jobs held. Runs still
// in flight for cleared jobs release their results when they finish.
func (e *Engine) Clear(kind queue.Kind) (int, error) {
	store, err := e.store(kind)
	if err != nil {
		return 0, err
	}
	removed := store.Clear()
	handles := make([]string, 0, 2*len(removed))
	ids := make([]string, 0, len(removed))
	for _, job := range removed {
		handles = append(handles, job.ResultHandle, job.PreviewHandle)
		ids = append(ids, job.ID)
	}
	released := e.blobs.Release(handles...)
	e.bus.Publish(events.Event{Type: events.TypeQueueCleared, Queue: string(kind), JobIDs: ids})
	e.logger.Info("queue cleared",
		logging.String(logging.FieldQueue, string(kind)),
		logging.String(logging.FieldEventType, "queue_cleared"),
		logging.Int("jobs", len(removed)),
		logging.Int("blobs_released", released))
	return len(removed), nil
}

// Blob returns a registered result or preview.
func (e *Engine) Blob(handle string) (blobstore.Blob, error) {
	blob, ok := e.blobs.Get(handle)
	if !ok {
		return blobstore.Blob{}, services.Wrap(services.ErrNotFound, "workshop", "lookup blob", handle, nil)
	}
	return blob, nil
}

// BlobStats reports the number and total size of live blobs.
func (e *Engine) BlobStats() (int, int64) {
	return e.blobs.Stats()
}

// Events returns change events after seq.
func (e *Engine) Events(seq int64) []events.Event {
	return e.bus.Since(seq)
}

// LastEventSeq reports the newest event sequence.
func (e *Engine) LastEventSeq() int64 {
	return e.bus.LastSeq()
}

// Wait blocks until every run started with StartRun or StartRunAll returns.
func (e *Engine) Wait() {
	e.wg.Wait()
}

func classify(component, operation string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, workflow.ErrJobProcessing), errors.Is(err, workflow.ErrBatchRunning):
		return services.Wrap(services.ErrConflict, component, operation, "", err)
	case errors.Is(err, workflow.ErrBatchUnsupported):
		return services.Wrap(services.ErrUnsupported, component, operation, "", err)
	case errors.Is(err, queue.ErrUnknownKind), errors.Is(err, queue.ErrJobNotFound):
		return services.Wrap(services.ErrNotFound, component, operation, "", err)
	case errors.Is(err, queue.ErrCategoryMismatch):
		return services.Wrap(services.ErrValidation, component, operation, "", err)
	default:
		return fmt.Errorf("%s: %w", operation, err)
	}
}
