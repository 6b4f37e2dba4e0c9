package intake

import (
	"context"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"sync"

	"fileconverser/internal/codec"
	"fileconverser/internal/events"
	"fileconverser/internal/logging"
	"fileconverser/internal/media"
	"fileconverser/internal/queue"
	"fileconverser/internal/textutil"
)

// File is one dropped file. An empty MediaType is derived from the name.
type File struct {
	Name      string
	MediaType string
	Data      []byte
}

// Skipped records a file that was not queued.
type Skipped struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Result describes what a drop produced.
type Result struct {
	Added    map[queue.Kind][]string `json:"added"`
	Navigate *Destination            `json:"navigate,omitempty"`
	Skipped  []Skipped               `json:"skipped,omitempty"`
}

// Prober measures and thumbnails sources.
type Prober interface {
	Probe(ctx context.Context, src codec.Input) (media.Dimensions, error)
	Preview(ctx context.Context, src codec.Input, category media.Category) ([]byte, error)
}

// BlobStore holds preview thumbnails.
type BlobStore interface {
	Put(data []byte, mediaType string) string
	Release(handles ...string) int
}

// Publisher receives queue change events.
type Publisher interface {
	Publish(event events.Event) events.Event
}

// Options tunes a Router.
type Options struct {
	Defaults     queue.Defaults
	MaxFileBytes int64
	Previews     bool
}

// Router routes dropped files into stores.
type Router struct {
	stores map[queue.Kind]*queue.Store
	prober Prober
	blobs  BlobStore
	events Publisher
	opts   Options
	logger *slog.Logger
}

// NewRouter constructs a Router. A nil publisher drops events.
func NewRouter(stores map[queue.Kind]*queue.Store, prober Prober, blobs BlobStore, publisher Publisher, opts Options, logger *slog.Logger) *Router {
	if publisher == nil {
		publisher = (*events.Bus)(nil)
	}
	return &Router{
		stores: stores,
		prober: prober,
		blobs:  blobs,
		events: publisher,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "intake"),
	}
}

type prepared struct {
	job  *queue.Job
	kind queue.Kind
	skip *Skipped
}

// Ingest classifies, probes, and queues files for the given destination.
// A cancelled context aborts before anything is appended and releases the
// previews already generated.
func (r *Router) Ingest(ctx context.Context, files []File, dest Destination) (Result, error) {
	result := Result{Added: make(map[queue.Kind][]string)}
	if len(files) == 0 {
		return result, nil
	}

	slots := make([]prepared, len(files))
	var wg sync.WaitGroup
	for i := range files {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			slots[i] = r.prepare(ctx, files[i], dest)
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		r.discard(slots)
		return Result{}, err
	}

	grouped := make(map[queue.Kind][]*queue.Job)
	for _, slot := range slots {
		if slot.skip != nil {
			result.Skipped = append(result.Skipped, *slot.skip)
			continue
		}
		grouped[slot.kind] = append(grouped[slot.kind], slot.job)
	}

	for _, kind := range queue.Kinds() {
		jobs := grouped[kind]
		if len(jobs) == 0 {
			continue
		}
		r.stores[kind].Append(jobs...)
		ids := make([]string, len(jobs))
		for i, job := range jobs {
			ids[i] = job.ID
		}
		result.Added[kind] = ids
		r.events.Publish(events.Event{Type: events.TypeJobsAdded, Queue: string(kind), JobIDs: ids})
	}

	if dest.autoNavigates() {
		for _, kind := range navigationOrder {
			if len(result.Added[kind]) > 0 {
				next := DestinationFor(kind)
				result.Navigate = &next
				break
			}
		}
	}

	r.logger.Info("files queued",
		logging.String(logging.FieldEventType, "intake_complete"),
		logging.String("screen", string(dest.Screen)),
		logging.Int("received", len(files)),
		logging.Int("skipped", len(result.Skipped)))
	return result, nil
}

func (r *Router) discard(slots []prepared) {
	if r.blobs == nil {
		return
	}
	handles := make([]string, 0, len(slots))
	for _, slot := range slots {
		if slot.job != nil && slot.job.PreviewHandle != "" {
			handles = append(handles, slot.job.PreviewHandle)
		}
	}
	if freed := r.blobs.Release(handles...); freed > 0 {
		r.logger.Debug("intake cancelled; previews released", logging.Int("count", freed))
	}
}

// genericMediaType is what uploaders send when they do not know the type.
const genericMediaType = "application/octet-stream"

func (r *Router) prepare(ctx context.Context, file File, dest Destination) prepared {
	name := textutil.NormalizeName(file.Name)
	if name == "" {
		name = "untitled"
	}
	if r.opts.MaxFileBytes > 0 && int64(len(file.Data)) > r.opts.MaxFileBytes {
		logging.WarnWithContext(r.logger, "file exceeds intake limit", "intake_skip",
			logging.String("file", name),
			logging.Int("bytes", len(file.Data)),
			logging.Int64("limit_bytes", r.opts.MaxFileBytes),
			logging.String(logging.FieldImpact, "file not queued"),
			logging.String(logging.FieldErrorHint, "raise intake.max_file_mb"))
		return prepared{skip: &Skipped{Name: name, Reason: "file exceeds " + media.FormatBytes(r.opts.MaxFileBytes) + " limit"}}
	}

	mediaType := strings.TrimSpace(file.MediaType)
	if mediaType == "" || strings.EqualFold(mediaType, genericMediaType) {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
			mediaType = byExt
		}
	}
	src := queue.Source{Name: name, MediaType: mediaType, Size: int64(len(file.Data)), Data: file.Data}
	in := codec.Input{Name: name, MediaType: mediaType, Data: file.Data}

	category := media.Classify(mediaType, name)
	var job *queue.Job
	if category == media.CategoryImage {
		dims, err := r.prober.Probe(ctx, in)
		if err != nil {
			logging.WarnWithContext(r.logger, "dimension probe failed", "probe_failed",
				logging.String("file", name),
				logging.String(logging.FieldImpact, "dimensions unknown; source size used"),
				logging.Error(err))
			dims = media.Dimensions{}
		}
		job = queue.NewImageJob(src, dims, r.opts.Defaults)
	} else {
		job = queue.NewDocumentJob(src, r.opts.Defaults)
	}
	job.PreviewHandle = r.preview(ctx, in, category, name)

	return prepared{job: job, kind: dest.kindFor(category)}
}

func (r *Router) preview(ctx context.Context, in codec.Input, category media.Category, name string) string {
	if !r.opts.Previews || r.blobs == nil {
		return ""
	}
	data, err := r.prober.Preview(ctx, in, category)
	if err != nil {
		logging.WarnWithContext(r.logger, "preview generation failed", "preview_failed",
			logging.String("file", name),
			logging.String(logging.FieldImpact, "job queued without preview"),
			logging.Error(err))
		return ""
	}
	if len(data) == 0 {
		return ""
	}
	return r.blobs.Put(data, media.MediaTypePNG)
}
