package intake_test

import (
	"context"
	"errors"
	"testing"

	"fileconverser/internal/blobstore"
	"fileconverser/internal/codec"
	"fileconverser/internal/events"
	"fileconverser/internal/intake"
	"fileconverser/internal/logging"
	"fileconverser/internal/media"
	"fileconverser/internal/queue"
	"fileconverser/internal/testsupport"
)

type fixture struct {
	stores map[queue.Kind]*queue.Store
	blobs  *blobstore.Registry
	bus    *events.Bus
	router *intake.Router
}

func newFixture(t *testing.T, opts intake.Options) *fixture {
	t.Helper()
	stores := make(map[queue.Kind]*queue.Store)
	for _, kind := range queue.Kinds() {
		stores[kind] = queue.NewStore(kind)
	}
	blobs := blobstore.NewRegistry(logging.NewNop())
	bus := events.NewBus(32)
	c := codec.New(codec.Options{PreviewEdge: 32, Logger: logging.NewNop()})
	if opts.Defaults == (queue.Defaults{}) {
		opts.Defaults = queue.DefaultDefaults()
	}
	return &fixture{
		stores: stores,
		blobs:  blobs,
		bus:    bus,
		router: intake.NewRouter(stores, c, blobs, bus, opts, logging.NewNop()),
	}
}

func TestIngestFromHomeRoutesAndNavigates(t *testing.T) {
	f := newFixture(t, intake.Options{Previews: true})
	files := []intake.File{
		{Name: "a.png", MediaType: "image/png", Data: testsupport.PNG(t, 40, 30)},
		{Name: "b.pdf", MediaType: "application/pdf", Data: []byte("%PDF-1.4")},
		{Name: "c.zip", MediaType: "application/zip", Data: []byte("PK")},
	}
	res, err := f.router.Ingest(context.Background(), files, intake.Destination{Screen: intake.ScreenHome})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if got := len(res.Added[queue.KindImageConvert]); got != 1 {
		t.Fatalf("image-convert additions = %d", got)
	}
	if got := len(res.Added[queue.KindDocumentConvert]); got != 2 {
		t.Fatalf("document-convert additions = %d (other files land with documents)", got)
	}
	if res.Navigate == nil || res.Navigate.Screen != intake.ScreenImages {
		t.Fatalf("expected navigation to images, got %+v", res.Navigate)
	}

	img := f.stores[queue.KindImageConvert].Snapshot()[0]
	if img.Image.Original != (media.Dimensions{Width: 40, Height: 30}) {
		t.Fatalf("unexpected original %+v", img.Image.Original)
	}
	if img.Image.Settings.Width != 40 || img.Image.Settings.Height != 30 {
		t.Fatalf("settings should default to original, got %+v", img.Image.Settings)
	}
	if img.PreviewHandle == "" {
		t.Fatal("expected a preview handle for the image")
	}
	docs := f.stores[queue.KindDocumentConvert].Snapshot()
	if docs[0].Source.Name != "b.pdf" || docs[1].Source.Name != "c.zip" {
		t.Fatalf("input order not preserved: %s, %s", docs[0].Source.Name, docs[1].Source.Name)
	}
	if docs[0].PreviewHandle != "" {
		t.Fatal("documents should not get previews")
	}
}

func TestIngestNavigationPriority(t *testing.T) {
	tests := []struct {
		name  string
		files []intake.File
		want  intake.Destination
	}{
		{
			name:  "documents only",
			files: []intake.File{{Name: "notes.txt", MediaType: "text/plain", Data: []byte("hi")}},
			want:  intake.Destination{Screen: intake.ScreenDocuments},
		},
		{
			name: "images win over documents",
			files: []intake.File{
				{Name: "notes.txt", MediaType: "text/plain", Data: []byte("hi")},
				{Name: "x.png", MediaType: "image/png", Data: []byte("not really")},
			},
			want: intake.Destination{Screen: intake.ScreenImages},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, intake.Options{})
			res, err := f.router.Ingest(context.Background(), tt.files, intake.Destination{Screen: intake.ScreenHelp})
			if err != nil {
				t.Fatalf("Ingest: %v", err)
			}
			if res.Navigate == nil || *res.Navigate != tt.want {
				t.Fatalf("navigate = %+v, want %+v", res.Navigate, tt.want)
			}
		})
	}
}

func TestIngestOnWorkspaceScreens(t *testing.T) {
	img := intake.File{Name: "x.png", MediaType: "image/png", Data: []byte("x")}
	doc := intake.File{Name: "y.docx", Data: []byte("y")}
	tests := []struct {
		name    string
		dest    intake.Destination
		imgKind queue.Kind
		docKind queue.Kind
	}{
		{"resize", intake.Destination{Screen: intake.ScreenResize}, queue.KindImageResize, queue.KindDocumentConvert},
		{"compress docs", intake.Destination{Screen: intake.ScreenCompress, CompressTab: intake.TabDocs}, queue.KindImageConvert, queue.KindDocumentCompress},
		{"compress images", intake.Destination{Screen: intake.ScreenCompress, CompressTab: intake.TabImages}, queue.KindImageCompress, queue.KindDocumentConvert},
		{"documents", intake.Destination{Screen: intake.ScreenDocuments}, queue.KindImageConvert, queue.KindDocumentConvert},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, intake.Options{})
			res, err := f.router.Ingest(context.Background(), []intake.File{img, doc}, tt.dest)
			if err != nil {
				t.Fatalf("Ingest: %v", err)
			}
			if len(res.Added[tt.imgKind]) != 1 || len(res.Added[tt.docKind]) != 1 {
				t.Fatalf("unexpected routing %+v", res.Added)
			}
			if res.Navigate != nil {
				t.Fatalf("workspace screens must not navigate, got %+v", res.Navigate)
			}
		})
	}
}

func TestIngestDegradesOnProbeFailure(t *testing.T) {
	f := newFixture(t, intake.Options{Previews: true})
	res, err := f.router.Ingest(context.Background(), []intake.File{{Name: "broken.png", MediaType: "image/png", Data: []byte("garbage")}}, intake.Destination{Screen: intake.ScreenImages})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if len(res.Added[queue.KindImageConvert]) != 1 {
		t.Fatal("broken image should still be queued")
	}
	job := f.stores[queue.KindImageConvert].Snapshot()[0]
	if job.Image.Original.Known() || job.Image.Settings.Width != 0 {
		t.Fatalf("expected unknown dimensions, got %+v", job.Image)
	}
	if job.PreviewHandle != "" {
		t.Fatal("expected no preview for undecodable image")
	}
}

func TestIngestDerivesMediaTypeAndNormalizesName(t *testing.T) {
	f := newFixture(t, intake.Options{})
	name := "Cafe\u0301.png"
	if _, err := f.router.Ingest(context.Background(), []intake.File{{Name: name, Data: testsupport.PNG(t, 2, 2)}}, intake.Destination{Screen: intake.ScreenImages}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	job := f.stores[queue.KindImageConvert].Snapshot()[0]
	if job.Source.Name != "Caf\u00e9.png" {
		t.Fatalf("name not NFC-normalised: %q", job.Source.Name)
	}
	if job.Source.MediaType != "image/png" {
		t.Fatalf("media type = %q", job.Source.MediaType)
	}
}

func TestIngestReplacesGenericMediaType(t *testing.T) {
	f := newFixture(t, intake.Options{})
	file := intake.File{Name: "shot.png", MediaType: "application/octet-stream", Data: testsupport.PNG(t, 2, 2)}
	res, err := f.router.Ingest(context.Background(), []intake.File{file}, intake.Destination{Screen: intake.ScreenHome})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if got := len(res.Added[queue.KindImageConvert]); got != 1 {
		t.Fatalf("image-convert additions = %d", got)
	}
}

func TestIngestSkipsOversizedFiles(t *testing.T) {
	f := newFixture(t, intake.Options{MaxFileBytes: 4})
	files := []intake.File{
		{Name: "big.txt", MediaType: "text/plain", Data: []byte("too large")},
		{Name: "ok.txt", MediaType: "text/plain", Data: []byte("ok")},
	}
	res, err := f.router.Ingest(context.Background(), files, intake.Destination{Screen: intake.ScreenDocuments})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Name != "big.txt" {
		t.Fatalf("unexpected skipped %+v", res.Skipped)
	}
	if f.stores[queue.KindDocumentConvert].Len() != 1 {
		t.Fatal("expected the small file to be queued")
	}
}

func TestIngestCancelledAppendsNothing(t *testing.T) {
	f := newFixture(t, intake.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.router.Ingest(ctx, []intake.File{{Name: "a.txt", MediaType: "text/plain", Data: []byte("a")}}, intake.Destination{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	for kind, store := range f.stores {
		if store.Len() != 0 {
			t.Fatalf("store %s received jobs", kind)
		}
	}
	if len(f.bus.Since(0)) != 0 {
		t.Fatal("no events expected")
	}
}

// cancellingProber produces a preview and then cancels the drop, as a client
// disconnecting mid-upload would.
type cancellingProber struct {
	cancel context.CancelFunc
}

func (p cancellingProber) Probe(ctx context.Context, src codec.Input) (media.Dimensions, error) {
	return media.Dimensions{Width: 4, Height: 4}, nil
}

func (p cancellingProber) Preview(ctx context.Context, src codec.Input, category media.Category) ([]byte, error) {
	p.cancel()
	return []byte("thumb"), nil
}

func TestIngestCancelledReleasesPreviews(t *testing.T) {
	f := newFixture(t, intake.Options{Previews: true})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	router := intake.NewRouter(f.stores, cancellingProber{cancel: cancel}, f.blobs, f.bus,
		intake.Options{Defaults: queue.DefaultDefaults(), Previews: true}, logging.NewNop())

	files := []intake.File{
		{Name: "a.png", MediaType: "image/png", Data: []byte("a")},
		{Name: "b.png", MediaType: "image/png", Data: []byte("b")},
	}
	_, err := router.Ingest(ctx, files, intake.Destination{Screen: intake.ScreenHome})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if n := f.stores[queue.KindImageConvert].Len(); n != 0 {
		t.Fatalf("expected no queued jobs, got %d", n)
	}
	if count, bytes := f.blobs.Stats(); count != 0 || bytes != 0 {
		t.Fatalf("previews leaked: %d blobs, %d bytes", count, bytes)
	}
}

func TestIngestAppendsContiguously(t *testing.T) {
	f := newFixture(t, intake.Options{})
	store := f.stores[queue.KindDocumentConvert]
	store.Append(queue.NewDocumentJob(queue.Source{Name: "existing.txt"}, queue.DefaultDefaults()))

	files := make([]intake.File, 10)
	for i := range files {
		files[i] = intake.File{Name: string(rune('a'+i)) + ".txt", MediaType: "text/plain", Data: []byte{byte(i)}}
	}
	res, err := f.router.Ingest(context.Background(), files, intake.Destination{Screen: intake.ScreenDocuments})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	ids := store.IDs()
	if len(ids) != 11 {
		t.Fatalf("expected 11 jobs, got %d", len(ids))
	}
	for i, id := range res.Added[queue.KindDocumentConvert] {
		if ids[i+1] != id {
			t.Fatalf("position %d: got %s want %s", i+1, ids[i+1], id)
		}
	}
	evts := f.bus.Since(0)
	if len(evts) != 1 || evts[0].Type != events.TypeJobsAdded || len(evts[0].JobIDs) != 10 {
		t.Fatalf("expected a single jobs_added event, got %+v", evts)
	}
}

func TestParseDestination(t *testing.T) {
	dest, err := intake.ParseDestination(" Compress ", "IMGS")
	if err != nil {
		t.Fatalf("ParseDestination: %v", err)
	}
	if dest.Screen != intake.ScreenCompress || dest.CompressTab != intake.TabImages {
		t.Fatalf("unexpected destination %+v", dest)
	}
	if _, err := intake.ParseDestination("settings", ""); err == nil {
		t.Fatal("expected error for unknown screen")
	}
	dest, err = intake.ParseDestination("", "")
	if err != nil || dest.Screen != intake.ScreenHome || dest.CompressTab != intake.TabDocs {
		t.Fatalf("unexpected defaults %+v, %v", dest, err)
	}
}
