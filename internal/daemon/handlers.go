package daemon

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"fileconverser/internal/export"
	"fileconverser/internal/intake"
	"fileconverser/internal/logging"
	"fileconverser/internal/prefs"
	"fileconverser/internal/queue"
	"fileconverser/internal/services"
	"fileconverser/internal/textutil"
	"fileconverser/internal/workshop"
)

const multipartMemory = 32 << 20

type selectRequest struct {
	ID string `json:"id" validate:"max=64"`
}

type indexRequest struct {
	Index *int `json:"index" validate:"required,min=0"`
}

type onboardingRequest struct {
	Completed *bool `json:"completed" validate:"required"`
}

func pathKind(r *http.Request) (queue.Kind, error) {
	kind, err := queue.ParseKind(r.PathValue("kind"))
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, "api", "parse queue kind", r.PathValue("kind"), err)
	}
	return kind, nil
}

func (s *apiServer) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.daemon.Status())
}

func (s *apiServer) handleIntake(w http.ResponseWriter, r *http.Request) {
	dest, err := intake.ParseDestination(r.URL.Query().Get("screen"), r.URL.Query().Get("tab"))
	if err != nil {
		s.writeFailure(w, services.Wrap(services.ErrValidation, "api", "parse destination", "", err))
		return
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.writeFailure(w, services.Wrap(services.ErrValidation, "api", "parse upload", "", err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		s.writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}
	limit := s.daemon.cfg.MaxFileBytes()
	files := make([]intake.File, 0, len(headers))
	for _, header := range headers {
		data, err := readPart(header, limit)
		if err != nil {
			s.writeFailure(w, services.Wrap(services.ErrValidation, "api", "read upload", header.Filename, err))
			return
		}
		files = append(files, intake.File{
			Name:      header.Filename,
			MediaType: header.Header.Get("Content-Type"),
			Data:      data,
		})
	}

	result, err := s.daemon.engine.Ingest(r.Context(), files, dest)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// readPart reads at most limit+1 bytes so oversized parts are detected by the
// intake limit without buffering them whole.
func readPart(header *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var reader io.Reader = f
	if limit > 0 {
		reader = io.LimitReader(f, limit+1)
	}
	return io.ReadAll(reader)
}

func (s *apiServer) handleQueue(w http.ResponseWriter, r *http.Request) {
	kind, err := pathKind(r)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	view, err := s.daemon.engine.Queue(kind)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newQueueResponse(view))
}

func (s *apiServer) handleClear(w http.ResponseWriter, r *http.Request) {
	kind, err := pathKind(r)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	removed, err := s.daemon.engine.Clear(kind)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

func (s *apiServer) handleSelect(w http.ResponseWriter, r *http.Request) {
	kind, err := pathKind(r)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	var req selectRequest
	if err := s.decode(r, &req); err != nil {
		s.writeFailure(w, err)
		return
	}
	selected, err := s.daemon.engine.Select(kind, strings.TrimSpace(req.ID))
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"selected": selected})
}

func (s *apiServer) handleConfigure(w http.ResponseWriter, r *http.Request) {
	kind, err := pathKind(r)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	var patch workshop.Patch
	if err := s.decode(r, &patch); err != nil {
		s.writeFailure(w, err)
		return
	}
	job, err := s.daemon.engine.Configure(kind, r.PathValue("id"), patch)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newJobView(kind, job))
}

func (s *apiServer) handleRun(w http.ResponseWriter, r *http.Request) {
	kind, err := pathKind(r)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	id := r.PathValue("id")
	ctx := services.WithRequestID(r.Context(), requestID(r))
	if err := s.daemon.engine.StartRun(ctx, kind, id); err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]string{"id": id, "status": string(queue.StatusProcessing)})
}

func (s *apiServer) handleReset(w http.ResponseWriter, r *http.Request) {
	kind, err := pathKind(r)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	id := r.PathValue("id")
	if err := s.daemon.engine.Reset(kind, id); err != nil {
		s.writeFailure(w, err)
		return
	}
	job, err := s.daemon.engine.Job(kind, id)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newJobView(kind, job))
}

func (s *apiServer) handleRunAll(w http.ResponseWriter, r *http.Request) {
	kind, err := pathKind(r)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	ctx := services.WithRequestID(r.Context(), requestID(r))
	if err := s.daemon.engine.StartRunAll(ctx, kind); err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]string{"queue": string(kind), "status": "started"})
}

func (s *apiServer) handleDrag(w http.ResponseWriter, r *http.Request) {
	kind, err := pathKind(r)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	var req indexRequest
	if err := s.decode(r, &req); err != nil {
		s.writeFailure(w, err)
		return
	}
	if err := s.daemon.engine.BeginDrag(kind, *req.Index); err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"dragging": *req.Index})
}

func (s *apiServer) handleDrop(w http.ResponseWriter, r *http.Request) {
	kind, err := pathKind(r)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	var req indexRequest
	if err := s.decode(r, &req); err != nil {
		s.writeFailure(w, err)
		return
	}
	moved, err := s.daemon.engine.DropAt(kind, *req.Index)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"moved": moved})
}

func (s *apiServer) handleExport(w http.ResponseWriter, r *http.Request) {
	kind, err := pathKind(r)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	var buf bytes.Buffer
	names, err := s.daemon.engine.ExportZip(kind, &buf)
	if errors.Is(err, export.ErrNoEntries) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", attachment("fileconverser-"+string(kind)+".zip"))
	w.Header().Set("X-Entry-Count", strconv.Itoa(len(names)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Warn("export write failed", logging.Error(err))
	}
}

func (s *apiServer) handleBlob(w http.ResponseWriter, r *http.Request) {
	blob, err := s.daemon.engine.Blob(r.PathValue("handle"))
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	mediaType := blob.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", mediaType)
	w.Header().Set("Content-Length", strconv.FormatInt(blob.Size(), 10))
	if name := textutil.SanitizeFileName(r.URL.Query().Get("name")); name != "" {
		w.Header().Set("Content-Disposition", attachment(name))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(blob.Data); err != nil {
		s.logger.Warn("blob write failed", logging.Error(err))
	}
}

func (s *apiServer) handleEvents(w http.ResponseWriter, r *http.Request) {
	var since int64
	if raw := strings.TrimSpace(r.URL.Query().Get("since")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid since cursor")
			return
		}
		since = parsed
	}
	evts := s.daemon.engine.Events(since)
	next := since
	if len(evts) > 0 {
		next = evts[len(evts)-1].Seq
	}
	if name := strings.TrimSpace(r.URL.Query().Get("queue")); name != "" {
		kind, err := queue.ParseKind(name)
		if err != nil {
			s.writeFailure(w, services.Wrap(services.ErrNotFound, "api", "parse queue kind", name, err))
			return
		}
		filtered := evts[:0:0]
		for _, evt := range evts {
			if evt.Queue == string(kind) {
				filtered = append(filtered, evt)
			}
		}
		evts = filtered
	}
	s.writeJSON(w, http.StatusOK, eventsResponse{Events: evts, Next: next})
}

func (s *apiServer) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	if s.daemon.prefs == nil {
		s.writeError(w, http.StatusServiceUnavailable, "onboarding store unavailable")
		return
	}
	all, err := s.daemon.prefs.All(r.Context())
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	flags := make(map[string]bool, len(all))
	for flag, value := range all {
		flags[string(flag)] = value
	}
	s.writeJSON(w, http.StatusOK, onboardingResponse{Flags: flags})
}

func (s *apiServer) handleSetOnboarding(w http.ResponseWriter, r *http.Request) {
	if s.daemon.prefs == nil {
		s.writeError(w, http.StatusServiceUnavailable, "onboarding store unavailable")
		return
	}
	flag, err := prefs.ParseFlag(r.PathValue("flag"))
	if err != nil {
		s.writeFailure(w, services.Wrap(services.ErrNotFound, "api", "parse flag", "", err))
		return
	}
	var req onboardingRequest
	if err := s.decode(r, &req); err != nil {
		s.writeFailure(w, err)
		return
	}
	if err := s.daemon.prefs.Set(r.Context(), flag, *req.Completed); err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{string(flag): *req.Completed})
}

func attachment(name string) string {
	value := mime.FormatMediaType("attachment", map[string]string{"filename": name})
	if value == "" {
		return "attachment"
	}
	return value
}

func requestID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get("X-Request-ID")); id != "" {
		return id
	}
	return uuid.NewString()
}
