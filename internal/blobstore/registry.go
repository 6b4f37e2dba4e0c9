package blobstore

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"fileconverser/internal/logging"
)

// Blob is an immutable byte payload with its declared media type.
type Blob struct {
	Handle    string
	MediaType string
	Data      []byte
	CreatedAt time.Time
}

// Size reports the payload length.
func (b Blob) Size() int64 {
	return int64(len(b.Data))
}

// Registry issues and resolves blob handles.
type Registry struct {
	logger *slog.Logger

	mu    sync.RWMutex
	blobs map[string]Blob
	bytes int64
}

// NewRegistry returns an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger: logging.NewComponentLogger(logger, "blobstore"),
		blobs:  make(map[string]Blob),
	}
}

// Put stores data and returns its new handle. The registry takes ownership of
// data; callers must not modify it afterwards.
func (r *Registry) Put(data []byte, mediaType string) string {
	handle := uuid.NewString()
	blob := Blob{
		Handle:    handle,
		MediaType: strings.TrimSpace(mediaType),
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
	r.mu.Lock()
	r.blobs[handle] = blob
	r.bytes += blob.Size()
	r.mu.Unlock()
	return handle
}

// Get resolves a handle.
func (r *Registry) Get(handle string) (Blob, bool) {
	if handle == "" {
		return Blob{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	blob, ok := r.blobs[handle]
	return blob, ok
}

// Release drops the given handles. Empty and unknown handles are ignored. It
// returns how many blobs were freed.
func (r *Registry) Release(handles ...string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	freed := 0
	for _, handle := range handles {
		if handle == "" {
			continue
		}
		blob, ok := r.blobs[handle]
		if !ok {
			continue
		}
		delete(r.blobs, handle)
		r.bytes -= blob.Size()
		freed++
	}
	if freed > 0 {
		r.logger.Debug("released blobs",
			logging.Int("count", freed),
			logging.Int64("retained_bytes", r.bytes))
	}
	return freed
}

// Stats reports the number of live blobs and their combined size.
func (r *Registry) Stats() (count int, bytes int64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.blobs), r.bytes
}
