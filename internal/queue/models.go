package queue

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"fileconverser/internal/media"
)

// Status represents the lifecycle of a queued job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Progress checkpoints reported by the runners.
const (
	ProgressStarted      = 50
	ProgressBatchStarted = 20
	ProgressDone         = 100
)

var allStatuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusCompleted,
	StatusError,
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	for _, s := range allStatuses {
		if s == normalized {
			return s, true
		}
	}
	return "", false
}

// Source is the immutable user-supplied file behind a job. Data is shared
// between clones and must never be written to.
type Source struct {
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
	Size      int64  `json:"size"`
	Data      []byte `json:"-"`
}

// Result describes the output of a successful run.
type Result struct {
	Handle    string
	MediaType string
	Size      int64
	Width     int
	Height    int
}

// Job is one queued file and its per-file configuration.
type Job struct {
	ID              string           `json:"id"`
	Category        media.Category   `json:"category"`
	Source          Source           `json:"source"`
	Status          Status           `json:"status"`
	Progress        int              `json:"progress"`
	ResultHandle    string           `json:"result_handle,omitempty"`
	ResultMediaType string           `json:"result_media_type,omitempty"`
	ResultSize      int64            `json:"result_size,omitempty"`
	ResultWidth     int              `json:"result_width,omitempty"`
	ResultHeight    int              `json:"result_height,omitempty"`
	PreviewHandle   string           `json:"preview_handle,omitempty"`
	ErrorMessage    string           `json:"error_message,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Image           *ImageOptions    `json:"image,omitempty"`
	Document        *DocumentOptions `json:"document,omitempty"`
}

// NewImageJob builds a pending image job. Unknown dimensions are passed as
// the zero value and leave the target size at "use source size".
func NewImageJob(src Source, original media.Dimensions, defaults Defaults) *Job {
	job := newJob(media.CategoryImage, src)
	job.Image = newImageOptions(original, defaults)
	return job
}

// NewDocumentJob builds a pending document job.
func NewDocumentJob(src Source, defaults Defaults) *Job {
	job := newJob(media.CategoryDocument, src)
	job.Document = newDocumentOptions(defaults)
	return job
}

func newJob(category media.Category, src Source) *Job {
	now := time.Now().UTC()
	if src.Size == 0 && len(src.Data) > 0 {
		src.Size = int64(len(src.Data))
	}
	return &Job{
		ID:        uuid.NewString(),
		Category:  category,
		Source:    src,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy of the job. Source bytes are shared.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	cp := *j
	if j.Image != nil {
		img := *j.Image
		cp.Image = &img
	}
	if j.Document != nil {
		doc := *j.Document
		cp.Document = &doc
	}
	return &cp
}

// IsProcessing reports whether a run is in flight for the job.
func (j *Job) IsProcessing() bool {
	return j != nil && j.Status == StatusProcessing
}

// IsImage reports whether the job carries the image extension.
func (j *Job) IsImage() bool {
	return j != nil && j.Category == media.CategoryImage && j.Image != nil
}

// IsDocument reports whether the job carries the document extension.
func (j *Job) IsDocument() bool {
	return j != nil && j.Category != media.CategoryImage && j.Document != nil
}

// MarkProcessing starts a run at the given progress checkpoint and clears the
// previous failure message and result. The replaced result handle is returned
// for release.
func (j *Job) MarkProcessing(progress int) string {
	previous := j.ResultHandle
	j.Status = StatusProcessing
	j.Progress = progress
	j.ErrorMessage = ""
	j.clearResult()
	j.touch()
	return previous
}

// MarkCompleted records a successful run and returns the handle it replaced.
func (j *Job) MarkCompleted(res Result, reportSize bool) string {
	previous := j.ResultHandle
	j.Status = StatusCompleted
	j.Progress = ProgressDone
	j.ResultHandle = res.Handle
	j.ResultMediaType = res.MediaType
	j.ResultWidth = res.Width
	j.ResultHeight = res.Height
	if reportSize {
		j.ResultSize = res.Size
	} else {
		j.ResultSize = 0
	}
	j.ErrorMessage = ""
	j.touch()
	return previous
}

// MarkFailed records a failed run. Progress keeps the last checkpoint and the
// previous result handle is returned for release.
func (j *Job) MarkFailed(message string) string {
	previous := j.ResultHandle
	j.Status = StatusError
	j.ErrorMessage = message
	j.clearResult()
	j.touch()
	return previous
}

// Reset returns the job to pending and hands back the released result handle.
func (j *Job) Reset() string {
	previous := j.ResultHandle
	j.Status = StatusPending
	j.Progress = 0
	j.ErrorMessage = ""
	j.clearResult()
	j.touch()
	return previous
}

func (j *Job) clearResult() {
	j.ResultHandle = ""
	j.ResultMediaType = ""
	j.ResultSize = 0
	j.ResultWidth = 0
	j.ResultHeight = 0
}

func (j *Job) touch() {
	j.UpdatedAt = time.Now().UTC()
}

// DownloadName returns the output file name for the job's latest result on
// the given queue kind. Image results are named after the format actually
// produced, which for batch runs can differ from the job's own target.
func (j *Job) DownloadName(kind Kind) string {
	prefix := kind.DownloadPrefix()
	switch {
	case j.IsImage():
		format := j.Image.TargetFormat
		if produced, ok := media.ImageFormatForMediaType(j.ResultMediaType); ok {
			format = produced
		}
		return media.DownloadNameWithPrefix(j.Source.Name, string(format), prefix)
	case kind == KindDocumentCompress:
		ext := media.Extension(j.Source.Name)
		if ext == "" {
			ext = strings.ToLower(string(media.DocumentPDF))
		}
		return media.DownloadNameWithPrefix(j.Source.Name, ext, prefix)
	case j.IsDocument():
		return media.DownloadNameWithPrefix(j.Source.Name, string(j.Document.TargetFormat), prefix)
	default:
		return media.DownloadNameWithPrefix(j.Source.Name, media.Extension(j.Source.Name), prefix)
	}
}
