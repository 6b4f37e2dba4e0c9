package workshop

import (
	"io"

	"fileconverser/internal/export"
	"fileconverser/internal/queue"
)

// Result pairs a completed job with its output.
type Result struct {
	Job  *queue.Job
	Name string
	Data []byte
}

// Results returns the outputs of the kind's completed jobs in queue order.
func (e *Engine) Results(kind queue.Kind) ([]Result, error) {
	store, err := e.store(kind)
	if err != nil {
		return nil, err
	}
	var out []Result
	for _, job := range store.Snapshot() {
		if job.Status != queue.StatusCompleted || job.ResultHandle == "" {
			continue
		}
		blob, ok := e.blobs.Get(job.ResultHandle)
		if !ok {
			continue
		}
		out = append(out, Result{Job: job, Name: job.DownloadName(kind), Data: blob.Data})
	}
	return out, nil
}

// ExportZip writes the kind's completed results as a ZIP archive and
// returns the entry names.
func (e *Engine) ExportZip(kind queue.Kind, w io.Writer) ([]string, error) {
	results, err := e.Results(kind)
	if err != nil {
		return nil, err
	}
	entries := make([]export.Entry, 0, len(results))
	for _, r := range results {
		entries = append(entries, export.Entry{Name: r.Name, Data: r.Data, Modified: r.Job.UpdatedAt})
	}
	return export.WriteZip(w, entries)
}
