package daemon

import (
	"fileconverser/internal/events"
	"fileconverser/internal/media"
	"fileconverser/internal/queue"
	"fileconverser/internal/workshop"
)

// jobView is the API rendering of a job with derived presentation fields.
type jobView struct {
	*queue.Job
	DownloadName     string `json:"download_name,omitempty"`
	SourceSize       string `json:"source_size"`
	ResultSizeHuman  string `json:"result_size_human,omitempty"`
	ReductionPercent *int   `json:"reduction_percent,omitempty"`
}

func newJobView(kind queue.Kind, job *queue.Job) jobView {
	view := jobView{Job: job, SourceSize: humanBytes(job.Source.Size)}
	if job.Status == queue.StatusCompleted {
		view.DownloadName = job.DownloadName(kind)
	}
	if job.ResultSize > 0 {
		view.ResultSizeHuman = humanBytes(job.ResultSize)
		pct := media.ReductionPercent(job.Source.Size, job.ResultSize)
		view.ReductionPercent = &pct
	}
	return view
}

type queueResponse struct {
	Kind         queue.Kind `json:"kind"`
	Jobs         []jobView  `json:"jobs"`
	Selected     string     `json:"selected,omitempty"`
	BatchRunning bool       `json:"batch_running"`
}

func newQueueResponse(view workshop.QueueView) queueResponse {
	jobs := make([]jobView, 0, len(view.Jobs))
	for _, job := range view.Jobs {
		jobs = append(jobs, newJobView(view.Kind, job))
	}
	return queueResponse{Kind: view.Kind, Jobs: jobs, Selected: view.Selected, BatchRunning: view.BatchRunning}
}

type eventsResponse struct {
	Events []events.Event `json:"events"`
	Next   int64          `json:"next"`
}

type onboardingResponse struct {
	Flags map[string]bool `json:"flags"`
}

func humanBytes(size int64) string {
	return media.FormatBytes(size)
}
