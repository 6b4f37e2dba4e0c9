package workflow

import (
	"errors"

	"fileconverser/internal/queue"
)

// Reset returns a job to pending with progress 0 and drops its result so it
// can be reconfigured and run again. Unknown ids are ignored; processing jobs
// are rejected with ErrJobProcessing.
func (r *Runner) Reset(kind queue.Kind, id string) error {
	store, err := r.store(kind)
	if err != nil {
		return err
	}
	var released string
	job, err := store.Update(id, func(j *queue.Job) error {
		if j.IsProcessing() {
			return ErrJobProcessing
		}
		released = j.Reset()
		return nil
	})
	if errors.Is(err, queue.ErrJobNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	r.blobs.Release(released)
	r.publishJob(kind, job)
	return nil
}
