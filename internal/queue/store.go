package queue

import (
	"fmt"
	"sync"
)

// Store is the ordered job sequence of one queue kind plus its selection.
type Store struct {
	kind Kind

	mu       sync.RWMutex
	jobs     []*Job
	selected string
}

// NewStore returns an empty store for the kind.
func NewStore(kind Kind) *Store {
	return &Store{kind: kind}
}

// Kind reports the queue kind the store holds.
func (s *Store) Kind() Kind {
	return s.kind
}

// Len reports the number of jobs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// Append adds jobs at the end in one contiguous write.
func (s *Store) Append(jobs ...*Job) {
	if len(jobs) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]*Job, 0, len(s.jobs)+len(jobs))
	next = append(next, s.jobs...)
	for _, job := range jobs {
		if job != nil {
			next = append(next, job.Clone())
		}
	}
	s.jobs = next
}

// Snapshot returns clones of every job in order.
func (s *Store) Snapshot() []*Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Job, len(s.jobs))
	for i, job := range s.jobs {
		out[i] = job.Clone()
	}
	return out
}

// IDs returns the job ids in order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.jobs))
	for i, job := range s.jobs {
		out[i] = job.ID
	}
	return out
}

// Get returns a clone of the job with the id.
func (s *Store) Get(id string) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return nil, false
	}
	return s.jobs[idx].Clone(), true
}

// Update applies fn to a copy of the job and installs the copy when fn
// succeeds. The returned job is a clone of what was installed.
func (s *Store) Update(id string, fn func(*Job) error) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	cp := s.jobs[idx].Clone()
	if err := fn(cp); err != nil {
		return nil, err
	}
	next := make([]*Job, len(s.jobs))
	copy(next, s.jobs)
	next[idx] = cp
	s.jobs = next
	return cp.Clone(), nil
}

// Move removes the job at from and reinserts it at to, clamped to the last
// index. It reports whether the sequence changed.
func (s *Store) Move(from, to int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.jobs)
	if from < 0 || from >= n || from == to {
		return false
	}
	if to < 0 {
		to = 0
	}
	if to > n-1 {
		to = n - 1
	}
	if from == to {
		return false
	}
	moved := s.jobs[from]
	rest := make([]*Job, 0, n)
	rest = append(rest, s.jobs[:from]...)
	rest = append(rest, s.jobs[from+1:]...)
	next := make([]*Job, 0, n)
	next = append(next, rest[:to]...)
	next = append(next, moved)
	next = append(next, rest[to:]...)
	s.jobs = next
	return true
}

// Clear empties the store and the selection, returning the removed jobs.
func (s *Store) Clear() []*Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := s.jobs
	s.jobs = nil
	s.selected = ""
	return removed
}

// Select marks id as the selected job. Selecting an absent id, including the
// empty string, clears the selection. It reports whether a job is selected.
func (s *Store) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(id) < 0 {
		s.selected = ""
		return false
	}
	s.selected = id
	return true
}

// Selected returns the selected id, or "" when nothing is selected.
func (s *Store) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// SelectedJob returns a clone of the selected job.
func (s *Store) SelectedJob() (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == "" {
		return nil, false
	}
	idx := s.indexLocked(s.selected)
	if idx < 0 {
		return nil, false
	}
	return s.jobs[idx].Clone(), true
}

func (s *Store) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i, job := range s.jobs {
		if job.ID == id {
			return i
		}
	}
	return -1
}
