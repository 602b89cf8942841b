package status

import (
	"sync"
	"time"
)

// State tracks the progress of the training job currently running in the
// extension. The host UI polls it for progress text and counters, and the
// isolation wrapper drives its lifecycle around every job.
//
// A State is an explicit handle passed to whoever needs it; there is no
// package-level singleton. Field access is mutex-guarded so a poll loop can
// read while a job mutates the fields, but only one job may run at a time.
type State struct {
	mu sync.RWMutex

	textInfo    string
	job         string
	jobNo       int
	jobCount    int
	skipped     bool
	interrupted bool

	inProgress bool
	startedAt  time.Time
}

// Snapshot is a point-in-time copy of a State, safe to serialize.
type Snapshot struct {
	TextInfo    string    `json:"textinfo"`
	Job         string    `json:"job"`
	JobNo       int       `json:"job_no"`
	JobCount    int       `json:"job_count"`
	Skipped     bool      `json:"skipped"`
	Interrupted bool      `json:"interrupted"`
	InProgress  bool      `json:"in_progress"`
	StartedAt   time.Time `json:"started_at,omitempty"`
}

// New creates an idle State.
func New() *State {
	return &State{}
}

// Begin marks the state busy. Called by the wrapper before job execution.
func (s *State) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inProgress = true
	s.startedAt = time.Now()
	s.textInfo = ""
	s.jobNo = 0
}

// End marks the state idle after a graceful completion. It clears the busy
// marker but deliberately leaves the job name and counter in place; Abort is
// the abrupt variant that clears them.
func (s *State) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inProgress = false
	s.startedAt = time.Time{}
}

// Abort records an abrupt termination: the job name is emptied and the job
// counter zeroed, distinguishing an aborted run from a completed one.
func (s *State) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inProgress = false
	s.startedAt = time.Time{}
	s.job = ""
	s.jobCount = 0
}

// ResetFlags restores the idle flag values: skipped and interrupted off,
// job count zero. The wrapper calls this after every invocation, on both
// the success and the failure path.
func (s *State) ResetFlags() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipped = false
	s.interrupted = false
	s.jobCount = 0
}

// SetJob names the current job and the number of steps it expects to run.
func (s *State) SetJob(name string, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.job = name
	s.jobCount = count
	s.jobNo = 0
}

// SetInfo updates the progress text shown to the host UI and advances the
// step counter when the job declared more steps than have completed.
func (s *State) SetInfo(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.textInfo = msg
	if s.jobCount > s.jobNo {
		s.jobNo++
	}
}

// Interrupt raises the cooperative interrupt flag. The running job is
// expected to check ShouldStop; nothing is enforced.
func (s *State) Interrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interrupted = true
}

// Skip raises the skip flag for the current step.
func (s *State) Skip() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipped = true
}

// ShouldStop reports whether an interrupt has been requested.
func (s *State) ShouldStop() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.interrupted
}

// ShouldSkip reports whether a skip has been requested.
func (s *State) ShouldSkip() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.skipped
}

// InProgress reports whether a job is currently running.
func (s *State) InProgress() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inProgress
}

// Snapshot returns a copy of all fields for pollers.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		TextInfo:    s.textInfo,
		Job:         s.job,
		JobNo:       s.jobNo,
		JobCount:    s.jobCount,
		Skipped:     s.skipped,
		Interrupted: s.interrupted,
		InProgress:  s.inProgress,
		StartedAt:   s.startedAt,
	}
}
