package usecase

import "sync"

// QuotaState is the process-wide sticky flag tripped by a quota-class
// error from a remote collaborator. Once tripped, every component sharing
// the state skips remote calls for the rest of the process lifetime.
// Reset exists for tests and explicit cache clears.
type QuotaState struct {
	mu      sync.Mutex
	tripped bool
}

// NewQuotaState creates an untripped quota state
func NewQuotaState() *QuotaState {
	return &QuotaState{}
}

// Exceeded reports whether the flag has been tripped
func (q *QuotaState) Exceeded() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.tripped
}

// Trip sets the flag
func (q *QuotaState) Trip() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tripped = true
}

// Reset clears the flag
func (q *QuotaState) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tripped = false
}
