package auth

import (
	"strings"
	"sync"
	"time"
)

const (
	attemptWindow    = 15 * time.Minute
	attemptThreshold = 3
)

// FailedAttemptTracker counts recent failed login attempts per username. It
// is in-memory only; restarting the process clears all counters.
type FailedAttemptTracker struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	now      func() time.Time
}

// NewFailedAttemptTracker creates an empty tracker.
func NewFailedAttemptTracker() *FailedAttemptTracker {
	return &FailedAttemptTracker{
		attempts: make(map[string][]time.Time),
		now:      time.Now,
	}
}

// RecordFailure registers a failed attempt for the username.
func (t *FailedAttemptTracker) RecordFailure(username string) {
	key := strings.ToLower(username)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.attempts[key] = append(t.prune(key), t.now())
}

// IsSuspicious reports whether the username has accumulated enough failures
// inside the window to be flagged.
func (t *FailedAttemptTracker) IsSuspicious(username string) bool {
	key := strings.ToLower(username)

	t.mu.Lock()
	defer t.mu.Unlock()

	recent := t.prune(key)
	t.attempts[key] = recent

	return len(recent) >= attemptThreshold
}

// Clear drops all recorded failures for the username.
func (t *FailedAttemptTracker) Clear(username string) {
	key := strings.ToLower(username)

	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.attempts, key)
}

// prune must be called with the mutex held.
func (t *FailedAttemptTracker) prune(key string) []time.Time {
	cutoff := t.now().Add(-attemptWindow)

	var recent []time.Time
	for _, ts := range t.attempts[key] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	return recent
}
