package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTrackerAt(start time.Time) (*FailedAttemptTracker, *time.Time) {
	now := start
	tracker := NewFailedAttemptTracker()
	tracker.now = func() time.Time { return now }
	return tracker, &now
}

func TestTrackerThreshold(t *testing.T) {
	tracker, _ := newTrackerAt(time.Now())

	assert.False(t, tracker.IsSuspicious("someone"))

	tracker.RecordFailure("someone")
	tracker.RecordFailure("someone")
	assert.False(t, tracker.IsSuspicious("someone"))

	tracker.RecordFailure("someone")
	assert.True(t, tracker.IsSuspicious("someone"))
}

func TestTrackerWindowExpiry(t *testing.T) {
	tracker, now := newTrackerAt(time.Now())

	tracker.RecordFailure("someone")
	tracker.RecordFailure("someone")
	tracker.RecordFailure("someone")
	assert.True(t, tracker.IsSuspicious("someone"))

	*now = now.Add(16 * time.Minute)
	assert.False(t, tracker.IsSuspicious("someone"))
}

func TestTrackerWindowSlides(t *testing.T) {
	tracker, now := newTrackerAt(time.Now())

	tracker.RecordFailure("someone")
	*now = now.Add(10 * time.Minute)
	tracker.RecordFailure("someone")
	tracker.RecordFailure("someone")
	assert.True(t, tracker.IsSuspicious("someone"))

	// The first failure ages out; two remain inside the window.
	*now = now.Add(6 * time.Minute)
	assert.False(t, tracker.IsSuspicious("someone"))
}

func TestTrackerClear(t *testing.T) {
	tracker, _ := newTrackerAt(time.Now())

	tracker.RecordFailure("someone")
	tracker.RecordFailure("someone")
	tracker.RecordFailure("someone")
	assert.True(t, tracker.IsSuspicious("someone"))

	tracker.Clear("someone")
	assert.False(t, tracker.IsSuspicious("someone"))
}

func TestTrackerCaseInsensitiveUsernames(t *testing.T) {
	tracker, _ := newTrackerAt(time.Now())

	tracker.RecordFailure("SomeOne")
	tracker.RecordFailure("someone")
	tracker.RecordFailure("SOMEONE")
	assert.True(t, tracker.IsSuspicious("someone"))
}

func TestTrackerIsolatesUsernames(t *testing.T) {
	tracker, _ := newTrackerAt(time.Now())

	tracker.RecordFailure("first_user")
	tracker.RecordFailure("first_user")
	tracker.RecordFailure("first_user")

	assert.True(t, tracker.IsSuspicious("first_user"))
	assert.False(t, tracker.IsSuspicious("other_user"))
}
