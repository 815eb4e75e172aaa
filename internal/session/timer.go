package session

import (
	"fmt"
	"time"
)

// Timer is a polled wall-clock countdown. It never schedules anything;
// shells check IsExpired at their own cadence.
type Timer struct {
	start  time.Time
	budget time.Duration
	now    func() time.Time
}

// NewTimer creates a Timer started at start. A nil now uses time.Now.
func NewTimer(start time.Time, budget time.Duration, now func() time.Time) *Timer {
	if now == nil {
		now = time.Now
	}
	return &Timer{start: start, budget: budget, now: now}
}

// Start returns the moment the countdown began.
func (t *Timer) Start() time.Time { return t.start }

// Budget returns the total countdown length.
func (t *Timer) Budget() time.Duration { return t.budget }

// Elapsed returns now - start.
func (t *Timer) Elapsed() time.Duration {
	return t.now().Sub(t.start)
}

// Remaining returns max(0, budget - elapsed).
func (t *Timer) Remaining() time.Duration {
	r := t.budget - t.Elapsed()
	if r < 0 {
		return 0
	}
	return r
}

// IsExpired reports whether no time remains.
func (t *Timer) IsExpired() bool {
	return t.Remaining() == 0
}

// Level classifies the remaining time for display.
func (t *Timer) Level() Level {
	return LevelFor(t.Remaining())
}

// Level is the urgency of the remaining exam time.
type Level int

const (
	LevelNormal   Level = iota
	LevelWarning        // 10 minutes or less
	LevelCritical       // 5 minutes or less
)

// LevelFor classifies a remaining duration.
func LevelFor(remaining time.Duration) Level {
	switch {
	case remaining <= 5*time.Minute:
		return LevelCritical
	case remaining <= 10*time.Minute:
		return LevelWarning
	default:
		return LevelNormal
	}
}

// FormatClock renders a duration as HH:MM:SS, truncating sub-second parts.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}
