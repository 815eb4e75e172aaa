package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerRemaining(t *testing.T) {
	clock := newFakeClock()
	tm := NewTimer(clock.Now(), ExamTimeLimit, clock.Now)

	assert.Equal(t, ExamTimeLimit, tm.Remaining())
	assert.False(t, tm.IsExpired())

	clock.Advance(110 * time.Minute)
	assert.Equal(t, 10*time.Minute, tm.Remaining())
	assert.Equal(t, LevelWarning, tm.Level())

	clock.Advance(5 * time.Minute)
	assert.Equal(t, LevelCritical, tm.Level())

	clock.Advance(time.Hour)
	assert.Equal(t, time.Duration(0), tm.Remaining())
	assert.True(t, tm.IsExpired())
	assert.Equal(t, 175*time.Minute, tm.Elapsed())
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, LevelNormal, LevelFor(11*time.Minute))
	assert.Equal(t, LevelWarning, LevelFor(10*time.Minute))
	assert.Equal(t, LevelWarning, LevelFor(5*time.Minute+time.Second))
	assert.Equal(t, LevelCritical, LevelFor(5*time.Minute))
	assert.Equal(t, LevelCritical, LevelFor(0))
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "02:00:00", FormatClock(ExamTimeLimit))
	assert.Equal(t, "00:09:59", FormatClock(9*time.Minute+59*time.Second+900*time.Millisecond))
	assert.Equal(t, "00:00:00", FormatClock(-time.Second))
	assert.Equal(t, "01:01:01", FormatClock(time.Hour+time.Minute+time.Second))
}
