package session

import "time"

// Mode selects practice (single topic, untimed) or exam (all topics, timed).
type Mode string

const (
	ModePractice Mode = "practice"
	ModeExam     Mode = "exam"
)

// ExamTimeLimit is the fixed countdown budget of an exam session.
const ExamTimeLimit = 120 * time.Minute

// PassThreshold is the minimum percentage needed to pass.
const PassThreshold = 70.0

// Standard exam lengths offered by the shells.
const (
	SimulatedExamLength = 40
	FullExamLength      = 60
)

// ParseMode converts a string into a Mode, defaulting to practice.
func ParseMode(s string) Mode {
	if Mode(s) == ModeExam {
		return ModeExam
	}
	return ModePractice
}
