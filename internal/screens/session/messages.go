package session

import "time"

// timerTickMsg is sent every second to refresh the countdown and apply
// the exam timeout.
type timerTickMsg time.Time

// sessionEndMsg is sent once the engine has completed.
type sessionEndMsg struct{}
