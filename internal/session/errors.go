package session

import (
	"errors"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/bank"
)

var (
	// ErrUnknownTopic is returned by the Selector for a topic ID absent from the bank.
	ErrUnknownTopic = errors.New("unknown topic")

	// ErrInvalidSelection is returned by Submit for an empty, out-of-range, or
	// (single-kind) multi-index selection. The session is left unchanged.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrInvalidState is returned when an operation does not apply to the
	// session's current state or mode.
	ErrInvalidState = errors.New("invalid session state")

	// ErrInvalidQuestionBank is re-exported so callers can match every
	// failure of a session's lifecycle against this package.
	ErrInvalidQuestionBank = bank.ErrInvalidQuestionBank
)
