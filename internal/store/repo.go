package store

import (
	"context"
	"errors"
	"time"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/bank"
)

// ErrNotFound is returned when no bank matches the lookup.
var ErrNotFound = errors.New("bank not found")

// BankInfo summarizes a stored bank.
type BankInfo struct {
	Exam       string
	Title      string
	Topics     int
	Questions  int
	ImportedAt time.Time
}

// BankRepo manages imported question banks, keyed by exam code.
type BankRepo interface {
	// Save stores b, replacing any bank with the same exam code.
	Save(ctx context.Context, b *bank.Bank) error

	// Load returns the bank for exam, validated as on any other load path.
	Load(ctx context.Context, exam string) (*bank.Bank, error)

	// Latest returns the most recently imported bank.
	Latest(ctx context.Context) (*bank.Bank, error)

	// List returns a summary of all stored banks, newest first.
	List(ctx context.Context) ([]BankInfo, error)

	// Delete removes the bank for exam.
	Delete(ctx context.Context, exam string) error
}
