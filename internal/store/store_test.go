package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/bank"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.Banks()
	ctx := context.Background()

	orig, err := bank.Default()
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, orig))

	got, err := repo.Load(ctx, orig.Exam())
	require.NoError(t, err)
	assert.Equal(t, orig.Title(), got.Title())
	assert.Equal(t, orig.Topics(), got.Topics())
	assert.Equal(t, orig.Size(), got.Size())
}

func TestLoadMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Banks().Load(context.Background(), "AZ-900")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Banks().Latest(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func smallBank(t *testing.T, exam string, questions int) *bank.Bank {
	t.Helper()
	var qs []bank.Question
	for i := range questions {
		qs = append(qs, bank.Question{
			ID:      i + 1,
			Kind:    bank.KindMultiple,
			Prompt:  "Which apply?",
			Options: []string{"one", "two", "three"},
			Answer:  []int{0, 2},
		})
	}
	b, err := bank.New(exam, exam+" practice", []bank.Topic{
		{ID: "core", Name: "Core", Weight: "100%", Questions: qs},
	})
	require.NoError(t, err)
	return b
}

func TestSaveReplacesSameExam(t *testing.T) {
	s := openTestStore(t)
	repo := s.Banks()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, smallBank(t, "AZ-900", 3)))
	require.NoError(t, repo.Save(ctx, smallBank(t, "AZ-900", 2)))

	got, err := repo.Load(ctx, "AZ-900")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Size())

	infos, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, 1, infos[0].Topics)
	assert.Equal(t, 2, infos[0].Questions)
	assert.False(t, infos[0].ImportedAt.IsZero())
}

func TestLatestAndList(t *testing.T) {
	s := openTestStore(t)
	repo := s.Banks()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, smallBank(t, "AZ-900", 1)))
	require.NoError(t, repo.Save(ctx, smallBank(t, "AZ-104", 4)))

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AZ-104", latest.Exam())

	q := latest.Topics()[0].Questions[0]
	assert.Equal(t, bank.KindMultiple, q.Kind)
	assert.Equal(t, []int{0, 2}, q.Answer)

	infos, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "AZ-104", infos[0].Exam)
	assert.Equal(t, "AZ-900", infos[1].Exam)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	repo := s.Banks()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, smallBank(t, "AZ-900", 2)))
	require.NoError(t, repo.Delete(ctx, "AZ-900"))
	assert.ErrorIs(t, repo.Delete(ctx, "AZ-900"), ErrNotFound)

	var n int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM questions").Scan(&n))
	assert.Zero(t, n, "questions cascade with their bank")
}

func TestDefaultDBPathFromEnv(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "bank.db")
	t.Setenv("AZ104_DB", p)

	got, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.DirExists(t, filepath.Dir(p))
}

func TestDefaultDBPathXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AZ104_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "az104", "az104.db"), got)
}
