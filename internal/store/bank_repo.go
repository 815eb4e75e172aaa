package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/bank"
)

// bankRepo implements BankRepo over database/sql.
type bankRepo struct {
	db *sql.DB
}

func (r *bankRepo) Save(ctx context.Context, b *bank.Bank) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM banks WHERE exam = ?", b.Exam()); err != nil {
		return fmt.Errorf("replace bank %q: %w", b.Exam(), err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO banks (exam, title, imported_at) VALUES (?, ?, ?)",
		b.Exam(), b.Title(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert bank %q: %w", b.Exam(), err)
	}

	for tpos, t := range b.Topics() {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO topics (exam, id, position, name, weight) VALUES (?, ?, ?, ?, ?)",
			b.Exam(), t.ID, tpos, t.Name, t.Weight)
		if err != nil {
			return fmt.Errorf("insert topic %q: %w", t.ID, err)
		}

		for qpos, q := range t.Questions {
			options, err := json.Marshal(q.Options)
			if err != nil {
				return fmt.Errorf("marshal options: %w", err)
			}
			answer, err := json.Marshal(q.Answer)
			if err != nil {
				return fmt.Errorf("marshal answer: %w", err)
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO questions (exam, topic_id, id, position, kind, prompt, options, answer, explanation)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				b.Exam(), t.ID, q.ID, qpos, string(q.Kind), q.Prompt, string(options), string(answer), q.Explanation)
			if err != nil {
				return fmt.Errorf("insert question %s/%d: %w", t.ID, q.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bank %q: %w", b.Exam(), err)
	}
	return nil
}

func (r *bankRepo) Load(ctx context.Context, exam string) (*bank.Bank, error) {
	var title string
	err := r.db.QueryRowContext(ctx, "SELECT title FROM banks WHERE exam = ?", exam).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, exam)
	}
	if err != nil {
		return nil, fmt.Errorf("query bank %q: %w", exam, err)
	}

	topics, err := r.loadTopics(ctx, exam)
	if err != nil {
		return nil, err
	}
	return bank.New(exam, title, topics)
}

func (r *bankRepo) loadTopics(ctx context.Context, exam string) ([]bank.Topic, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, weight FROM topics WHERE exam = ? ORDER BY position", exam)
	if err != nil {
		return nil, fmt.Errorf("query topics: %w", err)
	}
	defer rows.Close()

	var topics []bank.Topic
	index := make(map[string]int)
	for rows.Next() {
		var t bank.Topic
		if err := rows.Scan(&t.ID, &t.Name, &t.Weight); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		index[t.ID] = len(topics)
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate topics: %w", err)
	}

	qrows, err := r.db.QueryContext(ctx,
		`SELECT topic_id, id, kind, prompt, options, answer, explanation
		 FROM questions WHERE exam = ? ORDER BY topic_id, position`, exam)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer qrows.Close()

	for qrows.Next() {
		var (
			topicID, kind, options, answer string
			q                              bank.Question
		)
		if err := qrows.Scan(&topicID, &q.ID, &kind, &q.Prompt, &options, &answer, &q.Explanation); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.Kind = bank.Kind(kind)
		if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
			return nil, fmt.Errorf("decode options of %s/%d: %w", topicID, q.ID, err)
		}
		if err := json.Unmarshal([]byte(answer), &q.Answer); err != nil {
			return nil, fmt.Errorf("decode answer of %s/%d: %w", topicID, q.ID, err)
		}

		i, ok := index[topicID]
		if !ok {
			return nil, fmt.Errorf("question %d references missing topic %q", q.ID, topicID)
		}
		topics[i].Questions = append(topics[i].Questions, q)
	}
	if err := qrows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return topics, nil
}

func (r *bankRepo) Latest(ctx context.Context) (*bank.Bank, error) {
	var exam string
	err := r.db.QueryRowContext(ctx,
		"SELECT exam FROM banks ORDER BY rowid DESC LIMIT 1").Scan(&exam)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query latest bank: %w", err)
	}
	return r.Load(ctx, exam)
}

func (r *bankRepo) List(ctx context.Context) ([]BankInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT b.exam, b.title, b.imported_at,
		       (SELECT COUNT(*) FROM topics t WHERE t.exam = b.exam),
		       (SELECT COUNT(*) FROM questions q WHERE q.exam = b.exam)
		FROM banks b
		ORDER BY b.rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list banks: %w", err)
	}
	defer rows.Close()

	var out []BankInfo
	for rows.Next() {
		var info BankInfo
		if err := rows.Scan(&info.Exam, &info.Title, &info.ImportedAt, &info.Topics, &info.Questions); err != nil {
			return nil, fmt.Errorf("scan bank: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

func (r *bankRepo) Delete(ctx context.Context, exam string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM banks WHERE exam = ?", exam)
	if err != nil {
		return fmt.Errorf("delete bank %q: %w", exam, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, exam)
	}
	return nil
}
