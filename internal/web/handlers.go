package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/session"
)

const maxBodyBytes = 1 << 16

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errSessionNotFound), errors.Is(err, errAnswerNotFound),
		errors.Is(err, session.ErrUnknownTopic):
		return http.StatusNotFound
	case errors.Is(err, session.ErrInvalidSelection):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		respondError(w, status, "internal error")
		return
	}
	respondError(w, status, err.Error())
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (s *Server) getBank(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, newBankView(s.selector.Bank(), int(s.budget().Minutes())))
}

func (s *Server) budget() time.Duration {
	if s.opts.Budget > 0 {
		return s.opts.Budget
	}
	return session.ExamTimeLimit
}

type createSessionRequest struct {
	Mode  string `json:"mode"`
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	mode := session.ParseMode(req.Mode)
	var items []session.Item
	switch mode {
	case session.ModePractice:
		if req.Topic == "" {
			respondError(w, http.StatusBadRequest, "practice sessions need a topic")
			return
		}
		var err error
		items, err = s.selector.SelectTopic(req.Topic)
		if err != nil {
			s.fail(w, r, err)
			return
		}
	case session.ModeExam:
		count := req.Count
		if count == 0 {
			count = session.FullExamLength
		}
		if count < 0 {
			respondError(w, http.StatusBadRequest, "count must be positive")
			return
		}
		items = s.selector.SelectExam(count)
	}

	engine := session.New(items, session.Options{
		Mode:   mode,
		Budget: s.opts.Budget,
		Clock:  s.opts.Clock,
	})
	s.sessions.Add(engine)
	s.logger.Info("session created",
		"session_id", engine.ID(),
		"mode", mode,
		"topic", req.Topic,
		"questions", engine.Len(),
	)
	respondJSON(w, http.StatusCreated, newSessionView(engine))
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	var view sessionView
	err := s.sessions.With(chi.URLParam(r, "id"), func(e *session.Session) error {
		e.Expire()
		view = newSessionView(e)
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

type answerRequest struct {
	Selection []int `json:"selection"`
}

func (s *Server) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var view snapshotView
	err := s.sessions.With(chi.URLParam(r, "id"), func(e *session.Session) error {
		if e.Expire() {
			view = snapshotView{
				Position: e.Len(),
				Total:    e.Len(),
				Score:    e.Score(),
				State:    e.State().String(),
				TimedOut: true,
			}
			return nil
		}
		snap, err := e.Submit(req.Selection)
		if err != nil {
			return err
		}
		view = snapshotView{
			Position: snap.Position,
			Total:    snap.Total,
			Score:    snap.Score,
			State:    snap.State.String(),
		}
		if e.Mode() == session.ModePractice {
			fb := newAnswerView(snap.Position-1, snap.Last)
			view.Feedback = &fb
		}
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) timeoutSession(w http.ResponseWriter, r *http.Request) {
	var view resultView
	err := s.sessions.With(chi.URLParam(r, "id"), func(e *session.Session) error {
		if err := e.Timeout(); err != nil {
			return err
		}
		res, err := e.Result()
		if err != nil {
			return err
		}
		view = newResultView(res, e.Answers())
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) getResult(w http.ResponseWriter, r *http.Request) {
	var view resultView
	err := s.sessions.With(chi.URLParam(r, "id"), func(e *session.Session) error {
		e.Expire()
		res, err := e.Result()
		if err != nil {
			return err
		}
		view = newResultView(res, e.Answers())
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) getReview(w http.ResponseWriter, r *http.Request) {
	views := []answerView{}
	err := s.sessions.With(chi.URLParam(r, "id"), func(e *session.Session) error {
		e.Expire()
		if e.State() != session.StateCompleted {
			return fmt.Errorf("%w: review is available once the session is complete", session.ErrInvalidState)
		}
		for i, a := range e.Answers() {
			views = append(views, newAnswerView(i, a))
		}
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.sessions.Remove(id) {
		s.fail(w, r, errSessionNotFound)
		return
	}
	s.logger.Info("session discarded", "session_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) explain(w http.ResponseWriter, r *http.Request) {
	if s.opts.Tutor == nil {
		respondError(w, http.StatusServiceUnavailable, "no tutor configured")
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "index must be an integer")
		return
	}

	var answer session.AnsweredQuestion
	err = s.sessions.With(chi.URLParam(r, "id"), func(e *session.Session) error {
		e.Expire()
		if e.State() != session.StateCompleted {
			return fmt.Errorf("%w: review is available once the session is complete", session.ErrInvalidState)
		}
		answers := e.Answers()
		if index < 0 || index >= len(answers) {
			return errAnswerNotFound
		}
		answer = answers[index]
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	// The tutor call runs outside the registry lock.
	ctx, cancel := context.WithTimeout(r.Context(), 25*time.Second)
	defer cancel()
	exp, err := s.opts.Tutor.Explain(ctx, answer)
	if err != nil {
		s.logger.Warn("tutor explain failed", "error", err)
		respondError(w, http.StatusBadGateway, "tutor is unavailable")
		return
	}
	respondJSON(w, http.StatusOK, exp)
}
