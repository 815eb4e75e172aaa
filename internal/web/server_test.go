package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/bank"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/llm"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/session"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/tutor"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func testBank(t *testing.T) *bank.Bank {
	t.Helper()
	b, err := bank.New("AZ-104", "Test bank", []bank.Topic{
		{
			ID: "storage", Name: "Storage", Weight: "15-20%",
			Questions: []bank.Question{
				{ID: 1, Kind: bank.KindSingle, Prompt: "Offline tier?", Options: []string{"Hot", "Archive", "Cool"}, Answer: []int{1}, Explanation: "Archive is offline."},
				{ID: 2, Kind: bank.KindMultiple, Prompt: "Redundancy across zones?", Options: []string{"LRS", "ZRS", "GZRS"}, Answer: []int{1, 2}},
			},
		},
		{
			ID: "compute", Name: "Compute", Weight: "20-25%",
			Questions: []bank.Question{
				{ID: 1, Kind: bank.KindSingle, Prompt: "Scale set?", Options: []string{"VMSS", "AKS"}, Answer: []int{0}},
			},
		},
	})
	require.NoError(t, err)
	return b
}

type testServer struct {
	t     *testing.T
	bank  *bank.Bank
	clock *fakeClock
	srv   *Server
	h     http.Handler
}

func newTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()
	b := testBank(t)
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	opts.Clock = clock.Now
	srv := New(session.NewSeededSelector(b, 7), opts)
	return &testServer{t: t, bank: b, clock: clock, srv: srv, h: srv.Handler()}
}

func (ts *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(ts.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// answerFor looks up the key of the question currently shown.
func (ts *testServer) answerFor(q *questionView) []int {
	ts.t.Helper()
	require.NotNil(ts.t, q)
	topic, ok := ts.bank.Topic(q.TopicID)
	require.True(ts.t, ok)
	for _, bq := range topic.Questions {
		if bq.ID == q.ID {
			return bq.Answer
		}
	}
	ts.t.Fatalf("question %d not in topic %s", q.ID, q.TopicID)
	return nil
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, Options{})
	rec := ts.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestGetBank(t *testing.T) {
	ts := newTestServer(t, Options{})
	rec := ts.do(http.MethodGet, "/api/bank", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	v := decode[bankView](t, rec)
	assert.Equal(t, "AZ-104", v.Exam)
	assert.Equal(t, 3, v.Size)
	require.Len(t, v.Topics, 2)
	assert.Equal(t, "storage", v.Topics[0].ID)
	assert.Equal(t, 2, v.Topics[0].Questions)
	assert.Equal(t, 120, v.ExamMinutes)
	assert.Equal(t, []int{40, 60}, v.ExamLengths)
}

func TestStaticIndex(t *testing.T) {
	ts := newTestServer(t, Options{})
	rec := ts.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "AZ-104")
}

func TestCreateSession_Errors(t *testing.T) {
	ts := newTestServer(t, Options{})

	tests := []struct {
		name string
		body any
		want int
	}{
		{"unknown topic", map[string]any{"mode": "practice", "topic": "nope"}, http.StatusNotFound},
		{"practice without topic", map[string]any{"mode": "practice"}, http.StatusBadRequest},
		{"negative count", map[string]any{"mode": "exam", "count": -1}, http.StatusBadRequest},
		{"unknown field", map[string]any{"mode": "exam", "minutes": 5}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(http.MethodPost, "/api/sessions", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestPracticeFlow(t *testing.T) {
	ts := newTestServer(t, Options{})

	rec := ts.do(http.MethodPost, "/api/sessions", map[string]any{"mode": "practice", "topic": "storage"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	view := decode[sessionView](t, rec)
	assert.Equal(t, session.ModePractice, view.Mode)
	assert.False(t, view.Timed)
	assert.Equal(t, 2, view.Total)
	assert.NotContains(t, rec.Body.String(), `"answer"`)
	assert.NotContains(t, rec.Body.String(), "answer_count")

	// Wrong answer first to check feedback.
	key := ts.answerFor(view.Question)
	wrong := []int{(key[0] + 2) % len(view.Question.Options)}
	if view.Question.Multiple {
		wrong = []int{0}
	}
	rec = ts.do(http.MethodPost, "/api/sessions/"+view.ID+"/answers", map[string]any{"selection": wrong})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	snap := decode[snapshotView](t, rec)
	require.NotNil(t, snap.Feedback)
	assert.False(t, snap.Feedback.Correct)
	assert.Equal(t, bank.Letters(key), snap.Feedback.CorrectLetters)
	assert.Equal(t, 1, snap.Position)

	rec = ts.do(http.MethodGet, "/api/sessions/"+view.ID, nil)
	view = decode[sessionView](t, rec)
	rec = ts.do(http.MethodPost, "/api/sessions/"+view.ID+"/answers", map[string]any{"selection": ts.answerFor(view.Question)})
	snap = decode[snapshotView](t, rec)
	require.NotNil(t, snap.Feedback)
	assert.True(t, snap.Feedback.Correct)
	assert.Equal(t, "completed", snap.State)

	rec = ts.do(http.MethodGet, "/api/sessions/"+view.ID+"/result", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[resultView](t, rec)
	assert.Equal(t, 1, res.Correct)
	assert.Equal(t, 2, res.Total)
	assert.InDelta(t, 50.0, res.Percentage, 0.001)
	assert.False(t, res.Passed)
	require.Len(t, res.ByTopic, 1)
	assert.Equal(t, "storage", res.ByTopic[0].TopicID)

	rec = ts.do(http.MethodGet, "/api/sessions/"+view.ID+"/review", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	review := decode[[]answerView](t, rec)
	require.Len(t, review, 2)
	assert.False(t, review[0].Correct)
	assert.True(t, review[1].Correct)
}

func TestSubmit_InvalidSelection(t *testing.T) {
	ts := newTestServer(t, Options{})
	view := decode[sessionView](t, ts.do(http.MethodPost, "/api/sessions", map[string]any{"mode": "practice", "topic": "compute"}))

	for _, sel := range [][]int{{}, {9}, {0, 1}} {
		rec := ts.do(http.MethodPost, "/api/sessions/"+view.ID+"/answers", map[string]any{"selection": sel})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "selection %v", sel)
	}

	after := decode[sessionView](t, ts.do(http.MethodGet, "/api/sessions/"+view.ID, nil))
	assert.Equal(t, 0, after.Answered, "rejected selections must not advance")
}

func TestExamFlow_NoFeedback(t *testing.T) {
	ts := newTestServer(t, Options{})
	rec := ts.do(http.MethodPost, "/api/sessions", map[string]any{"mode": "exam", "count": 2})
	require.Equal(t, http.StatusCreated, rec.Code)
	view := decode[sessionView](t, rec)
	assert.True(t, view.Timed)
	assert.Equal(t, 2, view.Total)
	assert.Equal(t, 7200, view.RemainingSeconds)
	assert.Equal(t, "02:00:00", view.Clock)
	assert.Equal(t, "normal", view.Urgency)

	snap := decode[snapshotView](t, ts.do(http.MethodPost, "/api/sessions/"+view.ID+"/answers",
		map[string]any{"selection": ts.answerFor(view.Question)}))
	assert.Nil(t, snap.Feedback)
	assert.Equal(t, 1, snap.Score)

	rec = ts.do(http.MethodGet, "/api/sessions/"+view.ID+"/result", nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "result is unavailable mid-session")
	rec = ts.do(http.MethodGet, "/api/sessions/"+view.ID+"/review", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestExamFlow_Expiry(t *testing.T) {
	ts := newTestServer(t, Options{Budget: 10 * time.Minute})
	view := decode[sessionView](t, ts.do(http.MethodPost, "/api/sessions", map[string]any{"mode": "exam"}))
	assert.Equal(t, 3, view.Total, "count larger than the pool yields the whole pool")

	ts.clock.Advance(6 * time.Minute)
	view = decode[sessionView](t, ts.do(http.MethodGet, "/api/sessions/"+view.ID, nil))
	assert.Equal(t, "critical", view.Urgency)
	assert.Equal(t, "in_progress", view.State)

	ts.clock.Advance(5 * time.Minute)
	rec := ts.do(http.MethodPost, "/api/sessions/"+view.ID+"/answers", map[string]any{"selection": []int{0}})
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decode[snapshotView](t, rec)
	assert.True(t, snap.TimedOut)
	assert.Equal(t, "completed", snap.State)

	res := decode[resultView](t, ts.do(http.MethodGet, "/api/sessions/"+view.ID+"/result", nil))
	assert.True(t, res.TimedOut)
	assert.Equal(t, 0, res.Correct)
	assert.Equal(t, 3, res.Unanswered)

	review := decode[[]answerView](t, ts.do(http.MethodGet, "/api/sessions/"+view.ID+"/review", nil))
	require.Len(t, review, 3)
	assert.Equal(t, "—", review[0].YourLetters)
	assert.Equal(t, []int{}, review[0].Selection)
}

func TestTimeout(t *testing.T) {
	ts := newTestServer(t, Options{})

	practice := decode[sessionView](t, ts.do(http.MethodPost, "/api/sessions", map[string]any{"mode": "practice", "topic": "storage"}))
	rec := ts.do(http.MethodPost, "/api/sessions/"+practice.ID+"/timeout", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	exam := decode[sessionView](t, ts.do(http.MethodPost, "/api/sessions", map[string]any{"mode": "exam", "count": 2}))
	rec = ts.do(http.MethodPost, "/api/sessions/"+exam.ID+"/timeout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[resultView](t, rec)
	assert.True(t, res.TimedOut)
	assert.Equal(t, 2, res.Unanswered)
}

func TestDeleteSession(t *testing.T) {
	ts := newTestServer(t, Options{})
	view := decode[sessionView](t, ts.do(http.MethodPost, "/api/sessions", map[string]any{"mode": "exam", "count": 1}))

	assert.Equal(t, http.StatusNoContent, ts.do(http.MethodDelete, "/api/sessions/"+view.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, "/api/sessions/"+view.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodDelete, "/api/sessions/"+view.ID, nil).Code)
}

func TestExplain(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"summary":"Archive is offline","mistake":"","remember":"Rehydrate first","docs_topic":"Blob access tiers"}`),
	})
	ts := newTestServer(t, Options{Tutor: tutor.NewService(mock, tutor.DefaultConfig())})

	view := decode[sessionView](t, ts.do(http.MethodPost, "/api/sessions", map[string]any{"mode": "practice", "topic": "compute"}))
	rec := ts.do(http.MethodPost, "/api/sessions/"+view.ID+"/review/0/explain", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	ts.do(http.MethodPost, "/api/sessions/"+view.ID+"/answers", map[string]any{"selection": []int{1}})

	rec = ts.do(http.MethodPost, "/api/sessions/"+view.ID+"/review/5/explain", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodPost, "/api/sessions/"+view.ID+"/review/0/explain", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	exp := decode[tutor.Explanation](t, rec)
	assert.Equal(t, "Rehydrate first", exp.Remember)
	assert.Equal(t, 1, mock.CallCount())
}

func TestExplain_NoTutor(t *testing.T) {
	ts := newTestServer(t, Options{})
	rec := ts.do(http.MethodPost, "/api/sessions/whatever/review/0/explain", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t, Options{AllowedOrigins: []string{"http://localhost:5173"}})
	req := httptest.NewRequest(http.MethodOptions, "/api/bank", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	ts.h.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRegistry_EvictsIdle(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	r := NewRegistry(time.Hour, clock.Now)

	old := session.New(nil, session.Options{})
	r.Add(old)
	clock.Advance(2 * time.Hour)
	r.Add(session.New(nil, session.Options{}))

	assert.Equal(t, 1, r.Len())
	err := r.With(old.ID(), func(*session.Session) error { return nil })
	assert.ErrorIs(t, err, errSessionNotFound)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(session.ErrUnknownTopic))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(session.ErrInvalidSelection))
	assert.Equal(t, http.StatusConflict, statusFor(session.ErrInvalidState))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
	assert.Equal(t, http.StatusNotFound, statusFor(errSessionNotFound))
}
