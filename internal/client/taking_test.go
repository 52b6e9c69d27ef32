package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quizgenie/quizgenie/internal/quizgenie"
)

const passage = "The photosynthesis process converts sunlight into chemical energy. " +
	"Green plants rely on chlorophyll pigments inside their leaves. " +
	"Water molecules split apart during the light reactions."

// signupAndGenerate registers a user against the test server and generates
// a quiz, returning the client, token, and quiz ID.
func signupAndGenerate(t *testing.T, baseURL string) (*Client, string, string) {
	t.Helper()
	c := New(baseURL, nil)
	ctx := context.Background()

	sess := NewSession(c, tokenPath(t))
	if res := sess.Register(ctx, "maria", "maria@example.com", "hunter22"); !res.OK {
		t.Fatalf("register failed: %s", res.Message)
	}

	resp, err := GenerateQuiz(ctx, c, sess.Token(), passage, quizgenie.QuizTypeMCQ, 3, true)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return c, sess.Token(), resp.QuizID
}

func TestTakeSessionFlow(t *testing.T) {
	ts := newTestServer(t)
	c, token, quizID := signupAndGenerate(t, ts.URL)
	ctx := context.Background()

	take := NewTakeSession(c, token, quizID)
	if take.State() != StateLoading {
		t.Fatalf("state = %q, want loading", take.State())
	}

	// Answers are rejected before the quiz arrives.
	if err := take.SetAnswer(0, "early"); err == nil {
		t.Error("SetAnswer accepted while loading")
	}

	if err := take.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if take.State() != StateReady {
		t.Fatalf("state = %q, want ready", take.State())
	}

	questions := take.Quiz().Content
	if len(questions) == 0 {
		t.Fatal("quiz has no questions")
	}

	// Submitting is gated until every question is answered.
	if take.CanSubmit() {
		t.Error("CanSubmit true with no answers")
	}
	if _, err := take.Submit(ctx); err == nil {
		t.Error("Submit allowed with unanswered questions")
	}

	for i, q := range questions {
		if i == len(questions)-1 {
			break
		}
		if err := take.SetAnswer(i, q.Answer); err != nil {
			t.Fatalf("SetAnswer(%d): %v", i, err)
		}
	}
	if take.CanSubmit() {
		t.Error("CanSubmit true with one question unanswered")
	}

	last := len(questions) - 1
	if err := take.SetAnswer(last, questions[last].Answer); err != nil {
		t.Fatalf("SetAnswer(%d): %v", last, err)
	}
	if !take.CanSubmit() {
		t.Fatal("CanSubmit false with every question answered")
	}

	eval, err := take.Submit(ctx)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if take.State() != StateGraded {
		t.Fatalf("state = %q, want graded", take.State())
	}
	if eval.Score != 100 {
		t.Errorf("score = %v, want 100", eval.Score)
	}

	// Graded is terminal.
	if err := take.SetAnswer(0, "changed my mind"); err == nil {
		t.Error("SetAnswer accepted after grading")
	}
	if _, err := take.Submit(ctx); err == nil {
		t.Error("second submit accepted")
	}

	got, err := take.Result()
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if got.CorrectCount != eval.CorrectCount {
		t.Errorf("result correct = %d, want %d", got.CorrectCount, eval.CorrectCount)
	}
}

func TestCanSubmitRejectsBlankAnswers(t *testing.T) {
	ts := newTestServer(t)
	c, token, quizID := signupAndGenerate(t, ts.URL)

	take := NewTakeSession(c, token, quizID)
	if err := take.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	for i, q := range take.Quiz().Content {
		if err := take.SetAnswer(i, q.Answer); err != nil {
			t.Fatalf("SetAnswer(%d): %v", i, err)
		}
	}
	if !take.CanSubmit() {
		t.Fatal("CanSubmit false with every question answered")
	}

	if err := take.SetAnswer(0, "   "); err != nil {
		t.Fatalf("SetAnswer: %v", err)
	}
	if take.CanSubmit() {
		t.Error("whitespace-only answer counted as answered")
	}
}

func TestTakeSessionLoadFailureIsTerminal(t *testing.T) {
	ts := newTestServer(t)

	take := NewTakeSession(New(ts.URL, nil), "", "no-such-quiz")
	if err := take.Load(context.Background()); err == nil {
		t.Fatal("load of unknown quiz succeeded")
	}
	if take.State() != StateError {
		t.Fatalf("state = %q, want error", take.State())
	}
	if take.Err() == nil {
		t.Error("Err is nil in error state")
	}
}

func TestSubmitFailurePreservesAnswers(t *testing.T) {
	h := newTestHandler(t)

	// Fail the first submit, pass everything else through.
	failNext := true
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/submit-quiz" && failNext {
			failNext = false
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"success": false, "error": "temporarily unavailable"}`))
			return
		}
		h.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)

	c, token, quizID := signupAndGenerate(t, ts.URL)
	ctx := context.Background()

	take := NewTakeSession(c, token, quizID)
	if err := take.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	for i, q := range take.Quiz().Content {
		if err := take.SetAnswer(i, q.Answer); err != nil {
			t.Fatalf("SetAnswer(%d): %v", i, err)
		}
	}

	_, err := take.Submit(ctx)
	if err == nil {
		t.Fatal("first submit did not fail")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "temporarily unavailable" {
		t.Errorf("error = %v, want server message", err)
	}

	// The session returned to ready with every answer intact.
	if take.State() != StateReady {
		t.Fatalf("state = %q, want ready after failed submit", take.State())
	}
	for i := range take.Quiz().Content {
		if take.Answer(i) == "" {
			t.Fatalf("answer %d lost after failed submit", i)
		}
	}
	if !take.CanSubmit() {
		t.Fatal("CanSubmit false after failed submit")
	}

	eval, err := take.Submit(ctx)
	if err != nil {
		t.Fatalf("retry submit: %v", err)
	}
	if eval.Score != 100 {
		t.Errorf("score = %v, want 100", eval.Score)
	}
}
