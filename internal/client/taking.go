package client

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/quizgenie/quizgenie/internal/analytics"
	"github.com/quizgenie/quizgenie/internal/quizgenie"
	"github.com/quizgenie/quizgenie/internal/server"
)

// TakeState is the phase of a quiz-taking session.
type TakeState string

const (
	StateLoading    TakeState = "loading"
	StateReady      TakeState = "ready"
	StateSubmitting TakeState = "submitting"
	StateGraded     TakeState = "graded"
	StateError      TakeState = "error"
)

// TakeSession drives one sitting of a quiz: load the questions, collect
// answers in any order, submit the whole set once, keep the graded result.
// A failed load is terminal; a failed submit returns to ready with every
// answer intact so the user can retry.
type TakeSession struct {
	client *Client
	token  string
	quizID string

	state   TakeState
	loadErr error
	quiz    server.QuizResponse
	answers map[int]string
	started time.Time
	result  *quizgenie.Evaluation
}

func NewTakeSession(c *Client, token, quizID string) *TakeSession {
	return &TakeSession{
		client:  c,
		token:   token,
		quizID:  quizID,
		state:   StateLoading,
		answers: make(map[int]string),
	}
}

func (t *TakeSession) State() TakeState { return t.state }

// Err returns what ended the session when state is error.
func (t *TakeSession) Err() error { return t.loadErr }

func (t *TakeSession) Quiz() server.QuizResponse { return t.quiz }

func (t *TakeSession) Load(ctx context.Context) error {
	if t.state != StateLoading {
		return errors.New("quiz already loaded")
	}

	quiz, err := t.client.Quiz(ctx, t.quizID)
	if err != nil {
		t.state = StateError
		t.loadErr = err
		return err
	}

	t.quiz = quiz
	t.state = StateReady
	t.started = time.Now()
	return nil
}

func (t *TakeSession) SetAnswer(index int, answer string) error {
	if t.state != StateReady {
		return errors.New("quiz is not accepting answers")
	}
	if index < 0 || index >= len(t.quiz.Content) {
		return errors.New("no such question")
	}
	t.answers[index] = answer
	return nil
}

func (t *TakeSession) Answer(index int) string {
	return t.answers[index]
}

// CanSubmit reports whether every question has a non-blank answer. The
// server trims before grading, so whitespace does not count as answered.
func (t *TakeSession) CanSubmit() bool {
	if t.state != StateReady {
		return false
	}
	for i := range t.quiz.Content {
		if strings.TrimSpace(t.answers[i]) == "" {
			return false
		}
	}
	return true
}

func (t *TakeSession) Submit(ctx context.Context) (quizgenie.Evaluation, error) {
	if t.state != StateReady {
		return quizgenie.Evaluation{}, errors.New("quiz is not ready to submit")
	}
	if !t.CanSubmit() {
		return quizgenie.Evaluation{}, errors.New("answer every question before submitting")
	}

	answers := make(map[string]string, len(t.answers))
	for i, a := range t.answers {
		answers[strconv.Itoa(i)] = a
	}

	t.state = StateSubmitting
	eval, err := t.client.Submit(ctx, t.token, server.SubmitRequest{
		QuizID:    t.quizID,
		Answers:   answers,
		TimeSpent: analytics.FormatTime(int(time.Since(t.started).Seconds())),
	})
	if err != nil {
		// Back to ready with the answers intact so the user can retry.
		t.state = StateReady
		return quizgenie.Evaluation{}, err
	}

	t.state = StateGraded
	t.result = &eval
	return eval, nil
}

// Result returns the graded evaluation. Rendering without one is an error,
// never a silent empty result.
func (t *TakeSession) Result() (quizgenie.Evaluation, error) {
	if t.result == nil {
		return quizgenie.Evaluation{}, errors.New("quiz has not been graded")
	}
	return *t.result, nil
}
