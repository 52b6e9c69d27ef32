// Package genai generates quizzes from source text and judges free-text
// answers. The production implementation calls an OpenAI-compatible chat
// completions API; an offline fallback keeps the platform usable (and
// testable) without an API key.
package genai

import (
	"context"

	"github.com/quizgenie/quizgenie/internal/quizgenie"
)

// GeneratedQuiz is the full package the generator produces from a passage:
// questions plus the metadata the authoring flow needs.
type GeneratedQuiz struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Questions   []quizgenie.Question `json:"quiz"`
	Tags        []string             `json:"tags"`
	Difficulty  string               `json:"overall_difficulty"`
}

// Generator builds a quiz of n questions of the given type from text.
type Generator interface {
	Generate(ctx context.Context, text string, quizType quizgenie.QuizType, n int) (GeneratedQuiz, error)
}

// Verdicts a Judge may return for a short answer.
const (
	VerdictCorrect   = "correct"
	VerdictPartial   = "partial"
	VerdictIncorrect = "incorrect"
)

// Judgment is the grading outcome for one short answer. Correct and
// partial verdicts both count as a correct answer in the score.
type Judgment struct {
	Verdict string
	Reason  string
}

// Accepted reports whether the verdict counts toward the score.
func (j Judgment) Accepted() bool {
	return j.Verdict == VerdictCorrect || j.Verdict == VerdictPartial
}

// Judge grades a user's free-text answer against the reference answer.
type Judge interface {
	Judge(ctx context.Context, question, correctAnswer, userAnswer string) (Judgment, error)
}
