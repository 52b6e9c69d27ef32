// Package quizgenie defines the core domain types shared by the server,
// the client library, and the CLI. It has zero external dependencies —
// everything here is pure Go.
package quizgenie

import "time"

type QuizType string

const (
	QuizTypeMCQ         QuizType = "mcq"
	QuizTypeShortAnswer QuizType = "short_answer"
)

// Difficulty levels assigned to quizzes at generation time.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

type User struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
	TotalScore float64   `json:"total_score"`
	Badge      string    `json:"badge"`
}

// Question is one entry of a quiz. For MCQ questions Options holds the
// candidate answers and Answer must equal one of them verbatim; for
// short-answer questions Options is empty and Answer is free text.
type Question struct {
	Question    string   `json:"question"`
	Options     []string `json:"options,omitempty"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"`
}

type Quiz struct {
	ID          string     `json:"id"`
	OwnerID     int64      `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Type        QuizType   `json:"quiz_type"`
	Difficulty  string     `json:"difficulty"`
	Tags        []string   `json:"tags"`
	IsPublic    bool       `json:"is_public"`
	Questions   []Question `json:"questions"`
	CreatedAt   time.Time  `json:"created_at"`
	Plays       int        `json:"plays"`
	Rating      float64    `json:"rating"`
}

// Category returns the quiz's display category: its first tag, or
// "General" for untagged quizzes.
func (q Quiz) Category() string {
	if len(q.Tags) > 0 {
		return q.Tags[0]
	}
	return "General"
}

// QuestionResult is the server's graded verdict for one answered question.
// Verdict is "exact match" for MCQ, or correct|partial|incorrect for
// short answers.
type QuestionResult struct {
	Question      string `json:"question"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Verdict       string `json:"verdict"`
	Explanation   string `json:"explanation"`
}

// Evaluation is the graded breakdown returned for one submission. The
// server's determination is authoritative; clients render it as-is and
// never re-grade.
type Evaluation struct {
	Evaluation     []QuestionResult `json:"evaluation"`
	Score          float64          `json:"score"`
	CorrectCount   int              `json:"correct_count"`
	TotalQuestions int              `json:"total_questions"`
	QuizType       QuizType         `json:"quiz_type"`
	AttemptID      int64            `json:"attempt_id"`
	NewPlaysCount  int              `json:"new_plays_count"`
	NewRating      float64          `json:"new_rating"`
}

// Attempt is one completed submission against a quiz. Immutable once
// recorded.
type Attempt struct {
	ID             int64             `json:"id"`
	UserID         int64             `json:"user_id"`
	QuizID         string            `json:"quiz_id"`
	Score          float64           `json:"score"`
	CorrectAnswers int               `json:"correct_answers"`
	TotalQuestions int               `json:"total_questions"`
	TimeSpent      string            `json:"time_spent"`
	CompletedAt    time.Time         `json:"completed_at"`
	Answers        map[string]string `json:"user_answers,omitempty"`
	Details        []QuestionResult  `json:"details,omitempty"`
}
