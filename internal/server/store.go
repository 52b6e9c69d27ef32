package server

import (
	"context"
	"errors"
	"time"

	"github.com/quizgenie/quizgenie/internal/quizgenie"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// ListFilter narrows and orders the public quiz listing. The server-side
// filter is authoritative: clients may re-filter defensively but do not
// need to.
type ListFilter struct {
	Search     string
	Difficulty string
	Category   string
	Tags       []string
	Sort       string // trending | newest | top-rated
}

// QuizSummary is one row of a quiz listing, without question content.
type QuizSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Difficulty    string    `json:"difficulty"`
	Category      string    `json:"category"`
	Plays         int       `json:"plays"`
	Rating        float64   `json:"rating"`
	CreatedAt     time.Time `json:"createdAt"`
	IsPublic      bool      `json:"isPublic"`
	Tags          []string  `json:"tags"`
	QuestionCount int       `json:"questionCount"`
}

// AttemptWithUser is an attempt annotated with the username of whoever
// made it, "Anonymous" when the user row is gone.
type AttemptWithUser struct {
	Username string `json:"username"`
	quizgenie.Attempt
}

// TakenQuiz joins one of a user's attempts with the quiz it was against.
type TakenQuiz struct {
	AttemptID      int64     `json:"id"`
	QuizID         string    `json:"quiz_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Creator        string    `json:"creator"`
	Category       string    `json:"category"`
	Difficulty     string    `json:"difficulty"`
	QuizType       string    `json:"quiz_type"`
	QuestionCount  int       `json:"question_count"`
	Score          float64   `json:"score"`
	CorrectAnswers int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
	CompletedAt    time.Time `json:"completed_at"`
	TimeSpent      string    `json:"time_spent"`
	Rating         float64   `json:"rating"`
	Plays          int       `json:"plays"`
	QuizCreatedAt  time.Time `json:"created_at"`
	Tags           []string  `json:"tags"`
}

// RecentAttempt is one row of the recent-activity feed.
type RecentAttempt struct {
	ID          int64     `json:"id"`
	QuizID      string    `json:"quiz_id"`
	QuizTitle   string    `json:"quiz_title"`
	Score       float64   `json:"score"`
	CompletedAt time.Time `json:"completed_at"`
	TimeSpent   string    `json:"time_spent"`
}

// GlobalStats are the platform-wide counters on the landing page.
type GlobalStats struct {
	ActiveLearners    int
	QuizzesCreated    int
	QuestionsAnswered int
	SuccessRate       float64
}

type Store interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (quizgenie.User, error)
	UserAuth(ctx context.Context, username string) (quizgenie.User, string, error)
	UserByID(ctx context.Context, id int64) (quizgenie.User, error)
	// UserRank is 1 plus the number of users with a strictly higher total score.
	UserRank(ctx context.Context, id int64) (int, error)

	CreateQuiz(ctx context.Context, quiz quizgenie.Quiz, originalText string) error
	QuizByID(ctx context.Context, id string) (quizgenie.Quiz, error)
	UpdateQuiz(ctx context.Context, quiz quizgenie.Quiz) error
	DeleteQuiz(ctx context.Context, id string) error
	ListPublic(ctx context.Context, f ListFilter) ([]QuizSummary, error)
	QuizzesByOwner(ctx context.Context, userID int64) ([]quizgenie.Quiz, error)

	// RecordAttempt persists the attempt and, in the same transaction,
	// bumps the quiz play count, folds the score into the quiz rating, and
	// adds it to the user's total score.
	RecordAttempt(ctx context.Context, attempt quizgenie.Attempt) (attemptID int64, newPlays int, newRating float64, err error)
	AttemptsByQuiz(ctx context.Context, quizID string, limit int) ([]AttemptWithUser, error)
	AttemptsByUserAndQuiz(ctx context.Context, userID int64, quizID string) ([]quizgenie.Attempt, error)
	TakenQuizzes(ctx context.Context, userID int64) ([]TakenQuiz, error)
	RecentAttempts(ctx context.Context, userID int64, limit int) ([]RecentAttempt, error)
	QuizAverageScore(ctx context.Context, quizID string) (float64, error)

	GlobalStats(ctx context.Context) (GlobalStats, error)

	Ping(ctx context.Context) error
}
