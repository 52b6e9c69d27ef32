package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quizgenie/quizgenie/internal/quizgenie"
)

// QuizResponse is the public view of a quiz for the taking flow.
type QuizResponse struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Content     []quizgenie.Question `json:"content"`
	Type        quizgenie.QuizType   `json:"type"`
	CreatedAt   time.Time            `json:"created_at"`
}

func handleGetQuiz(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quiz, err := store.QuizByID(r.Context(), chi.URLParam(r, "quizID"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "quiz not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, QuizResponse{
			ID:          quiz.ID,
			Title:       quiz.Title,
			Description: quiz.Description,
			Content:     quiz.Questions,
			Type:        quiz.Type,
			CreatedAt:   quiz.CreatedAt,
		})
	}
}

// QuizStatistics summarizes attempt history on the details page.
type QuizStatistics struct {
	TotalAttempts int     `json:"total_attempts"`
	TotalPlays    int     `json:"total_plays"`
	AverageScore  float64 `json:"average_score"`
	Rating        float64 `json:"rating"`
}

// QuizDetails is the full public detail view: content, statistics, and
// recent attempts.
type QuizDetails struct {
	ID             string               `json:"id"`
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	Difficulty     string               `json:"difficulty"`
	Category       string               `json:"category"`
	CreatedAt      time.Time            `json:"created_at"`
	IsPublic       bool                 `json:"is_public"`
	QuizType       quizgenie.QuizType   `json:"quiz_type"`
	Questions      []quizgenie.Question `json:"questions"`
	QuestionCount  int                  `json:"question_count"`
	Tags           []string             `json:"tags"`
	Statistics     QuizStatistics       `json:"statistics"`
	RecentAttempts []AttemptWithUser    `json:"recent_attempts"`
}

// QuizDetailsResponse wraps QuizDetails in the success envelope.
type QuizDetailsResponse struct {
	Success bool        `json:"success"`
	Quiz    QuizDetails `json:"quiz"`
}

func handleQuizDetails(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quiz, err := store.QuizByID(r.Context(), chi.URLParam(r, "quizID"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "quiz not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		recent, err := store.AttemptsByQuiz(r.Context(), quiz.ID, 10)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		avg, err := store.QuizAverageScore(r.Context(), quiz.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		all, err := store.AttemptsByQuiz(r.Context(), quiz.ID, 0)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, QuizDetailsResponse{
			Success: true,
			Quiz: QuizDetails{
				ID:            quiz.ID,
				Title:         quiz.Title,
				Description:   quiz.Description,
				Difficulty:    quiz.Difficulty,
				Category:      quiz.Category(),
				CreatedAt:     quiz.CreatedAt,
				IsPublic:      quiz.IsPublic,
				QuizType:      quiz.Type,
				Questions:     quiz.Questions,
				QuestionCount: len(quiz.Questions),
				Tags:          quiz.Tags,
				Statistics: QuizStatistics{
					TotalAttempts: len(all),
					TotalPlays:    quiz.Plays,
					AverageScore:  avg,
					Rating:        quiz.Rating,
				},
				RecentAttempts: recent,
			},
		})
	}
}
