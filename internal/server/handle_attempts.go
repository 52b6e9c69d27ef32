package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quizgenie/quizgenie/internal/quizgenie"
)

// QuizAttemptsResponse is the caller's attempt history on one quiz.
type QuizAttemptsResponse struct {
	Success       bool                `json:"success"`
	Attempts      []quizgenie.Attempt `json:"attempts"`
	TotalAttempts int                 `json:"total_attempts"`
	BestScore     float64             `json:"best_score"`
}

// RecentAttemptsResponse is returned by GET /api/attempts/user/recent.
type RecentAttemptsResponse struct {
	Success  bool            `json:"success"`
	Attempts []RecentAttempt `json:"attempts"`
}

func handleQuizAttempts(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attempts, err := store.AttemptsByUserAndQuiz(r.Context(), userFrom(r).ID, chi.URLParam(r, "quizID"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		best := 0.0
		for _, a := range attempts {
			if a.Score > best {
				best = a.Score
			}
		}

		writeJSON(w, http.StatusOK, QuizAttemptsResponse{
			Success:       true,
			Attempts:      attempts,
			TotalAttempts: len(attempts),
			BestScore:     best,
		})
	}
}

func handleRecentAttempts(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attempts, err := store.RecentAttempts(r.Context(), userFrom(r).ID, 10)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, RecentAttemptsResponse{Success: true, Attempts: attempts})
	}
}
