package server

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/quizgenie/quizgenie/internal/analytics"
)

// AnalyticsQuiz is the quiz header of the analytics report.
type AnalyticsQuiz struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Difficulty    string    `json:"difficulty"`
	Category      string    `json:"category"`
	CreatedAt     time.Time `json:"created_at"`
	QuestionCount int       `json:"questionCount"`
	Tags          []string  `json:"tags"`
}

// LeaderboardEntry is one of the top scores on a quiz.
type LeaderboardEntry struct {
	Username    string    `json:"username"`
	Score       float64   `json:"score"`
	CompletedAt time.Time `json:"completedAt"`
}

// AnalyticsResponse is returned by GET /api/quiz-analytics/{quizID}.
// Aggregates are computed by the analytics package from the full attempt
// list; the histograms are bucketed in UTC and re-localized by clients.
type AnalyticsResponse struct {
	Success        bool               `json:"success"`
	Quiz           AnalyticsQuiz      `json:"quiz"`
	Report         analytics.Report   `json:"report"`
	RecentAttempts []AttemptWithUser  `json:"recent_attempts"`
	Leaderboard    []LeaderboardEntry `json:"leaderboard"`
}

func handleQuizAnalytics(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quiz, err := ownQuiz(r, store)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "quiz not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		attempts, err := store.AttemptsByQuiz(r.Context(), quiz.ID, 0)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		samples := make([]analytics.Attempt, len(attempts))
		for i, a := range attempts {
			samples[i] = analytics.Attempt{
				Score:       a.Score,
				TimeSpent:   a.TimeSpent,
				CompletedAt: a.CompletedAt,
			}
		}

		top := make([]AttemptWithUser, len(attempts))
		copy(top, attempts)
		sort.SliceStable(top, func(i, j int) bool { return top[i].Score > top[j].Score })
		if len(top) > 5 {
			top = top[:5]
		}
		leaderboard := make([]LeaderboardEntry, len(top))
		for i, a := range top {
			leaderboard[i] = LeaderboardEntry{
				Username:    a.Username,
				Score:       a.Score,
				CompletedAt: a.CompletedAt,
			}
		}

		recent := attempts
		if len(recent) > 10 {
			recent = recent[:10]
		}

		writeJSON(w, http.StatusOK, AnalyticsResponse{
			Success: true,
			Quiz: AnalyticsQuiz{
				ID:            quiz.ID,
				Title:         quiz.Title,
				Description:   quiz.Description,
				Difficulty:    quiz.Difficulty,
				Category:      quiz.Category(),
				CreatedAt:     quiz.CreatedAt,
				QuestionCount: len(quiz.Questions),
				Tags:          quiz.Tags,
			},
			Report:         analytics.Summarize(samples, time.UTC),
			RecentAttempts: recent,
			Leaderboard:    leaderboard,
		})
	}
}
