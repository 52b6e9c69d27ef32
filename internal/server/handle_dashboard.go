package server

import (
	"net/http"
	"time"

	"github.com/quizgenie/quizgenie/internal/quizgenie"
)

// CreatedQuiz is one of the user's own quizzes with attempt statistics.
type CreatedQuiz struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Difficulty     string            `json:"difficulty"`
	Category       string            `json:"category"`
	Plays          int               `json:"plays"`
	Rating         float64           `json:"rating"`
	CreatedAt      time.Time         `json:"created_at"`
	IsPublic       bool              `json:"is_public"`
	QuizType       string            `json:"quiz_type"`
	QuestionCount  int               `json:"question_count"`
	AverageScore   float64           `json:"average_score"`
	TotalAttempts  int               `json:"total_attempts"`
	RecentAttempts []AttemptWithUser `json:"recent_attempts"`
	Tags           []string          `json:"tags"`
}

// CreatedQuizzesResponse is returned by GET /api/quizzes/created.
type CreatedQuizzesResponse struct {
	Success bool          `json:"success"`
	Quizzes []CreatedQuiz `json:"quizzes"`
	Count   int           `json:"count"`
}

func handleCreatedQuizzes(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		created, err := createdQuizzes(r, store)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, CreatedQuizzesResponse{
			Success: true,
			Quizzes: created,
			Count:   len(created),
		})
	}
}

func createdQuizzes(r *http.Request, store Store) ([]CreatedQuiz, error) {
	quizzes, err := store.QuizzesByOwner(r.Context(), userFrom(r).ID)
	if err != nil {
		return nil, err
	}

	created := make([]CreatedQuiz, 0, len(quizzes))
	for _, quiz := range quizzes {
		attempts, err := store.AttemptsByQuiz(r.Context(), quiz.ID, 0)
		if err != nil {
			return nil, err
		}

		total := 0.0
		for _, a := range attempts {
			total += a.Score
		}
		avg := 0.0
		if len(attempts) > 0 {
			avg = total / float64(len(attempts))
		}

		recent := attempts
		if len(recent) > 3 {
			recent = recent[:3]
		}

		created = append(created, CreatedQuiz{
			ID:             quiz.ID,
			Title:          quiz.Title,
			Description:    quiz.Description,
			Difficulty:     quiz.Difficulty,
			Category:       quiz.Category(),
			Plays:          quiz.Plays,
			Rating:         quiz.Rating,
			CreatedAt:      quiz.CreatedAt,
			IsPublic:       quiz.IsPublic,
			QuizType:       string(quiz.Type),
			QuestionCount:  len(quiz.Questions),
			AverageScore:   avg,
			TotalAttempts:  len(attempts),
			RecentAttempts: recent,
			Tags:           quiz.Tags,
		})
	}
	return created, nil
}

func handleTakenQuizzes(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taken, err := store.TakenQuizzes(r.Context(), userFrom(r).ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, taken)
	}
}

// UserStats are the aggregate counters on the dashboard.
type UserStats struct {
	QuizzesCreated int     `json:"quizzesCreated"`
	QuizzesTaken   int     `json:"quizzesTaken"`
	TotalPlays     int     `json:"totalPlays"`
	TotalAttempts  int     `json:"totalAttempts"`
	AverageScore   float64 `json:"averageScore"`
}

// DashboardUser is the full user payload of GET /get-user-data.
type DashboardUser struct {
	quizgenie.User
	Stats          UserStats     `json:"stats"`
	CreatedQuizzes []CreatedQuiz `json:"createdQuizzes"`
	TakenQuizzes   []TakenQuiz   `json:"takenQuizzes"`
	Rank           int           `json:"rank"`
}

// UserDataResponse is returned by GET /get-user-data.
type UserDataResponse struct {
	Success bool          `json:"success"`
	User    DashboardUser `json:"user"`
}

func handleUserData(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r)

		created, err := createdQuizzes(r, store)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		taken, err := store.TakenQuizzes(r.Context(), user.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		rank, err := store.UserRank(r.Context(), user.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		totalPlays := 0
		for _, q := range created {
			totalPlays += q.Plays
		}
		totalScore := 0.0
		for _, t := range taken {
			totalScore += t.Score
		}
		avgScore := 0.0
		if len(taken) > 0 {
			avgScore = totalScore / float64(len(taken))
		}

		writeJSON(w, http.StatusOK, UserDataResponse{
			Success: true,
			User: DashboardUser{
				User: user,
				Stats: UserStats{
					QuizzesCreated: len(created),
					QuizzesTaken:   len(taken),
					TotalPlays:     totalPlays,
					TotalAttempts:  len(taken),
					AverageScore:   avgScore,
				},
				CreatedQuizzes: created,
				TakenQuizzes:   taken,
				Rank:           rank,
			},
		})
	}
}
