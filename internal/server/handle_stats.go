package server

import (
	"fmt"
	"net/http"
	"strconv"
)

// StatItem is one labeled counter on the landing page.
type StatItem struct {
	Number string `json:"number"`
	Label  string `json:"label"`
}

// GlobalStatsResponse is returned by GET /api/stats.
type GlobalStatsResponse struct {
	Success bool       `json:"success"`
	Stats   []StatItem `json:"stats"`
}

func handleGlobalStats(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := store.GlobalStats(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, GlobalStatsResponse{
			Success: true,
			Stats: []StatItem{
				{Number: strconv.Itoa(g.ActiveLearners), Label: "Active Learners"},
				{Number: strconv.Itoa(g.QuizzesCreated), Label: "Quizzes Created"},
				{Number: strconv.Itoa(g.QuestionsAnswered), Label: "Questions Answered"},
				{Number: fmt.Sprintf("%.1f%%", g.SuccessRate), Label: "Success Rate"},
			},
		})
	}
}
