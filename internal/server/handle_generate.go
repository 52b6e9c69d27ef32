package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quizgenie/quizgenie/internal/genai"
	"github.com/quizgenie/quizgenie/internal/quizgenie"
)

const (
	minWordCount = 10
	maxQuestions = 15
)

// GenerateRequest is the request body for POST /generate-quiz.
type GenerateRequest struct {
	Text         string `json:"text"`
	Type         string `json:"type"`
	NumQuestions int    `json:"num_questions"`
	IsPublic     *bool  `json:"is_public"`
}

// GenerateResponse returns the stored quiz and its shareable URL.
type GenerateResponse struct {
	QuizID       string               `json:"quiz_id"`
	Content      []quizgenie.Question `json:"content"`
	Metadata     GenerateMetadata     `json:"metadata"`
	ShareableURL string               `json:"shareable_url"`
}

type GenerateMetadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Difficulty  string   `json:"difficulty"`
	Tags        []string `json:"tags"`
	IsPublic    bool     `json:"is_public"`
	CreatorID   int64    `json:"creator_id"`
}

func handleGenerateQuiz(store Store, generator genai.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r)

		var req GenerateRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if strings.TrimSpace(req.Text) == "" {
			writeError(w, http.StatusBadRequest, "text input is required")
			return
		}
		if len(strings.Fields(req.Text)) < minWordCount {
			writeError(w, http.StatusBadRequest, "text is too short to generate a quiz from")
			return
		}

		quizType := quizgenie.QuizType(req.Type)
		if quizType == "" {
			quizType = quizgenie.QuizTypeMCQ
		}
		if quizType != quizgenie.QuizTypeMCQ && quizType != quizgenie.QuizTypeShortAnswer {
			writeError(w, http.StatusBadRequest, "type must be mcq or short_answer")
			return
		}

		n := req.NumQuestions
		if n <= 0 {
			n = 5
		}
		if n > maxQuestions {
			writeError(w, http.StatusBadRequest, "num_questions must be between 1 and 15")
			return
		}

		isPublic := true
		if req.IsPublic != nil {
			isPublic = *req.IsPublic
		}

		generated, err := generator.Generate(r.Context(), req.Text, quizType, n)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "quiz generation failed")
			return
		}

		quiz := quizgenie.Quiz{
			ID:          uuid.NewString(),
			OwnerID:     user.ID,
			Title:       generated.Title,
			Description: generated.Description,
			Type:        quizType,
			Difficulty:  overallDifficulty(generated),
			Tags:        generated.Tags,
			IsPublic:    isPublic,
			Questions:   generated.Questions,
			CreatedAt:   time.Now().UTC(),
		}

		if err := store.CreateQuiz(r.Context(), quiz, req.Text); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, GenerateResponse{
			QuizID:  quiz.ID,
			Content: quiz.Questions,
			Metadata: GenerateMetadata{
				Title:       quiz.Title,
				Description: quiz.Description,
				Difficulty:  quiz.Difficulty,
				Tags:        quiz.Tags,
				IsPublic:    quiz.IsPublic,
				CreatorID:   user.ID,
			},
			ShareableURL: "/quiz/" + quiz.ID,
		})
	}
}

// overallDifficulty averages per-question difficulty when every question
// carries one, otherwise the model's overall assessment stands.
func overallDifficulty(g genai.GeneratedQuiz) string {
	levels := map[string]int{
		quizgenie.DifficultyEasy:   1,
		quizgenie.DifficultyMedium: 2,
		quizgenie.DifficultyHard:   3,
	}

	sum := 0
	for _, q := range g.Questions {
		level, ok := levels[q.Difficulty]
		if !ok {
			return g.Difficulty
		}
		sum += level
	}

	avg := float64(sum) / float64(len(g.Questions))
	switch {
	case avg < 1.5:
		return quizgenie.DifficultyEasy
	case avg < 2.5:
		return quizgenie.DifficultyMedium
	default:
		return quizgenie.DifficultyHard
	}
}
