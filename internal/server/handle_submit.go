package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/quizgenie/quizgenie/internal/genai"
	"github.com/quizgenie/quizgenie/internal/quizgenie"
)

// SubmitRequest is the request body for POST /submit-quiz. Answers maps
// question index (as a string) to the user's answer; the whole attempt is
// graded as one batch.
type SubmitRequest struct {
	QuizID    string            `json:"quiz_id"`
	Answers   map[string]string `json:"answers"`
	TimeSpent string            `json:"time_spent"`
}

func handleSubmitQuiz(store Store, judge genai.Judge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r)

		var req SubmitRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.QuizID == "" || len(req.Answers) == 0 {
			writeError(w, http.StatusBadRequest, "missing quiz ID or answers")
			return
		}
		if req.TimeSpent == "" {
			req.TimeSpent = "0:00"
		}

		quiz, err := store.QuizByID(r.Context(), req.QuizID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "quiz not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		evaluation := make([]quizgenie.QuestionResult, 0, len(quiz.Questions))
		correctCount := 0

		for i, question := range quiz.Questions {
			userAnswer := strings.TrimSpace(req.Answers[strconv.Itoa(i)])
			correctAnswer := strings.TrimSpace(question.Answer)

			result := quizgenie.QuestionResult{
				Question:      question.Question,
				UserAnswer:    req.Answers[strconv.Itoa(i)],
				CorrectAnswer: correctAnswer,
				Explanation:   question.Explanation,
				Verdict:       "exact match",
			}

			if quiz.Type == quizgenie.QuizTypeMCQ {
				result.IsCorrect = strings.EqualFold(userAnswer, correctAnswer)
			} else {
				judgment, err := judge.Judge(r.Context(), question.Question, correctAnswer, userAnswer)
				if err != nil {
					// Grading must not fail the whole submission; an
					// unjudgeable answer counts as incorrect.
					judgment = genai.Judgment{Verdict: genai.VerdictIncorrect, Reason: "evaluation unavailable"}
				}
				result.IsCorrect = judgment.Accepted()
				result.Verdict = judgment.Verdict
				if judgment.Reason != "" {
					result.Explanation = judgment.Reason
				}
			}

			if result.IsCorrect {
				correctCount++
			}
			evaluation = append(evaluation, result)
		}

		score := float64(correctCount) / float64(len(quiz.Questions)) * 100

		attemptID, newPlays, newRating, err := store.RecordAttempt(r.Context(), quizgenie.Attempt{
			UserID:         user.ID,
			QuizID:         quiz.ID,
			Score:          score,
			CorrectAnswers: correctCount,
			TotalQuestions: len(quiz.Questions),
			TimeSpent:      req.TimeSpent,
			CompletedAt:    time.Now().UTC(),
			Answers:        req.Answers,
			Details:        evaluation,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, quizgenie.Evaluation{
			Evaluation:     evaluation,
			Score:          score,
			CorrectCount:   correctCount,
			TotalQuestions: len(quiz.Questions),
			QuizType:       quiz.Type,
			AttemptID:      attemptID,
			NewPlaysCount:  newPlays,
			NewRating:      newRating,
		})
	}
}
