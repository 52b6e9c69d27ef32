package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quizgenie/quizgenie/internal/quizgenie"
)

// UpdateQuizRequest is the request body for PUT /api/quizzes/{quizID}.
// The full quiz object is sent; omitted string fields keep their stored
// values.
type UpdateQuizRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Difficulty  string               `json:"difficulty"`
	IsPublic    *bool                `json:"is_public"`
	QuizContent []quizgenie.Question `json:"quiz_content"`
	Tags        []string             `json:"tags"`
}

// OwnQuizResponse wraps the creator's editable view of a quiz.
type OwnQuizResponse struct {
	Success bool           `json:"success"`
	Quiz    quizgenie.Quiz `json:"quiz"`
}

// ownQuiz loads the quiz and enforces that the requester created it.
// Non-owners get ErrNotFound rather than a hint the quiz exists.
func ownQuiz(r *http.Request, store Store) (quizgenie.Quiz, error) {
	quiz, err := store.QuizByID(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		return quizgenie.Quiz{}, err
	}
	if quiz.OwnerID != userFrom(r).ID {
		return quizgenie.Quiz{}, ErrNotFound
	}
	return quiz, nil
}

func handleGetOwnQuiz(store Store) http.HandlerFunc {
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
		writeJSON(w, http.StatusOK, OwnQuizResponse{Success: true, Quiz: quiz})
	}
}

func handleUpdateQuiz(store Store) http.HandlerFunc {
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

		var req UpdateQuizRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if req.Title != "" {
			quiz.Title = req.Title
		}
		if req.Description != "" {
			quiz.Description = req.Description
		}
		if req.Difficulty != "" {
			quiz.Difficulty = req.Difficulty
		}
		if req.IsPublic != nil {
			quiz.IsPublic = *req.IsPublic
		}
		if req.QuizContent != nil {
			quiz.Questions = req.QuizContent
		}
		if req.Tags != nil {
			quiz.Tags = req.Tags
		}

		if err := validateQuiz(quiz); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := store.UpdateQuiz(r.Context(), quiz); err != nil {
			writeError(w, http.StatusInternalServerError, "save failed")
			return
		}
		writeJSON(w, http.StatusOK, OwnQuizResponse{Success: true, Quiz: quiz})
	}
}

func handleDeleteQuiz(store Store) http.HandlerFunc {
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

		if err := store.DeleteQuiz(r.Context(), quiz.ID); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}
