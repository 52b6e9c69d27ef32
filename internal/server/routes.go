package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("QuizGenie API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(deps.Logger, deps.Store))

	// Public routes.
	r.Post("/register", handleRegister(deps.Store))
	r.Post("/login", handleLogin(deps.Store, deps.Secret))
	r.Get("/quiz/{quizID}", handleGetQuiz(deps.Store))
	r.Get("/api/quizzes", handleListQuizzes(deps.Store))
	r.Get("/api/quiz/{quizID}/details", handleQuizDetails(deps.Store))
	r.Get("/api/stats", handleGlobalStats(deps.Store))

	// Authenticated routes — bearer token resolved by authMiddleware.
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware(deps.Store, deps.Secret))

		r.Get("/verify-token", handleVerifyToken())
		r.Get("/get-user-data", handleUserData(deps.Store))

		r.Post("/generate-quiz", handleGenerateQuiz(deps.Store, deps.Generator))
		r.Post("/submit-quiz", handleSubmitQuiz(deps.Store, deps.Judge))

		r.Get("/api/quizzes/created", handleCreatedQuizzes(deps.Store))
		r.Get("/api/quizzes/taken", handleTakenQuizzes(deps.Store))
		r.Get("/api/quizzes/{quizID}", handleGetOwnQuiz(deps.Store))
		r.Put("/api/quizzes/{quizID}", handleUpdateQuiz(deps.Store))
		r.Delete("/api/quizzes/{quizID}", handleDeleteQuiz(deps.Store))

		r.Get("/api/attempts/user/recent", handleRecentAttempts(deps.Store))
		r.Get("/api/attempts/{quizID}", handleQuizAttempts(deps.Store))
		r.Get("/api/quiz-analytics/{quizID}", handleQuizAnalytics(deps.Store))
	})
}
