package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/quizgenie/quizgenie/internal/quizgenie"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "QuizGenie API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for quiz generation, discovery, and analytics.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /register
	postRegister, _ := r.NewOperationContext(http.MethodPost, "/register")
	postRegister.SetSummary("Register")
	postRegister.SetDescription("Creates a new account and returns a session token.")
	postRegister.AddReqStructure(RegisterRequest{})
	postRegister.AddRespStructure(AuthResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postRegister.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postRegister)

	// POST /login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/login")
	postLogin.SetSummary("Log in")
	postLogin.SetDescription("Authenticate with username and password. Returns a session token.")
	postLogin.AddReqStructure(LoginRequest{})
	postLogin.AddRespStructure(AuthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// GET /verify-token
	getVerify, _ := r.NewOperationContext(http.MethodGet, "/verify-token")
	getVerify.SetSummary("Verify token")
	getVerify.SetDescription("Validates the Bearer token and returns the associated user.")
	getVerify.AddRespStructure(VerifyResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getVerify.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getVerify)

	// GET /get-user-data
	getUserData, _ := r.NewOperationContext(http.MethodGet, "/get-user-data")
	getUserData.SetSummary("User dashboard data")
	getUserData.SetDescription("Returns the user's profile, stats, created quizzes, and attempt history. Requires Bearer token.")
	getUserData.AddRespStructure(UserDataResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getUserData.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getUserData)

	// POST /generate-quiz
	postGenerate, _ := r.NewOperationContext(http.MethodPost, "/generate-quiz")
	postGenerate.SetSummary("Generate a quiz")
	postGenerate.SetDescription("Generates a quiz from source text and saves it. Requires Bearer token.")
	postGenerate.AddReqStructure(GenerateRequest{})
	postGenerate.AddRespStructure(GenerateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postGenerate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postGenerate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postGenerate)

	// POST /submit-quiz
	postSubmit, _ := r.NewOperationContext(http.MethodPost, "/submit-quiz")
	postSubmit.SetSummary("Submit answers")
	postSubmit.SetDescription("Grades the submitted answers and records the attempt. Requires Bearer token.")
	postSubmit.AddReqStructure(SubmitRequest{})
	postSubmit.AddRespStructure(quizgenie.Evaluation{}, openapi.WithHTTPStatus(http.StatusOK))
	postSubmit.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postSubmit.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postSubmit)

	// GET /quiz/{quizID}
	getQuiz, _ := r.NewOperationContext(http.MethodGet, "/quiz/{quizID}")
	getQuiz.SetSummary("Get quiz for taking")
	getQuiz.SetDescription("Returns the quiz with its questions so it can be taken.")
	getQuiz.AddRespStructure(QuizResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getQuiz.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getQuiz)

	// GET /api/quizzes
	listQuizzes, _ := r.NewOperationContext(http.MethodGet, "/api/quizzes")
	listQuizzes.SetSummary("List public quizzes")
	listQuizzes.SetDescription("Lists public quizzes, filtered by search, difficulty, category, and tags, ordered by sort.")
	listQuizzes.AddRespStructure([]QuizSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listQuizzes)

	// GET /api/quiz/{quizID}/details
	getDetails, _ := r.NewOperationContext(http.MethodGet, "/api/quiz/{quizID}/details")
	getDetails.SetSummary("Quiz details")
	getDetails.SetDescription("Returns quiz metadata with aggregate statistics and recent attempts.")
	getDetails.AddRespStructure(QuizDetailsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getDetails.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getDetails)

	// GET /api/stats
	getStats, _ := r.NewOperationContext(http.MethodGet, "/api/stats")
	getStats.SetSummary("Platform statistics")
	getStats.SetDescription("Returns the platform-wide counters shown on the landing page.")
	getStats.AddRespStructure(GlobalStatsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getStats)

	// GET /api/quizzes/created
	getCreated, _ := r.NewOperationContext(http.MethodGet, "/api/quizzes/created")
	getCreated.SetSummary("My created quizzes")
	getCreated.SetDescription("Returns the user's quizzes with attempt statistics. Requires Bearer token.")
	getCreated.AddRespStructure(CreatedQuizzesResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getCreated.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getCreated)

	// GET /api/quizzes/taken
	getTaken, _ := r.NewOperationContext(http.MethodGet, "/api/quizzes/taken")
	getTaken.SetSummary("My taken quizzes")
	getTaken.SetDescription("Returns the quizzes the user has attempted. Requires Bearer token.")
	getTaken.AddRespStructure([]TakenQuiz{}, openapi.WithHTTPStatus(http.StatusOK))
	getTaken.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getTaken)

	// GET /api/quizzes/{quizID}
	getOwn, _ := r.NewOperationContext(http.MethodGet, "/api/quizzes/{quizID}")
	getOwn.SetSummary("Get own quiz")
	getOwn.SetDescription("Returns the full editable quiz. Only the creator can access it. Requires Bearer token.")
	getOwn.AddRespStructure(OwnQuizResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getOwn.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getOwn)

	// PUT /api/quizzes/{quizID}
	putQuiz, _ := r.NewOperationContext(http.MethodPut, "/api/quizzes/{quizID}")
	putQuiz.SetSummary("Update quiz")
	putQuiz.SetDescription("Updates a quiz's metadata and questions. Only the creator can update it. Requires Bearer token.")
	putQuiz.AddReqStructure(UpdateQuizRequest{})
	putQuiz.AddRespStructure(OwnQuizResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	putQuiz.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	putQuiz.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(putQuiz)

	// DELETE /api/quizzes/{quizID}
	deleteQuiz, _ := r.NewOperationContext(http.MethodDelete, "/api/quizzes/{quizID}")
	deleteQuiz.SetSummary("Delete quiz")
	deleteQuiz.SetDescription("Deletes a quiz and its attempts. Only the creator can delete it. Requires Bearer token.")
	deleteQuiz.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	deleteQuiz.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteQuiz)

	// GET /api/attempts/user/recent
	getRecent, _ := r.NewOperationContext(http.MethodGet, "/api/attempts/user/recent")
	getRecent.SetSummary("Recent attempts")
	getRecent.SetDescription("Returns the user's ten most recent attempts. Requires Bearer token.")
	getRecent.AddRespStructure(RecentAttemptsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getRecent.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getRecent)

	// GET /api/attempts/{quizID}
	getAttempts, _ := r.NewOperationContext(http.MethodGet, "/api/attempts/{quizID}")
	getAttempts.SetSummary("Attempts on a quiz")
	getAttempts.SetDescription("Returns the user's attempt history on one quiz. Requires Bearer token.")
	getAttempts.AddRespStructure(QuizAttemptsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getAttempts.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getAttempts)

	// GET /api/quiz-analytics/{quizID}
	getAnalytics, _ := r.NewOperationContext(http.MethodGet, "/api/quiz-analytics/{quizID}")
	getAnalytics.SetSummary("Quiz analytics")
	getAnalytics.SetDescription("Returns aggregate analytics for a quiz. Only the creator can access it. Requires Bearer token.")
	getAnalytics.AddRespStructure(AnalyticsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getAnalytics.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getAnalytics)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
