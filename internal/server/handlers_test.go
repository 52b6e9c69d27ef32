package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/quizgenie/quizgenie/internal/database"
	"github.com/quizgenie/quizgenie/internal/genai"
	"github.com/quizgenie/quizgenie/internal/migrations"
	"github.com/quizgenie/quizgenie/internal/quizgenie"
)

// Three sentences so the offline generator has material for questions and
// decoys.
const passage = "The photosynthesis process converts sunlight into chemical energy. " +
	"Green plants rely on chlorophyll pigments inside their leaves. " +
	"Water molecules split apart during the light reactions."

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	ctx := context.Background()

	// Real SQLite in-memory DB — lightweight, no mocks needed.
	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	r := chi.NewRouter()
	addRoutes(r, Deps{
		Store:     NewSQLiteStore(db),
		Generator: genai.OfflineGenerator{},
		Judge:     genai.OfflineJudge{},
		Secret:    "test-secret",
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// signup registers a user and logs in, returning the session token.
func signup(t *testing.T, r http.Handler, username string) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/register", "", RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "hunter22",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/login", "", LoginRequest{
		Username: username,
		Password: "hunter22",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp AuthResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Token == "" {
		t.Fatal("login returned empty token")
	}
	return resp.Token
}

func generateQuiz(t *testing.T, r http.Handler, token string, req GenerateRequest) GenerateResponse {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/generate-quiz", token, req)
	if w.Code != http.StatusOK {
		t.Fatalf("generate: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp GenerateResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.QuizID == "" {
		t.Fatal("generate returned empty quiz ID")
	}
	if len(resp.Content) == 0 {
		t.Fatal("generate returned no questions")
	}
	return resp
}

// correctAnswers maps every question index to its correct answer.
func correctAnswers(questions []quizgenie.Question) map[string]string {
	answers := make(map[string]string, len(questions))
	for i, q := range questions {
		answers[strconv.Itoa(i)] = q.Answer
	}
	return answers
}

func TestRegisterLoginVerify(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "maria")

	// Duplicate username is rejected.
	w := doJSON(t, r, http.MethodPost, "/register", "", RegisterRequest{
		Username: "maria",
		Email:    "other@example.com",
		Password: "hunter22",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("duplicate register: expected 400, got %d", w.Code)
	}

	// Wrong password is rejected without leaking which field was wrong.
	w = doJSON(t, r, http.MethodPost, "/login", "", LoginRequest{Username: "maria", Password: "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: expected 401, got %d", w.Code)
	}
	var errResp ErrorResponse
	json.NewDecoder(w.Body).Decode(&errResp)
	if errResp.Error != "username or password is incorrect" {
		t.Errorf("wrong password error = %q", errResp.Error)
	}

	// Valid token resolves to the user.
	w = doJSON(t, r, http.MethodGet, "/verify-token", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d", w.Code)
	}
	var verify VerifyResponse
	json.NewDecoder(w.Body).Decode(&verify)
	if verify.User.Username != "maria" {
		t.Errorf("verify username = %q, want maria", verify.User.Username)
	}

	// Garbage token is a 401.
	w = doJSON(t, r, http.MethodGet, "/verify-token", "not-a-token", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: expected 401, got %d", w.Code)
	}

	// Missing token on a protected route is a 401.
	w = doJSON(t, r, http.MethodGet, "/get-user-data", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", w.Code)
	}
}

func TestGenerateRejectsShortText(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "maria")

	w := doJSON(t, r, http.MethodPost, "/generate-quiz", token, GenerateRequest{Text: "too short"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/generate-quiz", token, GenerateRequest{Text: passage, Type: "essay"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad type: expected 400, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/generate-quiz", token, GenerateRequest{Text: passage, NumQuestions: 50})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("too many questions: expected 400, got %d", w.Code)
	}
}

func TestGenerateAndTakeQuiz(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "maria")

	quiz := generateQuiz(t, r, token, GenerateRequest{Text: passage, Type: "mcq", NumQuestions: 3})

	// The quiz is retrievable at its shareable URL.
	w := doJSON(t, r, http.MethodGet, "/quiz/"+quiz.QuizID, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get quiz: expected 200, got %d", w.Code)
	}
	var got QuizResponse
	json.NewDecoder(w.Body).Decode(&got)
	if got.Type != quizgenie.QuizTypeMCQ {
		t.Errorf("quiz type = %q, want mcq", got.Type)
	}
	if len(got.Content) != len(quiz.Content) {
		t.Errorf("question count = %d, want %d", len(got.Content), len(quiz.Content))
	}

	// All-correct submission scores 100. MCQ grading ignores case.
	answers := correctAnswers(quiz.Content)
	answers["0"] = strings.ToUpper(answers["0"])

	w = doJSON(t, r, http.MethodPost, "/submit-quiz", token, SubmitRequest{
		QuizID:    quiz.QuizID,
		Answers:   answers,
		TimeSpent: "1:30",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var eval quizgenie.Evaluation
	json.NewDecoder(w.Body).Decode(&eval)
	if eval.Score != 100 {
		t.Errorf("score = %v, want 100", eval.Score)
	}
	if eval.CorrectCount != eval.TotalQuestions {
		t.Errorf("correct = %d of %d, want all", eval.CorrectCount, eval.TotalQuestions)
	}
	if eval.NewPlaysCount != 1 {
		t.Errorf("plays = %d, want 1", eval.NewPlaysCount)
	}
	if eval.AttemptID == 0 {
		t.Error("attempt ID not set")
	}

	// All-wrong submission scores 0 and bumps plays again.
	wrong := make(map[string]string, len(quiz.Content))
	for i := range quiz.Content {
		wrong[strconv.Itoa(i)] = "definitely not this"
	}
	w = doJSON(t, r, http.MethodPost, "/submit-quiz", token, SubmitRequest{QuizID: quiz.QuizID, Answers: wrong})
	if w.Code != http.StatusOK {
		t.Fatalf("second submit: expected 200, got %d", w.Code)
	}
	json.NewDecoder(w.Body).Decode(&eval)
	if eval.Score != 0 {
		t.Errorf("score = %v, want 0", eval.Score)
	}
	if eval.NewPlaysCount != 2 {
		t.Errorf("plays = %d, want 2", eval.NewPlaysCount)
	}

	// Unknown quiz is a 404.
	w = doJSON(t, r, http.MethodPost, "/submit-quiz", token, SubmitRequest{QuizID: "nope", Answers: wrong})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown quiz: expected 404, got %d", w.Code)
	}
}

func TestSubmitShortAnswer(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "maria")

	quiz := generateQuiz(t, r, token, GenerateRequest{Text: passage, Type: "short_answer", NumQuestions: 2})

	answers := correctAnswers(quiz.Content)
	answers["1"] = "nothing like it"

	w := doJSON(t, r, http.MethodPost, "/submit-quiz", token, SubmitRequest{QuizID: quiz.QuizID, Answers: answers})
	if w.Code != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var eval quizgenie.Evaluation
	json.NewDecoder(w.Body).Decode(&eval)
	if eval.CorrectCount != 1 {
		t.Errorf("correct = %d, want 1", eval.CorrectCount)
	}
	if eval.Evaluation[0].Verdict != genai.VerdictCorrect {
		t.Errorf("verdict[0] = %q, want correct", eval.Evaluation[0].Verdict)
	}
	if eval.Evaluation[1].IsCorrect {
		t.Error("wrong answer graded as correct")
	}
}

func TestListQuizzesFilters(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "maria")

	public := generateQuiz(t, r, token, GenerateRequest{Text: passage, Type: "mcq"})
	private := false
	generateQuiz(t, r, token, GenerateRequest{Text: passage, Type: "mcq", IsPublic: &private})

	list := func(query string) []QuizSummary {
		t.Helper()
		w := doJSON(t, r, http.MethodGet, "/api/quizzes"+query, "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("list %q: expected 200, got %d", query, w.Code)
		}
		var summaries []QuizSummary
		json.NewDecoder(w.Body).Decode(&summaries)
		return summaries
	}

	// Only the public quiz is listed.
	summaries := list("")
	if len(summaries) != 1 {
		t.Fatalf("listed %d quizzes, want 1", len(summaries))
	}
	if summaries[0].ID != public.QuizID {
		t.Errorf("listed quiz %q, want %q", summaries[0].ID, public.QuizID)
	}

	// Search matches title text; a miss returns nothing.
	if got := list("?search=photosynthesis"); len(got) != 1 {
		t.Errorf("search hit listed %d quizzes, want 1", len(got))
	}
	if got := list("?search=zzzzzz"); len(got) != 0 {
		t.Errorf("search miss listed %d quizzes, want 0", len(got))
	}

	// Difficulty filter is exact; "all" is a no-op.
	if got := list("?difficulty=hard"); len(got) != 0 {
		t.Errorf("difficulty miss listed %d quizzes, want 0", len(got))
	}
	if got := list("?difficulty=all"); len(got) != 1 {
		t.Errorf("difficulty all listed %d quizzes, want 1", len(got))
	}

	// Tag filter matches the generated tags.
	if got := list("?tags=general"); len(got) != 1 {
		t.Errorf("tag hit listed %d quizzes, want 1", len(got))
	}
	if got := list("?tags=astronomy"); len(got) != 0 {
		t.Errorf("tag miss listed %d quizzes, want 0", len(got))
	}
}

func TestQuizDetails(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "maria")

	quiz := generateQuiz(t, r, token, GenerateRequest{Text: passage, Type: "mcq"})

	w := doJSON(t, r, http.MethodPost, "/submit-quiz", token, SubmitRequest{
		QuizID:  quiz.QuizID,
		Answers: correctAnswers(quiz.Content),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/quiz/"+quiz.QuizID+"/details", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("details: expected 200, got %d", w.Code)
	}

	var resp QuizDetailsResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if !resp.Success {
		t.Error("details not marked successful")
	}
	if resp.Quiz.Statistics.TotalAttempts != 1 {
		t.Errorf("total attempts = %d, want 1", resp.Quiz.Statistics.TotalAttempts)
	}
	if resp.Quiz.Statistics.TotalPlays != 1 {
		t.Errorf("total plays = %d, want 1", resp.Quiz.Statistics.TotalPlays)
	}
	if resp.Quiz.Statistics.AverageScore != 100 {
		t.Errorf("average score = %v, want 100", resp.Quiz.Statistics.AverageScore)
	}
	if len(resp.Quiz.RecentAttempts) != 1 {
		t.Errorf("recent attempts = %d, want 1", len(resp.Quiz.RecentAttempts))
	}
	if resp.Quiz.RecentAttempts[0].Username != "maria" {
		t.Errorf("attempt username = %q, want maria", resp.Quiz.RecentAttempts[0].Username)
	}
}

func TestEditOwnership(t *testing.T) {
	r := newTestRouter(t)
	owner := signup(t, r, "maria")
	other := signup(t, r, "jorge")

	quiz := generateQuiz(t, r, owner, GenerateRequest{Text: passage, Type: "mcq"})
	path := "/api/quizzes/" + quiz.QuizID

	// Non-owners cannot see, update, or delete the quiz.
	if w := doJSON(t, r, http.MethodGet, path, other, nil); w.Code != http.StatusNotFound {
		t.Errorf("foreign get: expected 404, got %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPut, path, other, UpdateQuizRequest{Title: "hijacked"}); w.Code != http.StatusNotFound {
		t.Errorf("foreign update: expected 404, got %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodDelete, path, other, nil); w.Code != http.StatusNotFound {
		t.Errorf("foreign delete: expected 404, got %d", w.Code)
	}

	// The owner's update sticks.
	w := doJSON(t, r, http.MethodPut, path, owner, UpdateQuizRequest{Title: "Renamed Quiz"})
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated OwnQuizResponse
	json.NewDecoder(w.Body).Decode(&updated)
	if updated.Quiz.Title != "Renamed Quiz" {
		t.Errorf("title = %q, want Renamed Quiz", updated.Quiz.Title)
	}

	// An update that breaks validation is rejected.
	w = doJSON(t, r, http.MethodPut, path, owner, UpdateQuizRequest{QuizContent: []quizgenie.Question{}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid update: expected 400, got %d", w.Code)
	}

	// Delete removes the quiz for everyone.
	if w := doJSON(t, r, http.MethodDelete, path, owner, nil); w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/quiz/"+quiz.QuizID, "", nil); w.Code != http.StatusNotFound {
		t.Errorf("get after delete: expected 404, got %d", w.Code)
	}
}

func TestAttemptsAndAnalytics(t *testing.T) {
	r := newTestRouter(t)
	owner := signup(t, r, "maria")
	taker := signup(t, r, "jorge")

	quiz := generateQuiz(t, r, owner, GenerateRequest{Text: passage, Type: "mcq", NumQuestions: 2})

	submit := func(token string, answers map[string]string) {
		t.Helper()
		w := doJSON(t, r, http.MethodPost, "/submit-quiz", token, SubmitRequest{
			QuizID:    quiz.QuizID,
			Answers:   answers,
			TimeSpent: "2:00",
		})
		if w.Code != http.StatusOK {
			t.Fatalf("submit: expected 200, got %d: %s", w.Code, w.Body.String())
		}
	}

	submit(taker, correctAnswers(quiz.Content))
	submit(taker, map[string]string{"0": "wrong", "1": "wrong"})

	// Attempt history on the quiz, scoped to the caller.
	w := doJSON(t, r, http.MethodGet, "/api/attempts/"+quiz.QuizID, taker, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("attempts: expected 200, got %d", w.Code)
	}
	var attempts QuizAttemptsResponse
	json.NewDecoder(w.Body).Decode(&attempts)
	if attempts.TotalAttempts != 2 {
		t.Errorf("total attempts = %d, want 2", attempts.TotalAttempts)
	}
	if attempts.BestScore != 100 {
		t.Errorf("best score = %v, want 100", attempts.BestScore)
	}

	w = doJSON(t, r, http.MethodGet, "/api/attempts/user/recent", taker, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("recent: expected 200, got %d", w.Code)
	}
	var recent RecentAttemptsResponse
	json.NewDecoder(w.Body).Decode(&recent)
	if len(recent.Attempts) != 2 {
		t.Errorf("recent attempts = %d, want 2", len(recent.Attempts))
	}

	// Analytics are owner-only.
	w = doJSON(t, r, http.MethodGet, "/api/quiz-analytics/"+quiz.QuizID, taker, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("foreign analytics: expected 404, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/quiz-analytics/"+quiz.QuizID, owner, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("analytics: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var report AnalyticsResponse
	json.NewDecoder(w.Body).Decode(&report)
	if report.Report.TotalAttempts != 2 {
		t.Errorf("report attempts = %d, want 2", report.Report.TotalAttempts)
	}
	if report.Report.AverageScore != 50 {
		t.Errorf("report average = %v, want 50", report.Report.AverageScore)
	}
	if len(report.Leaderboard) != 2 {
		t.Fatalf("leaderboard entries = %d, want 2", len(report.Leaderboard))
	}
	if report.Leaderboard[0].Score != 100 {
		t.Errorf("leaderboard top score = %v, want 100", report.Leaderboard[0].Score)
	}
}

func TestDashboardData(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "maria")

	quiz := generateQuiz(t, r, token, GenerateRequest{Text: passage, Type: "mcq"})
	w := doJSON(t, r, http.MethodPost, "/submit-quiz", token, SubmitRequest{
		QuizID:  quiz.QuizID,
		Answers: correctAnswers(quiz.Content),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/quizzes/created", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("created: expected 200, got %d", w.Code)
	}
	var created CreatedQuizzesResponse
	json.NewDecoder(w.Body).Decode(&created)
	if created.Count != 1 {
		t.Fatalf("created count = %d, want 1", created.Count)
	}
	if created.Quizzes[0].TotalAttempts != 1 {
		t.Errorf("created quiz attempts = %d, want 1", created.Quizzes[0].TotalAttempts)
	}

	w = doJSON(t, r, http.MethodGet, "/api/quizzes/taken", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("taken: expected 200, got %d", w.Code)
	}
	var taken []TakenQuiz
	json.NewDecoder(w.Body).Decode(&taken)
	if len(taken) != 1 {
		t.Fatalf("taken quizzes = %d, want 1", len(taken))
	}
	if taken[0].Score != 100 {
		t.Errorf("taken score = %v, want 100", taken[0].Score)
	}

	w = doJSON(t, r, http.MethodGet, "/get-user-data", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("user data: expected 200, got %d", w.Code)
	}
	var data UserDataResponse
	json.NewDecoder(w.Body).Decode(&data)
	if data.User.Stats.QuizzesCreated != 1 {
		t.Errorf("quizzes created = %d, want 1", data.User.Stats.QuizzesCreated)
	}
	if data.User.Stats.QuizzesTaken != 1 {
		t.Errorf("quizzes taken = %d, want 1", data.User.Stats.QuizzesTaken)
	}
	if data.User.Rank != 1 {
		t.Errorf("rank = %d, want 1", data.User.Rank)
	}
}

func TestGlobalStats(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "maria")

	quiz := generateQuiz(t, r, token, GenerateRequest{Text: passage, Type: "mcq"})
	w := doJSON(t, r, http.MethodPost, "/submit-quiz", token, SubmitRequest{
		QuizID:  quiz.QuizID,
		Answers: correctAnswers(quiz.Content),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/stats", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats: expected 200, got %d", w.Code)
	}

	var resp GlobalStatsResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if !resp.Success {
		t.Error("stats not marked successful")
	}
	if len(resp.Stats) != 4 {
		t.Fatalf("stat items = %d, want 4", len(resp.Stats))
	}
	if resp.Stats[0].Number != "1" {
		t.Errorf("active learners = %q, want 1", resp.Stats[0].Number)
	}
}
