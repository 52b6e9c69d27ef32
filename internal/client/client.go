// Package client is a typed client for the QuizGenie API. It backs the
// quizctl commands but is usable as a library on its own. Authenticated
// calls take the bearer token explicitly; nothing is stored globally.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/quizgenie/quizgenie/internal/quizgenie"
	"github.com/quizgenie/quizgenie/internal/server"
)

var ErrServiceUnavailable = errors.New("quiz service unavailable")

// APIError carries the server's error message for a non-2xx response,
// with a generic fallback when the body was not parseable.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8080"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

func (c *Client) Register(ctx context.Context, username, email, password string) (quizgenie.User, error) {
	var resp server.AuthResponse
	err := c.do(ctx, http.MethodPost, "/register", "", server.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, &resp)
	return resp.User, err
}

func (c *Client) Login(ctx context.Context, username, password string) (string, quizgenie.User, error) {
	var resp server.AuthResponse
	err := c.do(ctx, http.MethodPost, "/login", "", server.LoginRequest{
		Username: username,
		Password: password,
	}, &resp)
	return resp.Token, resp.User, err
}

func (c *Client) VerifyToken(ctx context.Context, token string) (quizgenie.User, error) {
	var resp server.VerifyResponse
	err := c.do(ctx, http.MethodGet, "/verify-token", token, nil, &resp)
	return resp.User, err
}

func (c *Client) UserData(ctx context.Context, token string) (server.DashboardUser, error) {
	var resp server.UserDataResponse
	err := c.do(ctx, http.MethodGet, "/get-user-data", token, nil, &resp)
	return resp.User, err
}

func (c *Client) Generate(ctx context.Context, token string, req server.GenerateRequest) (server.GenerateResponse, error) {
	var resp server.GenerateResponse
	err := c.do(ctx, http.MethodPost, "/generate-quiz", token, req, &resp)
	return resp, err
}

func (c *Client) Quiz(ctx context.Context, quizID string) (server.QuizResponse, error) {
	var resp server.QuizResponse
	err := c.do(ctx, http.MethodGet, "/quiz/"+url.PathEscape(quizID), "", nil, &resp)
	return resp, err
}

func (c *Client) Submit(ctx context.Context, token string, req server.SubmitRequest) (quizgenie.Evaluation, error) {
	var resp quizgenie.Evaluation
	err := c.do(ctx, http.MethodPost, "/submit-quiz", token, req, &resp)
	return resp, err
}

// Filter narrows the public quiz listing.
type Filter struct {
	Search     string
	Difficulty string
	Category   string
	Tags       []string
	Sort       string
}

func (f Filter) query() string {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Difficulty != "" {
		q.Set("difficulty", f.Difficulty)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if len(f.Tags) > 0 {
		q.Set("tags", strings.Join(f.Tags, ","))
	}
	if f.Sort != "" {
		q.Set("sort", f.Sort)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (c *Client) ListQuizzes(ctx context.Context, f Filter) ([]server.QuizSummary, error) {
	var resp []server.QuizSummary
	err := c.do(ctx, http.MethodGet, "/api/quizzes"+f.query(), "", nil, &resp)
	return resp, err
}

func (c *Client) QuizDetails(ctx context.Context, quizID string) (server.QuizDetails, error) {
	var resp server.QuizDetailsResponse
	err := c.do(ctx, http.MethodGet, "/api/quiz/"+url.PathEscape(quizID)+"/details", "", nil, &resp)
	return resp.Quiz, err
}

func (c *Client) CreatedQuizzes(ctx context.Context, token string) ([]server.CreatedQuiz, error) {
	var resp server.CreatedQuizzesResponse
	err := c.do(ctx, http.MethodGet, "/api/quizzes/created", token, nil, &resp)
	return resp.Quizzes, err
}

func (c *Client) TakenQuizzes(ctx context.Context, token string) ([]server.TakenQuiz, error) {
	var resp []server.TakenQuiz
	err := c.do(ctx, http.MethodGet, "/api/quizzes/taken", token, nil, &resp)
	return resp, err
}

func (c *Client) OwnQuiz(ctx context.Context, token, quizID string) (quizgenie.Quiz, error) {
	var resp server.OwnQuizResponse
	err := c.do(ctx, http.MethodGet, "/api/quizzes/"+url.PathEscape(quizID), token, nil, &resp)
	return resp.Quiz, err
}

func (c *Client) UpdateQuiz(ctx context.Context, token, quizID string, req server.UpdateQuizRequest) (quizgenie.Quiz, error) {
	var resp server.OwnQuizResponse
	err := c.do(ctx, http.MethodPut, "/api/quizzes/"+url.PathEscape(quizID), token, req, &resp)
	return resp.Quiz, err
}

func (c *Client) DeleteQuiz(ctx context.Context, token, quizID string) error {
	return c.do(ctx, http.MethodDelete, "/api/quizzes/"+url.PathEscape(quizID), token, nil, nil)
}

func (c *Client) QuizAttempts(ctx context.Context, token, quizID string) (server.QuizAttemptsResponse, error) {
	var resp server.QuizAttemptsResponse
	err := c.do(ctx, http.MethodGet, "/api/attempts/"+url.PathEscape(quizID), token, nil, &resp)
	return resp, err
}

func (c *Client) RecentAttempts(ctx context.Context, token string) ([]server.RecentAttempt, error) {
	var resp server.RecentAttemptsResponse
	err := c.do(ctx, http.MethodGet, "/api/attempts/user/recent", token, nil, &resp)
	return resp.Attempts, err
}

func (c *Client) Analytics(ctx context.Context, token, quizID string) (server.AnalyticsResponse, error) {
	var resp server.AnalyticsResponse
	err := c.do(ctx, http.MethodGet, "/api/quiz-analytics/"+url.PathEscape(quizID), token, nil, &resp)
	return resp, err
}

func (c *Client) Stats(ctx context.Context) ([]server.StatItem, error) {
	var resp server.GlobalStatsResponse
	err := c.do(ctx, http.MethodGet, "/api/stats", "", nil, &resp)
	return resp.Stats, err
}

func (c *Client) do(ctx context.Context, method, path, token string, requestBody, responseBody any) error {
	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
			return context.Canceled
		}
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if responseBody == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(responseBody)
}
