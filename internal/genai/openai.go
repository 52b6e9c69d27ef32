package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quizgenie/quizgenie/internal/quizgenie"
)

const defaultTimeout = 60 * time.Second

// OpenAIClient implements Generator and Judge against an OpenAI-compatible
// chat completions endpoint.
type OpenAIClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewOpenAIClient(baseURL, apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

const generatePrompt = `Generate a complete quiz package from the following passage:

Passage:
"""%s"""

Requirements:
1. Title: a unique, descriptive title (5-8 words)
2. Description: a compelling description (1-2 sentences, max 30 words)
3. Quiz: %d %s questions
4. Tags: 3-5 relevant lowercase tags
5. Difficulty: Easy, Medium or Hard based on question complexity

Output format (STRICTLY FOLLOW THIS JSON STRUCTURE):
{
  "title": "...",
  "description": "...",
  "quiz": [
    {"question": "...", "options": ["...", "...", "...", "..."], "answer": "...", "explanation": "...", "difficulty": "Easy/Medium/Hard"}
  ],
  "tags": ["tag1", "tag2"],
  "overall_difficulty": "Easy/Medium/Hard"
}

For short_answer quizzes omit the options array. The answer of an MCQ
question must repeat one of its options verbatim.`

func (c *OpenAIClient) Generate(ctx context.Context, text string, quizType quizgenie.QuizType, n int) (GeneratedQuiz, error) {
	prompt := fmt.Sprintf(generatePrompt, text, n, strings.ToUpper(string(quizType)))

	raw, err := c.complete(ctx, prompt, 0.7)
	if err != nil {
		return GeneratedQuiz{}, fmt.Errorf("quiz generation: %w", err)
	}

	var quiz GeneratedQuiz
	if err := json.Unmarshal([]byte(raw), &quiz); err != nil {
		return GeneratedQuiz{}, fmt.Errorf("parsing generated quiz: %w", err)
	}
	if len(quiz.Questions) == 0 {
		return GeneratedQuiz{}, fmt.Errorf("model returned no questions")
	}
	return quiz, nil
}

const judgePrompt = `Question: %s
Correct Answer: %s
User's Answer: %s

Determine if the user's answer is correct, partially correct, or incorrect. Reply with JSON format like: {"verdict": "correct" | "partial" | "incorrect", "reason": "..."}`

func (c *OpenAIClient) Judge(ctx context.Context, question, correctAnswer, userAnswer string) (Judgment, error) {
	raw, err := c.complete(ctx, fmt.Sprintf(judgePrompt, question, correctAnswer, userAnswer), 0)
	if err != nil {
		return Judgment{}, fmt.Errorf("answer evaluation: %w", err)
	}

	var result struct {
		Verdict string `json:"verdict"`
		Reason  string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return Judgment{}, fmt.Errorf("parsing verdict: %w", err)
	}

	verdict := strings.ToLower(strings.TrimSpace(result.Verdict))
	switch verdict {
	case VerdictCorrect, VerdictPartial, VerdictIncorrect:
	default:
		verdict = VerdictIncorrect
	}
	return Judgment{Verdict: verdict, Reason: result.Reason}, nil
}

func (c *OpenAIClient) complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	reqBody := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
		ResponseFormat: &struct {
			Type string `json:"type"`
		}{Type: "json_object"},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("chat completions returned status %d: %s", resp.StatusCode, msg)
	}

	var payload chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if len(payload.Choices) == 0 {
		return "", fmt.Errorf("chat completions returned no choices")
	}
	return strings.TrimSpace(payload.Choices[0].Message.Content), nil
}
