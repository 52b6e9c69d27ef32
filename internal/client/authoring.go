package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/quizgenie/quizgenie/internal/quizgenie"
	"github.com/quizgenie/quizgenie/internal/server"
)

const (
	// MinWordCount is the hard floor below which generation is not attempted.
	MinWordCount = 10
	// RecommendedWordCount is the soft threshold below which results tend
	// to be thin.
	RecommendedWordCount = 50
)

var ErrTextTooShort = fmt.Errorf("text must have at least %d words", MinWordCount)

func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ShortTextWarning returns a warning when the text clears the hard floor
// but falls short of the recommended length.
func ShortTextWarning(text string) (string, bool) {
	n := WordCount(text)
	if n >= MinWordCount && n < RecommendedWordCount {
		return fmt.Sprintf("only %d words provided, %d or more recommended for better questions", n, RecommendedWordCount), true
	}
	return "", false
}

// GenerateQuiz validates the source text locally and then asks the server
// to generate and store the quiz. The text is never sent when it fails
// validation; on failure the caller still holds its input.
func GenerateQuiz(ctx context.Context, c *Client, token, text string, quizType quizgenie.QuizType, numQuestions int, isPublic bool) (server.GenerateResponse, error) {
	if WordCount(text) < MinWordCount {
		return server.GenerateResponse{}, ErrTextTooShort
	}
	return c.Generate(ctx, token, server.GenerateRequest{
		Text:         text,
		Type:         string(quizType),
		NumQuestions: numQuestions,
		IsPublic:     &isPublic,
	})
}

// Editor is the manual authoring model over an owned quiz. Mutations are
// local until Save; validation mirrors the server's rules so mistakes
// surface before the round trip.
type Editor struct {
	quiz quizgenie.Quiz
}

func NewEditor(quiz quizgenie.Quiz) *Editor {
	return &Editor{quiz: quiz}
}

func (e *Editor) Quiz() quizgenie.Quiz {
	return e.quiz
}

func (e *Editor) SetTitle(title string)             { e.quiz.Title = title }
func (e *Editor) SetDescription(description string) { e.quiz.Description = description }
func (e *Editor) SetDifficulty(difficulty string)   { e.quiz.Difficulty = difficulty }
func (e *Editor) SetVisibility(public bool)         { e.quiz.IsPublic = public }
func (e *Editor) SetTags(tags []string)             { e.quiz.Tags = tags }

func (e *Editor) AddQuestion(text string) {
	q := quizgenie.Question{Question: text}
	if e.quiz.Type == quizgenie.QuizTypeMCQ {
		q.Options = []string{"", ""}
	}
	e.quiz.Questions = append(e.quiz.Questions, q)
}

func (e *Editor) RemoveQuestion(i int) error {
	if i < 0 || i >= len(e.quiz.Questions) {
		return errors.New("no such question")
	}
	e.quiz.Questions = append(e.quiz.Questions[:i], e.quiz.Questions[i+1:]...)
	return nil
}

func (e *Editor) SetQuestionText(i int, text string) error {
	if i < 0 || i >= len(e.quiz.Questions) {
		return errors.New("no such question")
	}
	e.quiz.Questions[i].Question = text
	return nil
}

func (e *Editor) SetExplanation(i int, text string) error {
	if i < 0 || i >= len(e.quiz.Questions) {
		return errors.New("no such question")
	}
	e.quiz.Questions[i].Explanation = text
	return nil
}

// SetAnswer records the correct answer. For short-answer quizzes this is
// the reference answer; for MCQ use MarkCorrect instead.
func (e *Editor) SetAnswer(i int, answer string) error {
	if i < 0 || i >= len(e.quiz.Questions) {
		return errors.New("no such question")
	}
	e.quiz.Questions[i].Answer = answer
	return nil
}

func (e *Editor) AddOption(i int, option string) error {
	if i < 0 || i >= len(e.quiz.Questions) {
		return errors.New("no such question")
	}
	e.quiz.Questions[i].Options = append(e.quiz.Questions[i].Options, option)
	return nil
}

func (e *Editor) SetOption(i, j int, option string) error {
	q, err := e.question(i)
	if err != nil {
		return err
	}
	if j < 0 || j >= len(q.Options) {
		return errors.New("no such option")
	}
	if q.Answer == q.Options[j] {
		q.Answer = option
	}
	q.Options[j] = option
	return nil
}

// RemoveOption removes an option, keeping the two-option minimum.
func (e *Editor) RemoveOption(i, j int) error {
	q, err := e.question(i)
	if err != nil {
		return err
	}
	if j < 0 || j >= len(q.Options) {
		return errors.New("no such option")
	}
	if len(q.Options) <= 2 {
		return errors.New("a question needs at least two options")
	}
	if q.Answer == q.Options[j] {
		q.Answer = ""
	}
	q.Options = append(q.Options[:j], q.Options[j+1:]...)
	return nil
}

// MarkCorrect makes option j the single correct answer of question i.
func (e *Editor) MarkCorrect(i, j int) error {
	q, err := e.question(i)
	if err != nil {
		return err
	}
	if j < 0 || j >= len(q.Options) {
		return errors.New("no such option")
	}
	q.Answer = q.Options[j]
	return nil
}

func (e *Editor) question(i int) (*quizgenie.Question, error) {
	if i < 0 || i >= len(e.quiz.Questions) {
		return nil, errors.New("no such question")
	}
	return &e.quiz.Questions[i], nil
}

// Validate applies the same rules the server enforces on save.
func (e *Editor) Validate() error {
	quiz := e.quiz
	if strings.TrimSpace(quiz.Title) == "" {
		return errors.New("title is required")
	}
	if len(quiz.Questions) == 0 {
		return errors.New("quiz must have at least one question")
	}
	for i, q := range quiz.Questions {
		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("question %d has no text", i+1)
		}
		if strings.TrimSpace(q.Answer) == "" {
			return fmt.Errorf("question %d has no correct answer", i+1)
		}
		if quiz.Type != quizgenie.QuizTypeMCQ {
			continue
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("question %d needs at least two options", i+1)
		}
		found := false
		for j, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return fmt.Errorf("question %d option %d is empty", i+1, j+1)
			}
			if opt == q.Answer {
				found = true
			}
		}
		if !found {
			return fmt.Errorf("question %d answer does not match any option", i+1)
		}
	}
	return nil
}

// Save validates and pushes the edited quiz. The editor state is replaced
// with the server's stored version on success.
func (e *Editor) Save(ctx context.Context, c *Client, token string) error {
	if err := e.Validate(); err != nil {
		return err
	}

	isPublic := e.quiz.IsPublic
	saved, err := c.UpdateQuiz(ctx, token, e.quiz.ID, server.UpdateQuizRequest{
		Title:       e.quiz.Title,
		Description: e.quiz.Description,
		Difficulty:  e.quiz.Difficulty,
		IsPublic:    &isPublic,
		QuizContent: e.quiz.Questions,
		Tags:        e.quiz.Tags,
	})
	if err != nil {
		return err
	}
	e.quiz = saved
	return nil
}
