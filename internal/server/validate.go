package server

import (
	"fmt"
	"strings"

	"github.com/quizgenie/quizgenie/internal/quizgenie"
)

// validateQuiz checks a quiz before it is saved: non-empty title, at least
// one question, non-empty question text, and for MCQ at least two non-empty
// options with the answer among them.
func validateQuiz(quiz quizgenie.Quiz) error {
	if strings.TrimSpace(quiz.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if len(quiz.Questions) == 0 {
		return fmt.Errorf("quiz must have at least one question")
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
