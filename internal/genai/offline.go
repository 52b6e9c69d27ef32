package genai

import (
	"context"
	"fmt"
	"strings"

	"github.com/quizgenie/quizgenie/internal/quizgenie"
)

// OfflineGenerator builds quizzes from the passage itself, without any
// external service. Questions ask which statement appeared in the passage
// (MCQ) or for the key term of a sentence (short answer). It is
// deterministic for a given input, which the handler tests rely on.
type OfflineGenerator struct{}

func (OfflineGenerator) Generate(_ context.Context, text string, quizType quizgenie.QuizType, n int) (GeneratedQuiz, error) {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return GeneratedQuiz{}, fmt.Errorf("no usable sentences in text")
	}
	if n > len(sentences) {
		n = len(sentences)
	}

	questions := make([]quizgenie.Question, 0, n)
	for i := 0; i < n; i++ {
		s := sentences[i]
		if quizType == quizgenie.QuizTypeShortAnswer {
			questions = append(questions, quizgenie.Question{
				Question:    fmt.Sprintf("According to the passage, complete the statement: %q", blankLongestWord(s)),
				Answer:      longestWord(s),
				Explanation: "From the passage: " + s,
				Difficulty:  quizgenie.DifficultyMedium,
			})
			continue
		}

		// MCQ: the true statement plus decoys built from other sentences.
		options := []string{s}
		for j := 1; len(options) < 4 && j < len(sentences); j++ {
			decoy := sentences[(i+j)%len(sentences)]
			if decoy != s {
				options = append(options, negate(decoy))
			}
		}
		for len(options) < 2 {
			options = append(options, "None of the above")
		}
		questions = append(questions, quizgenie.Question{
			Question:    "Which of the following statements appears in the passage?",
			Options:     options,
			Answer:      s,
			Explanation: "This statement is taken verbatim from the passage.",
			Difficulty:  quizgenie.DifficultyEasy,
		})
	}

	title := capitalize(longestWord(sentences[0]))
	return GeneratedQuiz{
		Title:       title + " Quiz",
		Description: "Auto-generated quiz about the provided passage.",
		Questions:   questions,
		Tags:        []string{"general", strings.ToLower(longestWord(sentences[0]))},
		Difficulty:  quizgenie.DifficultyMedium,
	}, nil
}

// OfflineJudge grades short answers by normalized comparison: an exact
// match is correct, containment either way is partial, anything else is
// incorrect. Used when no LLM endpoint is configured.
type OfflineJudge struct{}

func (OfflineJudge) Judge(_ context.Context, _, correctAnswer, userAnswer string) (Judgment, error) {
	want := normalize(correctAnswer)
	got := normalize(userAnswer)

	switch {
	case got == "" || want == "":
		return Judgment{Verdict: VerdictIncorrect, Reason: "no answer provided"}, nil
	case got == want:
		return Judgment{Verdict: VerdictCorrect, Reason: "answer matches"}, nil
	case strings.Contains(want, got) || strings.Contains(got, want):
		return Judgment{Verdict: VerdictPartial, Reason: "answer partially matches"}, nil
	default:
		return Judgment{Verdict: VerdictIncorrect, Reason: "answer does not match"}, nil
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func splitSentences(text string) []string {
	var sentences []string
	for _, raw := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	}) {
		s := strings.TrimSpace(raw)
		if len(strings.Fields(s)) >= 3 {
			sentences = append(sentences, s+".")
		}
	}
	return sentences
}

func longestWord(s string) string {
	best := ""
	for _, w := range strings.Fields(s) {
		w = strings.Trim(w, ".,;:!?\"'()")
		if len(w) > len(best) {
			best = w
		}
	}
	return best
}

func blankLongestWord(s string) string {
	return strings.Replace(s, longestWord(s), "_____", 1)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func negate(s string) string {
	return "It is not the case that " + strings.TrimSuffix(s, ".") + "."
}
