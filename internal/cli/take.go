package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quizgenie/quizgenie/internal/client"
	"github.com/quizgenie/quizgenie/internal/quizgenie"
)

func newTakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "take <quiz-id>",
		Short: "Take a quiz interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			token, err := e.session.RequireAuth()
			if err != nil {
				return err
			}

			take := client.NewTakeSession(e.client, token, args[0])
			if err := take.Load(cmd.Context()); err != nil {
				return fmt.Errorf("loading quiz: %w", e.sessionErr(err))
			}

			out := cmd.OutOrStdout()
			quiz := take.Quiz()
			fmt.Fprintf(out, "%s\n%s\n\n", quiz.Title, quiz.Description)

			reader := bufio.NewReader(cmd.InOrStdin())
			for i, q := range quiz.Content {
				fmt.Fprintf(out, "%d. %s\n", i+1, q.Question)
				answer, err := promptAnswer(reader, out, q)
				if err != nil {
					return err
				}
				if err := take.SetAnswer(i, answer); err != nil {
					return err
				}
			}

			if !take.CanSubmit() {
				return fmt.Errorf("not every question was answered")
			}

			eval, err := take.Submit(cmd.Context())
			if err != nil {
				return fmt.Errorf("submitting answers: %w", e.sessionErr(err))
			}

			printEvaluation(out, eval)
			return nil
		},
	}
}

// promptAnswer reads one answer: a letter for MCQ options, free text
// otherwise. It re-prompts until the input is usable.
func promptAnswer(reader *bufio.Reader, out io.Writer, q quizgenie.Question) (string, error) {
	if len(q.Options) == 0 {
		for {
			fmt.Fprint(out, "Your answer: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return "", err
			}
			if answer := strings.TrimSpace(line); answer != "" {
				return answer, nil
			}
		}
	}

	for i, opt := range q.Options {
		fmt.Fprintf(out, "  %c) %s\n", 'A'+i, opt)
	}
	maxLetter := byte('A' + len(q.Options) - 1)
	for {
		fmt.Fprintf(out, "Your answer (A-%c): ", maxLetter)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		choice := strings.ToUpper(strings.TrimSpace(line))
		if len(choice) == 1 && choice[0] >= 'A' && choice[0] <= maxLetter {
			return q.Options[choice[0]-'A'], nil
		}
	}
}

// printEvaluation renders the server's grading verbatim.
func printEvaluation(out io.Writer, eval quizgenie.Evaluation) {
	fmt.Fprintf(out, "\nscore: %.0f%% (%d of %d correct)\n\n",
		eval.Score, eval.CorrectCount, eval.TotalQuestions)

	for i, r := range eval.Evaluation {
		mark := "✗"
		if r.IsCorrect {
			mark = "✓"
		}
		answer := r.UserAnswer
		if strings.TrimSpace(answer) == "" {
			answer = "no answer provided"
		}
		fmt.Fprintf(out, "%s %d. %s\n", mark, i+1, r.Question)
		fmt.Fprintf(out, "   your answer: %s\n", answer)
		if !r.IsCorrect {
			fmt.Fprintf(out, "   correct answer: %s\n", r.CorrectAnswer)
		}
		if r.Explanation != "" {
			fmt.Fprintf(out, "   %s\n", r.Explanation)
		}
	}

	fmt.Fprintf(out, "\nquiz rating is now %.1f after %d plays\n", eval.NewRating, eval.NewPlaysCount)
}
