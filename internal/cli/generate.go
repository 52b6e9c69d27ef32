package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/quizgenie/quizgenie/internal/client"
	"github.com/quizgenie/quizgenie/internal/quizgenie"
)

func newGenerateCmd() *cobra.Command {
	var (
		quizType  string
		questions int
		private   bool
	)

	cmd := &cobra.Command{
		Use:   "generate [file]",
		Short: "Generate a quiz from a text file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			token, err := e.session.RequireAuth()
			if err != nil {
				return err
			}

			var text []byte
			if len(args) == 1 {
				text, err = os.ReadFile(args[0])
			} else {
				text, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if warning, ok := client.ShortTextWarning(string(text)); ok {
				fmt.Fprintln(out, "warning:", warning)
			}

			resp, err := client.GenerateQuiz(cmd.Context(), e.client, token,
				string(text), quizgenie.QuizType(quizType), questions, !private)
			if err != nil {
				return e.sessionErr(err)
			}

			fmt.Fprintf(out, "generated %q (%d questions, %s)\n",
				resp.Metadata.Title, len(resp.Content), resp.Metadata.Difficulty)
			fmt.Fprintf(out, "quiz ID: %s\n", resp.QuizID)
			fmt.Fprintf(out, "share:   %s\n", resp.ShareableURL)
			return nil
		},
	}

	cmd.Flags().StringVar(&quizType, "type", "mcq", "quiz type: mcq or short_answer")
	cmd.Flags().IntVar(&questions, "questions", 5, "number of questions (max 15)")
	cmd.Flags().BoolVar(&private, "private", false, "keep the quiz out of public discovery")
	return cmd
}
