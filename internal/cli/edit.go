package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quizgenie/quizgenie/internal/client"
)

func newEditCmd() *cobra.Command {
	var (
		title          string
		description    string
		difficulty     string
		public         bool
		private        bool
		removeQuestion int
	)

	cmd := &cobra.Command{
		Use:   "edit <quiz-id>",
		Short: "Edit a quiz you created",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if public && private {
				return errors.New("--public and --private are mutually exclusive")
			}

			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			token, err := e.session.RequireAuth()
			if err != nil {
				return err
			}

			quiz, err := e.client.OwnQuiz(cmd.Context(), token, args[0])
			if err != nil {
				return e.sessionErr(err)
			}

			editor := client.NewEditor(quiz)
			if title != "" {
				editor.SetTitle(title)
			}
			if description != "" {
				editor.SetDescription(description)
			}
			if difficulty != "" {
				editor.SetDifficulty(difficulty)
			}
			if public {
				editor.SetVisibility(true)
			}
			if private {
				editor.SetVisibility(false)
			}
			if removeQuestion > 0 {
				if err := editor.RemoveQuestion(removeQuestion - 1); err != nil {
					return err
				}
			}

			if err := editor.Save(cmd.Context(), e.client, token); err != nil {
				return e.sessionErr(err)
			}

			saved := editor.Quiz()
			fmt.Fprintf(cmd.OutOrStdout(), "saved %q (%d questions, public=%v)\n",
				saved.Title, len(saved.Questions), saved.IsPublic)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "easy, medium, or hard")
	cmd.Flags().BoolVar(&public, "public", false, "list the quiz in public discovery")
	cmd.Flags().BoolVar(&private, "private", false, "remove the quiz from public discovery")
	cmd.Flags().IntVar(&removeQuestion, "remove-question", 0, "delete question N (1-based)")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <quiz-id>",
		Short: "Delete a quiz you created",
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
			out := cmd.OutOrStdout()

			quiz, err := e.client.OwnQuiz(cmd.Context(), token, args[0])
			if err != nil {
				return e.sessionErr(err)
			}

			if !force {
				fmt.Fprintf(out, "delete %q and all its attempts? [y/N] ", quiz.Title)
				reader := bufio.NewReader(cmd.InOrStdin())
				line, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
					fmt.Fprintln(out, "aborted")
					return nil
				}
			}

			if err := e.client.DeleteQuiz(cmd.Context(), token, quiz.ID); err != nil {
				return e.sessionErr(err)
			}
			fmt.Fprintf(out, "deleted %q\n", quiz.Title)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "skip the confirmation prompt")
	return cmd
}
