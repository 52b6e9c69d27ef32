package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show platform-wide statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			stats, err := e.client.Stats(cmd.Context())
			if err != nil {
				return err
			}
			for _, s := range stats {
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", s.Label, s.Number)
			}
			return nil
		},
	}
}

func newAttemptsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attempts [quiz-id]",
		Short: "Show your recent attempts, or your history on one quiz",
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
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				history, err := e.client.QuizAttempts(cmd.Context(), token, args[0])
				if err != nil {
					return e.sessionErr(err)
				}
				fmt.Fprintf(out, "%d attempts, best score %.0f%%\n",
					history.TotalAttempts, history.BestScore)
				for _, a := range history.Attempts {
					fmt.Fprintf(out, "%s  %.0f%% (%d/%d) in %s\n",
						a.CompletedAt.Format("2006-01-02 15:04"),
						a.Score, a.CorrectAnswers, a.TotalQuestions, a.TimeSpent)
				}
				return nil
			}

			recent, err := e.client.RecentAttempts(cmd.Context(), token)
			if err != nil {
				return e.sessionErr(err)
			}
			if len(recent) == 0 {
				fmt.Fprintln(out, "no attempts yet")
				return nil
			}
			for _, a := range recent {
				fmt.Fprintf(out, "%s  %-30q %.0f%% in %s\n",
					a.CompletedAt.Format("2006-01-02 15:04"), a.QuizTitle, a.Score, a.TimeSpent)
			}
			return nil
		},
	}
}

func newAnalyticsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analytics <quiz-id>",
		Short: "Show analytics for a quiz you created",
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

			a, err := e.client.Analytics(cmd.Context(), token, args[0])
			if err != nil {
				return e.sessionErr(err)
			}
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "%s (%s, %d questions)\n\n", a.Quiz.Title, a.Quiz.Difficulty, a.Quiz.QuestionCount)
			r := a.Report
			fmt.Fprintf(out, "attempts:      %d\n", r.TotalAttempts)
			fmt.Fprintf(out, "average score: %.1f%%  median %.1f%%\n", r.AverageScore, r.MedianScore)
			fmt.Fprintf(out, "pass rate:     %.1f%%\n", r.PassRate)
			fmt.Fprintf(out, "average time:  %s (total %s)\n\n", r.AverageTime, r.TotalTime)

			fmt.Fprintln(out, "score distribution:")
			for _, b := range r.ScoreDistribution {
				fmt.Fprintf(out, "  %-7s %3d (%.0f%%)\n", b.Range, b.Count, b.Percentage)
			}

			if len(a.Leaderboard) > 0 {
				fmt.Fprintln(out, "\ntop scores:")
				for i, entry := range a.Leaderboard {
					fmt.Fprintf(out, "  %d. %-20s %.0f%%\n", i+1, entry.Username, entry.Score)
				}
			}
			return nil
		},
	}
}
