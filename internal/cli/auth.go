package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newRegisterCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Create an account and log in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			password, err := promptPassword(cmd)
			if err != nil {
				return err
			}

			res := e.session.Register(cmd.Context(), args[0], email, password)
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			if !res.OK {
				return errors.New("registration failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.MarkFlagRequired("email")
	return cmd
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and store the session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			password, err := promptPassword(cmd)
			if err != nil {
				return err
			}

			res := e.session.Login(cmd.Context(), args[0], password)
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			if !res.OK {
				return errors.New("login failed")
			}
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			if err := e.session.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user and their stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			token, err := e.session.RequireAuth()
			if err != nil {
				return err
			}

			user, err := e.client.UserData(cmd.Context(), token)
			if err != nil {
				return e.sessionErr(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s <%s>\n", user.Username, user.Email)
			fmt.Fprintf(out, "rank #%d, total score %.0f\n", user.Rank, user.TotalScore)
			fmt.Fprintf(out, "created %d quizzes, taken %d, average score %.1f\n",
				user.Stats.QuizzesCreated, user.Stats.QuizzesTaken, user.Stats.AverageScore)
			return nil
		},
	}
}

func promptPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	var password string
	if _, err := fmt.Fscanln(cmd.InOrStdin(), &password); err != nil {
		return "", errors.New("password is required")
	}
	return password, nil
}
