// Package cli implements the quizctl commands on top of the client
// library.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/quizgenie/quizgenie/internal/client"
)

var (
	serverURL  string
	configPath string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "quizctl",
		Short:         "Create, take, and analyze quizzes from the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&serverURL, "server", "", "server base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&configPath, "config", DefaultConfigPath(), "path to YAML config")

	cmd.AddCommand(
		newRegisterCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newGenerateCmd(),
		newListCmd(),
		newTakeCmd(),
		newAttemptsCmd(),
		newAnalyticsCmd(),
		newStatsCmd(),
		newEditCmd(),
		newDeleteCmd(),
	)
	return cmd
}

// env bundles the client and restored session every command needs.
type env struct {
	client  *client.Client
	session *client.Session
}

// sessionErr converts a mid-command token rejection into a logout: the
// stored token is cleared so the next command prompts a fresh login.
func (e *env) sessionErr(err error) error {
	if client.IsUnauthorized(err) {
		e.session.Invalidate()
		return client.ErrLoginRequired
	}
	return err
}

func loadEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		cfg.Server = serverURL
	}

	c := client.New(cfg.Server, nil)
	s := client.NewSession(c, cfg.TokenPath)
	if err := s.Load(cmd.Context()); err != nil {
		return nil, err
	}
	return &env{client: c, session: s}, nil
}
