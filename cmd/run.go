package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/cogniscreen/internal/app"
)

// runApp builds the environment and launches the TUI.
func runApp(cmd *cobra.Command) error {
	env, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	env.logger.Info("starting TUI", zap.Bool("llm", env.reports.UsesLLM()))
	return app.Run(env.deps())
}
