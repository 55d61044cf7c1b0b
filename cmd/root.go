package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cogniscreen",
	Short: "Cognitive screening dashboard",
	Long:  "Cogniscreen administers MMSE, MoCA and Clock Drawing screenings in the terminal and manages their reports.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides config)")
	rootCmd.PersistentFlags().String("log-file", "", "Log file path (overrides config)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(patientsCmd)
	rootCmd.AddCommand(testsCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(definitionsCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(llmCmd)
}
