package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var testsCmd = &cobra.Command{
	Use:   "tests",
	Short: "List the test catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")

		env, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer env.Close()

		tests, err := env.store.Tests().List(cmd.Context(), search)
		if err != nil {
			return fmt.Errorf("list tests: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(tests) == 0 {
			fmt.Fprintln(out, "No tests found.")
			return nil
		}

		fmt.Fprintf(out, "%-3s  %-28s  %-10s  %-14s  %-10s  %s\n",
			"ID", "Name", "Definition", "Status", "Updated", "Kind")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, t := range tests {
			def := t.DefinitionID
			if def == "" {
				def = "-"
			}
			fmt.Fprintf(out, "%-3s  %-28s  %-10s  %-14s  %-10s  %s\n",
				t.ID, truncate(t.Name, 28), def, t.Status, t.Updated, t.Kind)
		}
		return nil
	},
}

func init() {
	testsCmd.Flags().String("search", "", "Filter by test name")
}
