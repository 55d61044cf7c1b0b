package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var patientsCmd = &cobra.Command{
	Use:   "patients",
	Short: "List patients, most recently assessed first",
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")

		env, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer env.Close()

		patients, err := env.store.Patients().List(cmd.Context(), search)
		if err != nil {
			return fmt.Errorf("list patients: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(patients) == 0 {
			fmt.Fprintln(out, "No patients found.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-24s  %-4s  %-28s  %-10s  %s\n",
			"ID", "Name", "Age", "Diagnosis", "Last test", "Status")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, p := range patients {
			fmt.Fprintf(out, "%-5s  %-24s  %-4d  %-28s  %-10s  %s\n",
				p.ID, truncate(p.Name, 24), p.Age, truncate(p.Diagnosis, 28), p.LastTest, p.Status)
		}
		fmt.Fprintf(out, "\n%d patients\n", len(patients))
		return nil
	},
}

func init() {
	patientsCmd.Flags().String("search", "", "Filter by name or diagnosis")
}

// truncate cuts s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
