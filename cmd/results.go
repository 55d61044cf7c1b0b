package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/cogniscreen/internal/store"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show assessment results and statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		patientID, _ := cmd.Flags().GetString("patient")
		limit, _ := cmd.Flags().GetInt("limit")

		env, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		var results []store.Result
		if patientID != "" {
			results, err = env.store.Results().ListByPatient(ctx, patientID)
		} else {
			results, err = env.store.Results().List(ctx, limit)
		}
		if err != nil {
			return fmt.Errorf("list results: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintln(out, "No results found.")
			return nil
		}

		fmt.Fprintf(out, "%-10s  %-5s  %-24s  %-20s  %-7s  %s\n",
			"Date", "ID", "Patient", "Test", "Score", "%")
		fmt.Fprintln(out, strings.Repeat("─", 80))
		for _, r := range results {
			fmt.Fprintf(out, "%-10s  %-5s  %-24s  %-20s  %-7s  %.0f%%\n",
				r.Date, r.PatientID, truncate(r.PatientName, 24), truncate(r.Test, 20),
				fmt.Sprintf("%d/%d", r.Score, r.MaxScore), r.Percent())
		}
		if patientID != "" {
			return nil
		}

		sum, err := env.store.Results().Summary(ctx, time.Now())
		if err != nil {
			return fmt.Errorf("summary: %w", err)
		}
		dist, err := env.store.Results().Distribution(ctx)
		if err != nil {
			return fmt.Errorf("distribution: %w", err)
		}

		fmt.Fprintln(out)
		fmt.Fprintf(out, "Patients: %d  Assessments: %d  Pending reports: %d  Average: %.0f%%  This month: %d\n",
			sum.Patients, sum.Assessments, sum.PendingReports, sum.AveragePercent, sum.ThisMonth)
		for _, d := range dist {
			share := 0.0
			if sum.Assessments > 0 {
				share = 100 * float64(d.Count) / float64(sum.Assessments)
			}
			fmt.Fprintf(out, "  %-20s  %3d  (%.0f%%)\n", d.Test, d.Count, share)
		}
		return nil
	},
}

func init() {
	resultsCmd.Flags().String("patient", "", "Only show results of this patient ID")
	resultsCmd.Flags().Int("limit", 0, "Maximum number of results (0 = all)")
}
