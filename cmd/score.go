package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/cogniscreen/internal/assessment"
	"github.com/abhisek/cogniscreen/internal/runner"
)

var scoreCmd = &cobra.Command{
	Use:   "score <definition> <responses.yaml>",
	Short: "Score a responses file offline",
	Long: `Score a YAML map of question ID to answer against a definition and
print the outcome document. Unknown question IDs are rejected.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		patientID, _ := cmd.Flags().GetString("patient")

		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read responses: %w", err)
		}
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parse %s: %w", args[1], err)
		}

		env, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer env.Close()

		def, ok := env.catalog.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown definition %q (known: %s)", args[0], strings.Join(env.catalog.IDs(), ", "))
		}

		run := runner.New(def, runner.Options{PatientID: patientID, Logger: env.logger})
		ids := make([]string, 0, len(raw))
		for id := range raw {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			v, err := assessment.ValueFrom(raw[id])
			if err != nil {
				return fmt.Errorf("response %s: %w", id, err)
			}
			if err := run.RecordResponse(id, v); err != nil {
				return err
			}
		}
		run.Finish()

		outcome, err := run.Outcome()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(outcome.Document()); err != nil {
			return fmt.Errorf("encode outcome: %w", err)
		}
		if err := enc.Close(); err != nil {
			return err
		}

		fmt.Fprintln(out)
		fmt.Fprintf(out, "%-28s  %s\n", "Section", "Score")
		fmt.Fprintln(out, strings.Repeat("─", 40))
		for _, s := range outcome.Sections {
			fmt.Fprintf(out, "%-28s  %d/%d\n", truncate(s.Title, 28), s.Score, s.Max)
		}
		fmt.Fprintf(out, "%-28s  %d/%d (%.0f%%)\n", "Total", outcome.Total, outcome.Max, outcome.Percent())
		return nil
	},
}

func init() {
	scoreCmd.Flags().String("patient", "", "Patient ID to attach to the outcome")
}
