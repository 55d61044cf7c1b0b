package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/cogniscreen/internal/assessment"
)

var definitionsCmd = &cobra.Command{
	Use:   "definitions [id]",
	Short: "List assessment definitions or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asYAML, _ := cmd.Flags().GetBool("yaml")

		env, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer env.Close()

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			fmt.Fprintf(out, "%-10s  %-36s  %-7s  %-5s  %-8s  %-6s  %s\n",
				"ID", "Name", "Version", "Max", "Sections", "Limit", "Audience")
			fmt.Fprintln(out, strings.Repeat("─", 92))
			for _, def := range env.catalog.All() {
				fmt.Fprintf(out, "%-10s  %-36s  %-7s  %-5d  %-8d  %-6s  %s\n",
					def.ID, truncate(def.Name, 36), def.Version, def.MaxScore,
					len(def.Sections), def.TimeLimit, def.Audience)
			}
			return nil
		}

		def, ok := env.catalog.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown definition %q (known: %s)", args[0], strings.Join(env.catalog.IDs(), ", "))
		}
		if err := assessment.Validate(def); err != nil {
			return fmt.Errorf("definition %s is invalid: %w", def.ID, err)
		}

		if asYAML {
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(def); err != nil {
				return fmt.Errorf("encode %s: %w", def.ID, err)
			}
			return enc.Close()
		}

		fmt.Fprintf(out, "%s (%s) v%s · %d points · %s\n\n", def.Name, def.ID, def.Version, def.MaxScore, def.TimeLimit)
		for i, s := range def.Sections {
			fmt.Fprintf(out, "%d. %s [%d]\n", i+1, s.Title, s.Points())
			for _, q := range assessment.SectionLeaves(s) {
				fmt.Fprintf(out, "   %-14s  %-13s  %d  %s\n", q.ID, q.Kind, q.Points, truncate(q.Prompt, 60))
			}
		}
		return nil
	},
}

func init() {
	definitionsCmd.Flags().Bool("yaml", false, "Print the full definition as YAML")
}
