package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/cogniscreen/internal/reports"
	"github.com/abhisek/cogniscreen/internal/store"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List, show, generate and export reports",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reports, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		filterName, _ := cmd.Flags().GetString("filter")
		search, _ := cmd.Flags().GetString("search")

		filter, err := store.ParseReportFilter(filterName)
		if err != nil {
			return err
		}

		env, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer env.Close()

		list, err := env.store.Reports().List(cmd.Context(), filter, search)
		if err != nil {
			return fmt.Errorf("list reports: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "No reports found.")
			return nil
		}

		fmt.Fprintf(out, "%-3s  %-10s  %-22s  %-20s  %-6s  %-14s  %s\n",
			"ID", "Date", "Patient", "Test", "Score", "Doctor", "Status")
		fmt.Fprintln(out, strings.Repeat("─", 96))
		pending := 0
		for _, r := range list {
			if !r.Generated() {
				pending++
			}
			fmt.Fprintf(out, "%-3s  %-10s  %-22s  %-20s  %-6s  %-14s  %s\n",
				r.ID, r.Date, truncate(r.PatientName, 22), truncate(r.Test, 20),
				r.ScoreLabel(), truncate(r.Doctor, 14), r.Status)
		}
		fmt.Fprintf(out, "\n%d reports, %d pending (%s)\n", len(list), pending, filter.Label())
		return nil
	},
}

var reportsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Render a report in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tmplID, _ := cmd.Flags().GetString("template")
		width, _ := cmd.Flags().GetInt("width")

		env, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer env.Close()

		r, t, err := env.loadReport(cmd, args[0], tmplID)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), reports.Render(r, t, width))
		return nil
	},
}

var reportsGenerateCmd = &cobra.Command{
	Use:   "generate <id>",
	Short: "Draft the narrative of a pending report and mark it generated",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tmplID, _ := cmd.Flags().GetString("template")

		env, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer env.Close()

		r, t, err := env.loadReport(cmd, args[0], tmplID)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if r.Generated() {
			fmt.Fprintf(out, "Report %s is already generated.\n", r.ID)
			return nil
		}

		n, genErr := env.reports.Generate(cmd.Context(), r)
		if genErr != nil {
			// The template narrative came back instead; keep it.
			env.logger.Warn("falling back to template narrative", zap.String("report_id", r.ID), zap.Error(genErr))
		}
		if err := reports.Save(cmd.Context(), env.store.Reports(), r, n, t); err != nil {
			return err
		}

		fmt.Fprintf(out, "Report %s generated with %q (%s narrative).\n\n", r.ID, t.Name, n.Source)
		fmt.Fprintln(out, reports.Render(r, t, 80))

		if env.reports.UsesLLM() {
			usage, err := env.store.Events().LLMUsage(cmd.Context())
			if err == nil && usage.Requests > 0 {
				fmt.Fprintf(out, "\nLLM: %d request(s), %d in / %d out tokens, $%.4f\n",
					usage.Requests, usage.InputTokens, usage.OutputTokens, usage.Cost)
			}
		}
		return nil
	},
}

var reportsExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a report as Markdown or YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tmplID, _ := cmd.Flags().GetString("template")
		formatName, _ := cmd.Flags().GetString("format")
		dir, _ := cmd.Flags().GetString("dir")

		format, err := reports.ParseFormat(formatName)
		if err != nil {
			return err
		}

		env, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer env.Close()

		r, t, err := env.loadReport(cmd, args[0], tmplID)
		if err != nil {
			return err
		}
		if dir == "" {
			return reports.Export(cmd.OutOrStdout(), r, t, format)
		}
		path, err := reports.WriteFile(dir, r, t, format)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	reportsListCmd.Flags().String("filter", string(store.FilterAll), "Filter: all, mmse, moca, clock, pending or generated")
	reportsListCmd.Flags().String("search", "", "Filter by patient, test or doctor")

	for _, c := range []*cobra.Command{reportsShowCmd, reportsGenerateCmd, reportsExportCmd} {
		c.Flags().String("template", "", "Report template ID (defaults to the configured template)")
	}
	reportsShowCmd.Flags().Int("width", 80, "Render width in columns")
	reportsExportCmd.Flags().String("format", string(reports.FormatMarkdown), "Export format: markdown or yaml")
	reportsExportCmd.Flags().String("dir", "", "Write into this directory instead of stdout")

	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsShowCmd)
	reportsCmd.AddCommand(reportsGenerateCmd)
	reportsCmd.AddCommand(reportsExportCmd)
}

// loadReport loads report id and resolves the template to render it with.
// An explicit template that does not apply to the report is an error.
func (e *environment) loadReport(cmd *cobra.Command, id, tmplID string) (*reports.Report, reports.Template, error) {
	r, err := reports.Load(cmd.Context(), e.store, id)
	if err != nil {
		return nil, reports.Template{}, err
	}
	r.Clinic = e.cfg.Clinic.Name

	if tmplID == "" {
		want := e.cfg.Reports.DefaultTemplate
		if r.Generated() && r.Template != "" {
			want = r.Template
		}
		return r, reports.TemplateFor(want, r), nil
	}
	t, err := reports.LookupTemplate(tmplID)
	if err != nil {
		return nil, reports.Template{}, err
	}
	if !t.Applies(r.DefinitionID) {
		return nil, reports.Template{}, fmt.Errorf("template %q does not apply to %s reports", t.ID, r.DefinitionID)
	}
	return r, t, nil
}
