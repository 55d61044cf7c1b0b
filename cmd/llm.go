package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/cogniscreen/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the narrative provider",
}

var llmStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which provider drafts report narratives",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer env.Close()

		out := cmd.OutOrStdout()
		if env.provider == nil {
			fmt.Fprintln(out, "Provider: none (template narratives)")
			return nil
		}
		fmt.Fprintf(out, "Provider: %s\nModel:    %s\n", env.provider.Name(), env.provider.ModelID())
		if pc, ok := env.cfg.LLM.ProviderConfig(); ok {
			fmt.Fprintf(out, "Timeout:  %s\nRate:     %d req/min\n", pc.Timeout, pc.RequestsPerMinute)
		}
		return nil
	},
}

var llmPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Send a short test prompt to the provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer env.Close()

		if env.provider == nil {
			return fmt.Errorf("no LLM provider configured")
		}
		ctx := llm.WithPurpose(cmd.Context(), llm.PurposePing)
		resp, err := env.provider.Generate(ctx, llm.UserPrompt("Reply with OK.", "ping", nil, 16))
		if err != nil {
			return fmt.Errorf("ping %s: %w", env.provider.Name(), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %q (%d in / %d out tokens)\n",
			env.provider.Name(), string(resp.Content), resp.Usage.InputTokens, resp.Usage.OutputTokens)
		return nil
	},
}

func init() {
	llmCmd.AddCommand(llmStatusCmd)
	llmCmd.AddCommand(llmPingCmd)
}
