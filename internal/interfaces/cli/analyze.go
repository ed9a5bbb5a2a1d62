package cli

import (
	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <query> <document> <api_key>",
		Short: "Decide one claim against a policy document",
		Long: "Segments the policy, ranks its clauses against the claim and prints the decision.\n" +
			"An empty or placeholder api_key selects the built-in rule-based reasoner.",
		Args: exactArgs(3, "claimcheck analyze <query> <document> <api_key>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg := *cliCtx.Config
			cfg.Reasoner.APIKey = args[2]

			svc, err := NewServices(&cfg, cliCtx.Logger, false)
			if err != nil {
				return err
			}
			defer svc.Close()

			a, err := svc.Analyze.AnalyzeDocument(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return PrintResult(cmd, a)
		},
	}
}

type batchOutput struct {
	Document string `json:"document"`
	Results  any    `json:"results"`
}

func newBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch <document> <query>...",
		Short: "Decide several claims against one policy document",
		Long:  "The document is segmented once. A failing claim is reported in its result and the rest continue.",
		Args:  minimumArgs(2, "claimcheck batch <document> <query>..."),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			svc, err := NewServices(cliCtx.Config, cliCtx.Logger, false)
			if err != nil {
				return err
			}
			defer svc.Close()

			results, err := svc.Analyze.AnalyzeBatch(cmd.Context(), args[1:], args[0])
			if err != nil {
				return err
			}
			return PrintResult(cmd, batchOutput{Document: args[0], Results: results})
		},
	}
}

func newSegmentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "segment <document>",
		Short: "Print the clauses segmented from a policy document",
		Args:  exactArgs(1, "claimcheck segment <document>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			svc, err := NewServices(cliCtx.Config, cliCtx.Logger, false)
			if err != nil {
				return err
			}
			defer svc.Close()

			clauses, err := svc.Ingest.Clauses(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if clauses == nil {
				return PrintResult(cmd, []any{})
			}
			return PrintResult(cmd, clauses)
		},
	}
}
