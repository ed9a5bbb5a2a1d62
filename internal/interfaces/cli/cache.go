package cli

import (
	"github.com/spf13/cobra"

	"github.com/0xcro3dile/claimcheck-go/internal/infrastructure/logging"
)

type clearCacheOutput struct {
	Cleared int `json:"cleared"`
}

func newClearCacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-cache",
		Short: "Drop every cached clause so documents are segmented again on next use",
		Args:  cobra.NoArgs,
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

			n, err := svc.Ingest.CachedDocuments(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.Ingest.Reset(cmd.Context()); err != nil {
				return err
			}
			cliCtx.Logger.Info("clause cache cleared", logging.Int("documents", n))
			return PrintResult(cmd, clearCacheOutput{Cleared: n})
		},
	}
}
