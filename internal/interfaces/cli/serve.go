package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/0xcro3dile/claimcheck-go/internal/adapters/filewatcher"
	"github.com/0xcro3dile/claimcheck-go/internal/domain/usecases"
	"github.com/0xcro3dile/claimcheck-go/internal/infrastructure/http"
	"github.com/0xcro3dile/claimcheck-go/internal/infrastructure/logging"
)

func newServeCmd() *cobra.Command {
	var (
		addr       string
		pdfService string
		watch      bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP analysis API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg := cliCtx.Config
			logger := cliCtx.Logger
			if addr != "" {
				cfg.Server.Addr = addr
			}

			svc, err := NewServices(cfg, logger, true)
			if err != nil {
				return err
			}
			defer svc.Close()

			if pdfService != "" {
				stop, err := svc.Parser.StartService(pdfService)
				if err != nil {
					return err
				}
				defer stop()
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			server := http.NewServer(svc.Analyze, svc.Ingest, svc.Metrics, svc.Parser.IsServiceHealthy,
				cfg.Watch.Dir, logger, cfg.Server.Addr)

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return server.Start(ctx) })
			if watch {
				g.Go(func() error { return runWatch(ctx, svc, cfg.Watch.Dir, cfg.Watch.Extensions, logger) })
			}
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().StringVar(&pdfService, "pdf-service", "", "path to a PDF extraction service script to launch")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep the clause cache in step with watch.dir")
	return cmd
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Pre-segment a policy directory and re-segment documents as they change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg := cliCtx.Config
			dir := cfg.Watch.Dir
			if len(args) == 1 {
				dir = args[0]
			}

			svc, err := NewServices(cfg, cliCtx.Logger, false)
			if err != nil {
				return err
			}
			defer svc.Close()

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return runWatch(ctx, svc, dir, cfg.Watch.Extensions, cliCtx.Logger)
		},
	}
}

// runWatch primes the clause cache from dir and then follows file events until ctx ends.
func runWatch(ctx context.Context, svc *Services, dir string, extensions []string, logger logging.Logger) error {
	w, err := filewatcher.NewFSNotifyWatcher(extensions, logger)
	if err != nil {
		return err
	}
	defer w.Stop()

	if len(extensions) == 0 {
		extensions = filewatcher.DefaultExtensions
	}
	uc := usecases.NewWatchUseCase(svc.Ingest, w, extensions, logger)

	n, err := uc.Prime(ctx, dir)
	if err != nil {
		return err
	}
	logger.Info("policy directory primed", logging.String("dir", dir), logging.Int("documents", n))

	return uc.Run(ctx, dir)
}
