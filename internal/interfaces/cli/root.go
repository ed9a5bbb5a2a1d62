// Package cli implements the claimcheck command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/0xcro3dile/claimcheck-go/internal/config"
	"github.com/0xcro3dile/claimcheck-go/internal/domain/entities"
	"github.com/0xcro3dile/claimcheck-go/internal/infrastructure/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	OutputFormat string
}

// NewRootCommand creates the root command with global flags and all subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "claimcheck",
		Short: "Insurance claim analysis against policy documents",
		Long: "claimcheck segments an insurance policy into clauses, ranks them against a\n" +
			"free-text claim and returns a coverage decision with amount and justification.",
		Version: fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (YAML)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", formatJSON, "output format (json, yaml)")

	cmd.AddCommand(
		newAnalyzeCmd(),
		newBatchCmd(),
		newSegmentCmd(),
		newServeCmd(),
		newWatchCmd(),
		newClearCacheCmd(),
	)
	return cmd
}

func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	format := strings.ToLower(opts.OutputFormat)
	if format != formatJSON && format != formatYAML {
		return usageErrorf("unsupported output format %q (use json or yaml)", opts.OutputFormat)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	logging.SetDefault(logger)

	ctx := context.WithValue(cmd.Context(), cliContextKey{}, &CLIContext{
		Config:       cfg,
		Logger:       logger,
		OutputFormat: format,
	})
	cmd.SetContext(ctx)
	return nil
}

// GetCLIContext extracts CLIContext from a command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, fmt.Errorf("command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, fmt.Errorf("CLI context not initialized")
	}
	return cliCtx, nil
}

// Run executes the command tree with args and returns the process exit code.
// Failures, including panics, are written to stdout as {"error": ...}.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) (code int) {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	defer func() {
		if r := recover(); r != nil {
			PrintError(stdout, entities.NewProcessingError(fmt.Errorf("%v", r)))
			code = 1
		}
	}()

	if err := root.ExecuteContext(ctx); err != nil {
		PrintError(stdout, err)
		return 1
	}
	return 0
}

// Execute is the main entry point for the CLI application.
func Execute() int {
	return Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}
