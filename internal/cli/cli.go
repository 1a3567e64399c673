// Package cli builds the shared command used by the mvx and cpx binaries.
// The two differ only in transfer mode; flags, signal wiring, presenter
// selection, and exit-code mapping are identical.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mvx/internal/config"
	"mvx/internal/engine"
	"mvx/internal/event"
	"mvx/internal/interrupt"
	"mvx/internal/stats"
	"mvx/internal/ui"
)

// Version is set at build time.
var Version = "dev"

// Exit codes: success, any source failed, interrupted by signal.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitCancelled = 130
)

// Main builds and executes the command for the given mode and returns the
// process exit code.
func Main(mode engine.Mode) int {
	cmd := NewCommand(mode)
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, engine.ErrCancelled) {
			fmt.Fprintln(os.Stderr, "interrupted")
			return ExitCancelled
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return ExitFailure
	}
	return ExitOK
}

// NewCommand constructs the root command for one binary.
func NewCommand(mode engine.Mode) *cobra.Command {
	var (
		force        bool
		dryRun       bool
		quiet        bool
		verbose      bool
		verify       bool
		showVersion  bool
		chunkSizeStr string
	)

	use, short := commandHelp(mode)
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				return nil
			}
			return cobra.MinimumNArgs(2)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", cmd.Name(), Version)
				return nil
			}

			// Config file supplies defaults for flags not set on the CLI.
			cfg, err := config.Load()
			if err != nil {
				slog.Warn("failed to load config", "error", err)
			}
			applyDefault(cmd, "verify", cfg.Defaults.Verify, &verify)
			applyDefault(cmd, "quiet", cfg.Defaults.Quiet, &quiet)
			applyDefault(cmd, "verbose", cfg.Defaults.Verbose, &verbose)
			if !cmd.Flags().Changed("chunk-size") && cfg.Defaults.ChunkSize != nil {
				chunkSizeStr = *cfg.Defaults.ChunkSize
			}

			var chunkSize int64
			if chunkSizeStr != "" {
				chunkSize, err = ParseSize(chunkSizeStr)
				if err != nil {
					return fmt.Errorf("invalid --chunk-size: %w", err)
				}
			}

			setupLogging(quiet, verbose)

			opts := engine.Options{
				Force:     force,
				DryRun:    dryRun,
				Quiet:     quiet,
				Verbose:   verbose,
				Verify:    verify,
				ChunkSize: chunkSize,
			}
			return run(mode, args[:len(args)-1], args[len(args)-1], opts, cmd)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing destination files")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "show what would be done without doing it")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress and informational output")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "emit per-file detail")
	cmd.Flags().BoolVar(&verify, "verify", false, "verify copies with BLAKE3 checksums")
	cmd.Flags().StringVar(&chunkSizeStr, "chunk-size", "", "streaming copy chunk size (e.g. 4M)")
	cmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")

	return cmd
}

// run wires the token, tracker, events, and presenter around one batch.
func run(mode engine.Mode, sources []string, dst string, opts engine.Options, cmd *cobra.Command) error {
	token := interrupt.NewToken()
	stop := interrupt.Notify(token)
	defer stop()

	tracker := stats.NewTracker()
	events := make(chan event.Event, 256)

	presenter := ui.NewPresenter(ui.Config{
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Quiet:     opts.Quiet,
		Verbose:   opts.Verbose,
		Tracker:   tracker,
	})

	presenterDone := make(chan struct{})
	go func() {
		defer close(presenterDone)
		_ = presenter.Run(events)
	}()

	if opts.DryRun {
		slog.Info("dry run: no filesystem changes will be made")
	}

	result := engine.Run(engine.Config{
		Sources: sources,
		Dst:     dst,
		Mode:    mode,
		Options: opts,
		Tracker: tracker,
		Token:   token,
		Events:  events,
	})

	close(events)
	<-presenterDone

	if summary := presenter.Summary(); summary != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), summary)
	}

	switch {
	case result.Cancelled || token.Forced():
		return engine.ErrCancelled
	case result.Err != nil:
		if result.Failures > 1 {
			return fmt.Errorf("%w (and %d more failures)", result.Err, result.Failures-1)
		}
		return result.Err
	default:
		return nil
	}
}

func commandHelp(mode engine.Mode) (use, short string) {
	if mode == engine.Move {
		return "mvx [flags] <source>... <dest>",
			"Move files and merge directories with rename fast paths and progress"
	}
	return "cpx [flags] <source>... <dest>",
		"Copy files and merge directories with reflink fast paths and progress"
}

// applyDefault copies a config-file default into a bool flag the user did
// not set explicitly.
func applyDefault(cmd *cobra.Command, name string, def *bool, target *bool) {
	if def != nil && !cmd.Flags().Changed(name) {
		*target = *def
	}
}

// setupLogging installs the process logger: debug when verbose, warnings
// only when quiet, info otherwise.
func setupLogging(quiet, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	} else if quiet {
		level = slog.LevelWarn
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
