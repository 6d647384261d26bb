// Command predictors runs the reference networks and forests of the
// predictors engine and checks that the alternative convolution strategies
// agree.
//
// Usage:
//
//	predictors version
//	predictors xor
//	predictors conv-check --receptive-field 3 --channels 70 --filters 8
//	predictors forest
//
// Global flags:
//
//	--log-level  debug, info, warn or error (default info)
//	--workers    worker goroutines per layer; 0 uses every CPU
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/born-ml/predictors/backend/cpu"
	"github.com/born-ml/predictors/nn"
)

const version = "v0.1.0-dev"

// app holds the state shared by all subcommands.
type app struct {
	out      io.Writer
	logger   *slog.Logger
	parallel nn.ParallelConfig

	logLevel string
	workers  int
}

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{out: stdout}

	root := &cobra.Command{
		Use:          "predictors",
		Short:        "Forward-pass inference for layered networks and decision forests",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := parseLevel(a.logLevel)
			if err != nil {
				return err
			}
			a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
			a.parallel = nn.DefaultParallelConfig().WithWorkers(a.workers)
			a.logger.Debug("starting", slog.String("command", cmd.Name()), slog.Int("workers", a.parallel.NumWorkers))
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	root.PersistentFlags().IntVar(&a.workers, "workers", 0, "worker goroutines per layer (0 uses every CPU)")

	root.AddCommand(
		newVersionCommand(a),
		newXORCommand(a),
		newConvCheckCommand(a),
		newForestCommand(a),
	)
	return root
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(a.out, "predictors %s (%s, popcount %s)\n", version, cpu.Name(), cpu.PopcountImplementation())
		},
	}
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
