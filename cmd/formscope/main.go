// Command formscope is the CLI entry point: it loads a form
// definition, runs it through the Classifier/Encoder/Synthesizer/
// Minimizer pipeline, and reports the resulting minimized test plan.
// Subcommands live in plan.go, batch.go, report.go, and watch.go;
// this file holds the root command, global flags, and wiring shared
// across all of them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gitrdm/formscope/internal/config"
	"github.com/gitrdm/formscope/internal/logging"
	"github.com/gitrdm/formscope/internal/metrics"
	"github.com/gitrdm/formscope/pkg/formscope"
	"github.com/gitrdm/formscope/pkg/satsolver"
)

var (
	configPath  string
	logLevel    string
	logJSON     bool
	solverName  string
	metricsAddr string
	timeoutSecs int

	cfg RunState
)

// RunState is the resolved configuration a command runs with: the
// file-loaded config.RunConfig overridden by whichever persistent
// flags the user set.
type RunState struct {
	config.RunConfig
}

var rootCmd = &cobra.Command{
	Use:   "formscope",
	Short: "Synthesize minimal, coverage-complete test plans for conditional questionnaires",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		base := config.Default()
		if configPath != "" {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			base = loaded
		}
		if cmd.Flags().Changed("log-level") {
			base.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-json") {
			base.LogJSON = logJSON
		}
		if cmd.Flags().Changed("solver") {
			base.Solver = solverName
		}
		if cmd.Flags().Changed("metrics-addr") {
			base.MetricsAddr = metricsAddr
		}
		if cmd.Flags().Changed("timeout") {
			base.FormTimeoutSeconds = timeoutSecs
		}
		cfg = RunState{base}

		if _, err := metrics.Start(cmd.Context(), cfg.MetricsAddr); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML run configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn, or error")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit JSON log lines instead of console lines")
	rootCmd.PersistentFlags().StringVar(&solverName, "solver", "", `"sat" or "mock"`)
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve /metrics on, e.g. :9090")
	rootCmd.PersistentFlags().IntVar(&timeoutSecs, "timeout", 0, "per-form solver deadline in seconds (0 = none)")

	rootCmd.AddCommand(planCmd, batchCmd, reportCmd, watchCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "formscope:", err)
		os.Exit(1)
	}
}

// newLogger builds the Logger this run's RunState asks for.
func newLogger() logging.Logger {
	level := logging.InfoLevel
	switch cfg.LogLevel {
	case "debug":
		level = logging.DebugLevel
	case "warn":
		level = logging.WarnLevel
	case "error":
		level = logging.ErrorLevel
	}
	return logging.New(level, cfg.LogJSON)
}

// newSolver returns the Solver backend this run's RunState selects,
// wrapped with the metrics instrumentation decorator.
func newSolver() formscope.Solver {
	var s formscope.Solver
	if cfg.Solver == "mock" {
		s = formscope.NewMockSolver()
	} else {
		s = satsolver.New()
	}
	return metrics.InstrumentSolver(s)
}

// formTimeout returns the context this run's RunState wants Synthesize
// to run under: a deadline if FormTimeoutSeconds is positive, an
// unbounded context otherwise.
func formTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if cfg.FormTimeoutSeconds <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, time.Duration(cfg.FormTimeoutSeconds)*time.Second)
}
