// Command hornfix runs small, self-contained fixpoint programs against the
// github.com/hornkit/hornfix/pkg/horn solver and prints the resulting
// database. It exists to demonstrate the library end-to-end, the way
// codeNERD's "nerd" binary is a thin cobra shell around its own logic
// kernel - the commands here build a Program in Go, call horn.Load, and
// report what Solve derived.
//
// # File Index
//
//   - main.go  - entry point, rootCmd, global flags, logger wiring
//   - demos.go - closure, sign, signparity and interval subcommands
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hornkit/hornfix/internal/config"
)

var (
	verbose    bool
	configPath string
	timeout    time.Duration

	logger *zap.Logger
	cfg    *config.Solver
)

var rootCmd = &cobra.Command{
	Use:   "hornfix",
	Short: "Run Horn-clause fixpoint programs over relations and lattices",
	Long: `hornfix evaluates small Horn-clause programs to their least fixpoint:
plain relations computed by semi-naive bottom-up evaluation, and
lattice-valued predicates merged by a declared join on every insert.

Run one of the demo subcommands to see a complete program loaded and solved.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		zapCfg.Encoding = "console"
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}

		if configPath != "" {
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
		} else {
			cfg = config.Default()
		}
		if verbose {
			cfg.Verbose = true
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a solver config YAML file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "cancel the solve after this long")

	rootCmd.AddCommand(closureCmd, signCmd, signParityCmd, intervalCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
