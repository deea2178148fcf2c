// Command walter compiles .rl programs to native executables.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"walter/internal/diagfmt"
	"walter/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "walter",
	Short:         "walter language compiler",
	Long:          `walter compiles .rl modules through LLVM IR into native executables`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := applyColorMode(cmd); err != nil {
			return err
		}
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		stopProfiling, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		profCleanup = stopProfiling
		return nil
	},
}

var (
	traceCleanup = func() {}
	profCleanup  = func() {}
)

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("diag-format", "pretty", "diagnostics format (pretty|json)")
	rootCmd.PersistentFlags().String("trace", "", "write trace events to a file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile of the compiler")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile of the compiler")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace of the compiler")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	profCleanup()
	traceCleanup()
	os.Exit(exitCode(err))
}

// exitCode prints err unless it was already reported and maps it to a
// process status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	if !errors.Is(err, errReported) {
		diagfmt.NewLogger(os.Stderr, !color.NoColor, false).Errorf("%v", err)
	}
	return 1
}

// errReported marks failures whose details are already on screen.
var errReported = errors.New("errors reported")

// exitError carries the status of a program started by `walter run`.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("program exited with status %d", e.code) }

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
