package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"walter/internal/trace"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [path] [-- args...]",
	Short: "Build and execute a walter program",
	Long:  "Build the project (or a single .rl file) and run the executable; arguments after -- are passed to it.",
	RunE:  runExecution,
}

func init() {
	addBuildFlags(runCmd)
}

// splitArgsAtDash separates compiler arguments from program arguments.
func splitArgsAtDash(cmd *cobra.Command, args []string) (before, after []string) {
	dash := cmd.ArgsLenAtDash()
	if dash < 0 {
		return args, nil
	}
	return args[:dash], args[dash:]
}

func runExecution(cmd *cobra.Command, args []string) error {
	before, programArgs := splitArgsAtDash(cmd, args)
	if len(before) > 1 {
		return fmt.Errorf("expected at most one path before --, got %d", len(before))
	}
	f, err := readBuildFlags(cmd)
	if err != nil {
		return err
	}
	if f.asm {
		return errors.New("--emit-asm produces no executable to run")
	}
	opts, err := readOutputOptions(cmd)
	if err != nil {
		return err
	}
	tgt, err := resolveTarget(before)
	if err != nil {
		return err
	}
	// keep the program's output clean
	if f.ui == uiModeAuto {
		f.ui = uiModeOff
		opts.quiet = true
	}
	res, err := runBuild(cmd.Context(), cmd, tgt, f, opts)
	if err != nil {
		return err
	}

	ctx, span := trace.Begin(cmd.Context(), trace.ScopeStage, "run")
	start := time.Now()
	// #nosec G204 -- the executable was just built
	prog := exec.CommandContext(ctx, res.OutputPath, programArgs...)
	prog.Stdin = os.Stdin
	prog.Stdout = cmd.OutOrStdout()
	prog.Stderr = cmd.ErrOrStderr()
	err = prog.Run()
	span.EndErr(err)
	if opts.timings {
		fmt.Fprintf(cmd.ErrOrStderr(), "%-7s %8.1f ms\n", "run", toMillis(time.Since(start)))
	}

	var exit *exec.ExitError
	if errors.As(err, &exit) {
		return &exitError{code: exit.ExitCode()}
	}
	if err != nil {
		return fmt.Errorf("run %s: %w", res.OutputPath, err)
	}
	return nil
}
