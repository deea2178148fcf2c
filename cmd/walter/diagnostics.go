package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"walter/internal/buildpipeline"
	"walter/internal/diagfmt"
)

type outputOptions struct {
	quiet      bool
	timings    bool
	diagFormat string
	maxDiag    int
}

func readOutputOptions(cmd *cobra.Command) (outputOptions, error) {
	flags := cmd.Root().PersistentFlags()
	var opts outputOptions
	var err error
	if opts.quiet, err = flags.GetBool("quiet"); err != nil {
		return opts, err
	}
	if opts.timings, err = flags.GetBool("timings"); err != nil {
		return opts, err
	}
	if opts.maxDiag, err = flags.GetInt("max-diagnostics"); err != nil {
		return opts, err
	}
	if opts.diagFormat, err = flags.GetString("diag-format"); err != nil {
		return opts, err
	}
	opts.diagFormat = strings.ToLower(opts.diagFormat)
	if opts.diagFormat != "pretty" && opts.diagFormat != "json" {
		return opts, fmt.Errorf("invalid --diag-format value %q (expected pretty|json)", opts.diagFormat)
	}
	return opts, nil
}

func (o outputOptions) logger(w io.Writer) *diagfmt.Logger {
	return diagfmt.NewLogger(w, !color.NoColor, o.quiet)
}

// reportFailure prints the diagnostics collected by the pipeline. Errors
// without diagnostics are returned for the caller to print.
func reportFailure(w io.Writer, res *buildpipeline.CompileResult, err error, opts outputOptions, baseDir string) error {
	if !errors.Is(err, buildpipeline.ErrDiagnostics) || res == nil {
		return err
	}
	if opts.diagFormat == "json" {
		if jerr := diagfmt.JSON(w, res.Bag, res.Files, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
			BaseDir:          baseDir,
			Max:              opts.maxDiag,
		}); jerr != nil {
			return jerr
		}
		return errReported
	}
	diagfmt.Pretty(w, res.Bag, res.Files, diagfmt.PrettyOpts{
		Color:   !color.NoColor,
		BaseDir: baseDir,
		Max:     opts.maxDiag,
	})
	n := res.Bag.Len()
	noun := "errors"
	if n == 1 {
		noun = "error"
	}
	fmt.Fprintln(w)
	opts.logger(w).Errorf("could not compile due to %d previous %s", n, noun)
	return errReported
}
