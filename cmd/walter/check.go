package main

import (
	"github.com/spf13/cobra"

	"walter/internal/buildpipeline"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [path]",
	Short: "Report errors without producing an executable",
	Long:  "Resolve, lower and link every module, printing diagnostics. No native tools are run.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  checkExecution,
}

func init() {
	checkCmd.Flags().Bool("release", false, "check the release build (debug calls dropped)")
	checkCmd.Flags().Int("jobs", 0, "units compiled in parallel (default: GOMAXPROCS)")
}

func checkExecution(cmd *cobra.Command, args []string) error {
	release, err := cmd.Flags().GetBool("release")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	opts, err := readOutputOptions(cmd)
	if err != nil {
		return err
	}
	tgt, err := resolveTarget(args)
	if err != nil {
		return err
	}
	req := &buildpipeline.CompileRequest{
		SrcDir:         tgt.SrcDir,
		Main:           tgt.Main,
		Name:           tgt.Name,
		Release:        release,
		Jobs:           jobs,
		MaxDiagnostics: opts.maxDiag,
	}
	res, err := buildpipeline.Compile(cmd.Context(), req)
	if opts.timings && res != nil {
		printStageTimings(cmd.ErrOrStderr(), res.Timings, nil)
	}
	if err != nil {
		return reportFailure(cmd.ErrOrStderr(), res, err, opts, tgt.SrcDir)
	}
	opts.logger(cmd.ErrOrStderr()).Infof("%s: %d module(s), no errors", tgt.Name, len(res.Modules))
	return nil
}
