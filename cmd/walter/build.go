package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"walter/internal/buildcache"
	"walter/internal/buildpipeline"
	"walter/internal/modules"
	"walter/internal/observ"
	"walter/internal/ui"
	"walter/internal/watch"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [path]",
	Short: "Build a walter project or a single .rl file",
	Long:  "Build a walter project using walter.toml, or a single .rl file, into build/<debug|release>/.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  buildExecution,
}

func init() {
	addBuildFlags(buildCmd)
	buildCmd.Flags().Bool("watch", false, "rebuild when source files change")
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("release", false, "optimize for release (-O3, debug calls dropped)")
	cmd.Flags().String("target", "", "target triple (default: host, or [build].target)")
	cmd.Flags().String("std", "", "prebuilt std archive (default: [build].std, or the embedded runtime)")
	cmd.Flags().Bool("no-std", false, "do not link the std library")
	cmd.Flags().Bool("emit-asm", false, "stop after producing assembly")
	cmd.Flags().Bool("strip", false, "strip symbols from the executable")
	cmd.Flags().Bool("emit-llvm", false, "write LLVM IR next to the output")
	cmd.Flags().Bool("keep-tmp", false, "preserve build/<profile>/.tmp contents")
	cmd.Flags().Bool("print-commands", false, "print clang/ar invocations")
	cmd.Flags().Int("jobs", 0, "units compiled in parallel (default: GOMAXPROCS)")
	cmd.Flags().Bool("no-cache", false, "do not read or write the unit cache")
	cmd.Flags().String("ui", "auto", "user interface (auto|on|off)")
	cmd.Flags().String("cc", "clang", "C/LLVM compiler driver")
	cmd.Flags().String("ar", "ar", "archiver for the std runtime")
}

type buildFlags struct {
	release, noStd, asm, strip, emitLLVM, keepTmp, printCmds, noCache bool
	triple, std, cc, ar                                               string
	jobs                                                              int
	ui                                                                uiMode
}

func readBuildFlags(cmd *cobra.Command) (buildFlags, error) {
	var f buildFlags
	flags := cmd.Flags()
	bools := []struct {
		name string
		dst  *bool
	}{
		{"release", &f.release}, {"no-std", &f.noStd}, {"emit-asm", &f.asm},
		{"strip", &f.strip}, {"emit-llvm", &f.emitLLVM}, {"keep-tmp", &f.keepTmp},
		{"print-commands", &f.printCmds}, {"no-cache", &f.noCache},
	}
	for _, b := range bools {
		v, err := flags.GetBool(b.name)
		if err != nil {
			return f, err
		}
		*b.dst = v
	}
	strs := []struct {
		name string
		dst  *string
	}{
		{"target", &f.triple}, {"std", &f.std}, {"cc", &f.cc}, {"ar", &f.ar},
	}
	for _, s := range strs {
		v, err := flags.GetString(s.name)
		if err != nil {
			return f, err
		}
		*s.dst = v
	}
	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return f, err
	}
	if jobs < 0 {
		return f, fmt.Errorf("--jobs must not be negative")
	}
	f.jobs = jobs
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return f, err
	}
	if f.ui, err = readUIMode(uiValue); err != nil {
		return f, err
	}
	if f.noStd && f.std != "" {
		return f, fmt.Errorf("--std and --no-std are mutually exclusive")
	}
	return f, nil
}

// buildRequest merges flags over the target's manifest settings.
func buildRequest(tgt target, f buildFlags, opts outputOptions, stdout io.Writer) (*buildpipeline.BuildRequest, error) {
	req := &buildpipeline.BuildRequest{
		CompileRequest: buildpipeline.CompileRequest{
			SrcDir:         tgt.SrcDir,
			Main:           tgt.Main,
			Name:           tgt.Name,
			Release:        f.release,
			Jobs:           f.jobs,
			MaxDiagnostics: opts.maxDiag,
		},
		OutputName:    tgt.Name,
		OutputRoot:    tgt.Root,
		Triple:        tgt.Triple,
		StdPath:       tgt.StdPath,
		NoStd:         f.noStd,
		Assembly:      f.asm,
		Strip:         f.strip,
		EmitLLVM:      f.emitLLVM,
		KeepTmp:       f.keepTmp,
		PrintCommands: f.printCmds,
		Stdout:        stdout,
		Tools:         buildpipeline.Toolchain{Clang: f.cc, Ar: f.ar},
	}
	if f.triple != "" {
		req.Triple = f.triple
	}
	if f.std != "" {
		req.StdPath = f.std
	}
	if opts.timings {
		req.Timer = observ.NewTimer()
	}
	if !f.noCache {
		cache, err := buildcache.Open("walter")
		if err != nil {
			return nil, fmt.Errorf("open build cache: %w", err)
		}
		req.Cache = cache
	}
	return req, nil
}

// runBuild drives one build with the chosen progress display and reports
// its outcome.
func runBuild(ctx context.Context, cmd *cobra.Command, tgt target, f buildFlags, opts outputOptions) (buildpipeline.BuildResult, error) {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	req, err := buildRequest(tgt, f, opts, stdout)
	if err != nil {
		return buildpipeline.BuildResult{}, err
	}

	var res buildpipeline.BuildResult
	switch {
	case !opts.quiet && !f.printCmds && shouldUseTUI(f.ui):
		err = ui.Run(ctx, "walter build "+tgt.Name, stdout, func(sink buildpipeline.ProgressSink) error {
			req.Progress = sink
			var buildErr error
			res, buildErr = buildpipeline.Build(ctx, req)
			return buildErr
		})
	default:
		if f.ui == uiModeOff && !opts.quiet {
			req.Progress = &ui.LineSink{Out: stderr}
		}
		res, err = buildpipeline.Build(ctx, req)
	}
	if opts.timings {
		printStageTimings(stderr, timingsOf(res), req.Timer)
	}
	if err != nil {
		return res, reportFailure(stderr, res.CompileResult, err, opts, tgt.SrcDir)
	}

	log := opts.logger(stderr)
	if f.keepTmp {
		log.Infof("tmp dir: %s", formatPathForOutput(tgt.Root, res.TmpDir))
	}
	if res.LLVMPath != "" {
		log.Infof("LLVM IR: %s", formatPathForOutput(tgt.Root, res.LLVMPath))
	}
	log.Infof("built %s (%d/%d units cached)", formatPathForOutput(tgt.Root, res.OutputPath), res.CacheHits, len(res.Units))
	return res, nil
}

func timingsOf(res buildpipeline.BuildResult) buildpipeline.Timings {
	if res.CompileResult == nil {
		return buildpipeline.Timings{}
	}
	return res.Timings
}

func buildExecution(cmd *cobra.Command, args []string) error {
	f, err := readBuildFlags(cmd)
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
	watchMode, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return err
	}
	if !watchMode {
		_, err = runBuild(cmd.Context(), cmd, tgt, f, opts)
		return err
	}

	// the interactive display would fight with repeated builds
	if f.ui == uiModeAuto {
		f.ui = uiModeOff
	}
	w, err := watch.New(tgt.SrcDir, modules.Ext, watch.DefaultDebounce)
	if err != nil {
		return fmt.Errorf("watch %s: %w", tgt.SrcDir, err)
	}
	log := opts.logger(cmd.ErrOrStderr())
	workers := f.jobs
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	log.Infof("watching %s (%d workers)", formatPathForOutput(tgt.Root, tgt.SrcDir), workers)
	err = w.Run(cmd.Context(), func(ctx context.Context, changed []string) error {
		if len(changed) > 0 {
			log.Infof("%d file(s) changed, rebuilding", len(changed))
		}
		_, err := runBuild(ctx, cmd, tgt, f, opts)
		return err
	}, func(err error) {
		if !errors.Is(err, errReported) {
			log.Errorf("%v", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
