package buildpipeline

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"walter/internal/backend/llvm"
	"walter/internal/trace"
	runtimeembed "walter/runtime"
)

// Toolchain names the external programs used for native code.
type Toolchain struct {
	Clang string
	Ar    string
}

func (t Toolchain) withDefaults() Toolchain {
	if t.Clang == "" {
		t.Clang = "clang"
	}
	if t.Ar == "" {
		t.Ar = "ar"
	}
	return t
}

// BuildRequest configures output generation for a compilation.
type BuildRequest struct {
	CompileRequest
	OutputName string
	// OutputRoot receives build/<profile>/.
	OutputRoot string
	// Triple is passed to clang as -target and written into the IR.
	Triple string
	// StdPath is a prebuilt std archive; empty builds the embedded runtime.
	StdPath string
	NoStd   bool
	// Assembly stops after producing <name>.s.
	Assembly bool
	Strip    bool
	// EmitLLVM keeps out.ll next to the output.
	EmitLLVM      bool
	KeepTmp       bool
	PrintCommands bool
	// Stdout receives printed commands and tool output; nil means os.Stdout.
	Stdout io.Writer
	Tools  Toolchain
}

// BuildResult captures build artefacts and timings.
type BuildResult struct {
	*CompileResult
	OutputPath string
	TmpDir     string
	LLVMPath   string
}

// Profile is "release" or "debug".
func (r *BuildRequest) Profile() string {
	if r.Release {
		return "release"
	}
	return "debug"
}

// Build compiles the program and produces a native executable (or an
// assembly file).
func Build(ctx context.Context, req *BuildRequest) (BuildResult, error) {
	var result BuildResult
	if req == nil {
		return result, fmt.Errorf("missing build request")
	}
	reqCopy := *req
	req = &reqCopy
	req.Tools = req.Tools.withDefaults()
	if req.Stdout == nil {
		req.Stdout = os.Stdout
	}
	if req.OutputName == "" {
		req.OutputName = "a.out"
	}
	if req.Name == "" {
		req.Name = req.OutputName
	}

	compileRes, err := Compile(ctx, &req.CompileRequest)
	result.CompileResult = compileRes
	if err != nil {
		return result, err
	}

	outputRoot := req.OutputRoot
	if outputRoot == "" {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			outputRoot = cwd
		} else {
			outputRoot = "."
		}
	}
	outputDir := filepath.Join(outputRoot, "build", req.Profile())
	tmpDir := filepath.Join(outputDir, ".tmp")
	result.OutputPath = filepath.Join(outputDir, req.OutputName)
	if req.Assembly {
		result.OutputPath += ".s"
	}
	result.TmpDir = tmpDir
	if err := os.MkdirAll(tmpDir, 0o750); err != nil {
		return result, fmt.Errorf("failed to create output dir: %w", err)
	}
	keepTmp := req.KeepTmp
	defer func() {
		if !keepTmp {
			_ = os.RemoveAll(tmpDir)
		}
	}()

	llPath := filepath.Join(tmpDir, "out.ll")
	err = runStage(ctx, &req.CompileRequest, compileRes, StageEmit, func(context.Context) error {
		text, err := llvm.EmitModule(compileRes.Linked, llvm.Options{Triple: req.Triple})
		if err != nil {
			return fmt.Errorf("LLVM emit failed: %w", err)
		}
		if err := os.WriteFile(llPath, []byte(text), 0o600); err != nil {
			return fmt.Errorf("failed to write LLVM IR: %w", err)
		}
		if req.EmitLLVM {
			result.LLVMPath = filepath.Join(outputDir, req.OutputName+".ll")
			if err := os.WriteFile(result.LLVMPath, []byte(text), 0o600); err != nil {
				return fmt.Errorf("failed to write LLVM IR: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	err = runStage(ctx, &req.CompileRequest, compileRes, StageNative, func(ctx context.Context) error {
		return buildNative(ctx, req, llPath, tmpDir, result.OutputPath)
	})
	return result, err
}

func buildNative(ctx context.Context, req *BuildRequest, llPath, tmpDir, outputPath string) error {
	if _, err := exec.LookPath(req.Tools.Clang); err != nil {
		return fmt.Errorf("clang not found; install with: sudo apt-get update && sudo apt-get install -y clang llvm")
	}
	opt := "-O0"
	if req.Release {
		opt = "-O3"
	}
	args := []string{"-x", "ir", opt}
	if req.Triple != "" {
		args = append(args, "-target", req.Triple)
	}
	if req.Assembly {
		args = append(args, "-S", llPath, "-o", outputPath)
		return runCommand(ctx, req, req.Tools.Clang, args...)
	}
	objPath := filepath.Join(tmpDir, "out.o")
	args = append(args, "-c", llPath, "-o", objPath)
	if err := runCommand(ctx, req, req.Tools.Clang, args...); err != nil {
		return err
	}

	linkArgs := []string{objPath}
	if !req.NoStd {
		lib := req.StdPath
		if lib == "" {
			var err error
			if lib, err = buildEmbeddedStd(ctx, req, tmpDir); err != nil {
				return err
			}
		} else if _, err := os.Stat(lib); err != nil {
			return fmt.Errorf("std archive: %w", err)
		}
		linkArgs = append(linkArgs, lib)
	}
	if req.Triple != "" {
		linkArgs = append(linkArgs, "-target", req.Triple)
	}
	linkArgs = append(linkArgs, "-o", outputPath)
	if req.Strip {
		linkArgs = append(linkArgs, "-s")
	}
	return runCommand(ctx, req, req.Tools.Clang, linkArgs...)
}

// buildEmbeddedStd compiles the embedded C runtime into libstd.a.
func buildEmbeddedStd(ctx context.Context, req *BuildRequest, tmpDir string) (string, error) {
	runtimeDir, sources, err := extractNativeRuntime(tmpDir)
	if err != nil {
		return "", err
	}
	objs := make([]string, 0, len(sources))
	for _, src := range sources {
		obj := strings.TrimSuffix(src, filepath.Ext(src)) + ".o"
		args := []string{"-c", "-std=c11", "-O2"}
		if req.Triple != "" {
			args = append(args, "-target", req.Triple)
		}
		args = append(args, src, "-o", obj)
		if err := runCommand(ctx, req, req.Tools.Clang, args...); err != nil {
			return "", err
		}
		objs = append(objs, obj)
	}
	if _, err := exec.LookPath(req.Tools.Ar); err != nil {
		return "", fmt.Errorf("ar not found; install with: sudo apt-get update && sudo apt-get install -y llvm binutils")
	}
	libPath := filepath.Join(runtimeDir, "libstd.a")
	if err := runCommand(ctx, req, req.Tools.Ar, append([]string{"rcs", libPath}, objs...)...); err != nil {
		return "", err
	}
	return libPath, nil
}

func extractNativeRuntime(tmpDir string) (runtimeDir string, sources []string, err error) {
	runtimeDir = filepath.Join(tmpDir, "std")
	if err := os.MkdirAll(runtimeDir, 0o750); err != nil {
		return "", nil, fmt.Errorf("failed to create runtime dir: %w", err)
	}
	fsys := runtimeembed.NativeRuntimeFS()
	walkErr := fs.WalkDir(fsys, "native", func(entryPath string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(fsys, entryPath)
		if err != nil {
			return err
		}
		dst := filepath.Join(runtimeDir, filepath.Base(entryPath))
		if err := os.WriteFile(dst, data, 0o600); err != nil {
			return err
		}
		if strings.HasSuffix(entryPath, ".c") {
			sources = append(sources, dst)
		}
		return nil
	})
	if walkErr != nil {
		return "", nil, fmt.Errorf("failed to extract embedded runtime sources: %w", walkErr)
	}
	if len(sources) == 0 {
		return "", nil, fmt.Errorf("embedded runtime sources missing (build bug)")
	}
	sort.Strings(sources)
	return runtimeDir, sources, nil
}

func runCommand(ctx context.Context, req *BuildRequest, name string, args ...string) error {
	line := name + " " + strings.Join(args, " ")
	if req.PrintCommands {
		if _, err := fmt.Fprintln(req.Stdout, line); err != nil {
			return fmt.Errorf("failed to print command: %w", err)
		}
	}
	trace.Point(ctx, trace.ScopeDetail, "exec", line)
	start := time.Now()
	// #nosec G204 -- tool names come from configuration
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = req.Stdout
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("%s: %w", name, err)
		}
		return fmt.Errorf("%s: %s", name, msg)
	}
	trace.Point(ctx, trace.ScopeDetail, "exec done", time.Since(start).String())
	return nil
}
