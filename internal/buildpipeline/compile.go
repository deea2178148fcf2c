// Package buildpipeline orchestrates the compilation process.
package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"walter/internal/buildcache"
	"walter/internal/compiler"
	"walter/internal/diag"
	"walter/internal/ir"
	"walter/internal/modules"
	"walter/internal/observ"
	"walter/internal/source"
	"walter/internal/trace"
	"walter/internal/version"
)

// ErrDiagnostics means the program has errors; they are in the result's bag.
var ErrDiagnostics = errors.New("compilation failed")

// CompileRequest configures the shared compilation pipeline.
type CompileRequest struct {
	// SrcDir is the source root; Main names the root module file in it.
	SrcDir string
	Main   string
	// Name becomes the name of the linked module.
	Name    string
	Release bool
	// Jobs bounds parallel unit compilation; zero uses GOMAXPROCS.
	Jobs           int
	MaxDiagnostics int
	Cache          *buildcache.Cache
	Progress       ProgressSink
	Timer          *observ.Timer
}

// CompileResult captures compilation artefacts and stage timings.
type CompileResult struct {
	Files   *source.FileSet
	Bag     *diag.Bag
	Modules modules.Set
	Table   *compiler.FuncTable
	// Units are ordered like Modules.Paths().
	Units     []*ir.Module
	Linked    *ir.Module
	CacheHits int
	Timings   Timings
}

// Compile resolves, lowers and links the program rooted at req.SrcDir.
// Program errors are collected in the result's bag and reported as
// ErrDiagnostics; other errors are returned as is.
func Compile(ctx context.Context, req *CompileRequest) (*CompileResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return nil, fmt.Errorf("missing compile request")
	}
	maxDiag := req.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = 100
	}
	res := &CompileResult{Files: source.NewFileSet(), Bag: diag.NewBag(maxDiag)}
	name := req.Name
	if name == "" {
		name = string(modules.Root)
	}

	loader := modules.NewFileLoader(req.SrcDir, req.Main, res.Files, res.Bag)
	if err := runStage(ctx, req, res, StageResolve, func(ctx context.Context) error {
		return resolve(ctx, loader, res)
	}); err != nil {
		return res, err
	}
	files := make([]string, 0, len(res.Modules))
	for _, p := range res.Modules.Paths() {
		files = append(files, displayPath(req.SrcDir, loader.FilePath(p)))
	}
	emitQueued(req.Progress, files)

	if err := runStage(ctx, req, res, StageLower, func(ctx context.Context) error {
		table, err := compiler.CollectSignatures(res.Modules)
		if err != nil {
			report(res.Bag, err)
			return ErrDiagnostics
		}
		res.Table = table
		return lowerUnits(ctx, req, res, loader, files)
	}); err != nil {
		return res, err
	}

	err := runStage(ctx, req, res, StageLink, func(context.Context) error {
		linked, err := ir.Link(name, res.Units)
		if err != nil {
			report(res.Bag, err)
			return ErrDiagnostics
		}
		if err := ir.Verify(linked); err != nil {
			res.Bag.Add(diag.NewError(diag.InternalVerifyFailed, source.Span{}, "linked module failed verification: "+err.Error()))
			return ErrDiagnostics
		}
		res.Linked = linked
		return nil
	})
	return res, err
}

// runStage wraps one stage with progress events, a trace span and timings.
func runStage(ctx context.Context, req *CompileRequest, res *CompileResult, stage Stage, fn func(context.Context) error) error {
	ctx, span := trace.Begin(ctx, trace.ScopeStage, string(stage))
	idx := req.Timer.Begin(string(stage))
	emitStage(req.Progress, stage, StatusWorking, nil, 0)
	start := time.Now()

	err := fn(ctx)

	elapsed := time.Since(start)
	req.Timer.End(idx, "")
	span.EndErr(err)
	res.Timings.Set(stage, elapsed)
	if err != nil {
		emitStage(req.Progress, stage, StatusError, err, elapsed)
		return err
	}
	emitStage(req.Progress, stage, StatusDone, nil, elapsed)
	return nil
}

func resolve(ctx context.Context, loader *modules.FileLoader, res *CompileResult) error {
	root, err := loader.LoadRoot(ctx)
	if err == nil {
		res.Modules, err = modules.Resolve(ctx, root, loader)
	}
	if err == nil {
		return nil
	}
	var syn *modules.SyntaxError
	var ie *modules.ImportError
	switch {
	case errors.As(err, &syn):
		// diagnostics are already in the bag
	case errors.As(err, &ie):
		res.Bag.Add(ie.Diagnostic())
	default:
		return err
	}
	return ErrDiagnostics
}

func lowerUnits(ctx context.Context, req *CompileRequest, res *CompileResult, loader *modules.FileLoader, files []string) error {
	paths := res.Modules.Paths()
	units := make([]*ir.Module, len(paths))
	errs := make([]error, len(paths))
	hits := make([]bool, len(paths))

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	digest := res.Table.Digest()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			uctx, span := trace.Begin(gctx, trace.ScopeModule, "unit:"+p.UnitName())
			idx := req.Timer.Begin("lower " + p.UnitName())
			emitFile(req.Progress, files[i], StageLower, StatusWorking, nil, 0)
			start := time.Now()

			units[i], hits[i], errs[i] = lowerUnit(uctx, req, res, loader, p, digest)

			req.Timer.End(idx, "")
			span.WithExtra("cached", strconv.FormatBool(hits[i])).EndErr(errs[i])
			status := StatusDone
			switch {
			case errs[i] != nil:
				status = StatusError
			case hits[i]:
				status = StatusCached
			}
			emitFile(req.Progress, files[i], StageLower, status, errs[i], time.Since(start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := false
	for i, err := range errs {
		if err == nil {
			if hits[i] {
				res.CacheHits++
			}
			continue
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		report(res.Bag, err)
		failed = true
	}
	if failed {
		return ErrDiagnostics
	}
	res.Units = units
	return nil
}

func lowerUnit(ctx context.Context, req *CompileRequest, res *CompileResult, loader *modules.FileLoader, p modules.Path, digest string) (*ir.Module, bool, error) {
	var key buildcache.Key
	useCache := req.Cache != nil
	if useCache {
		id, ok := res.Files.GetLatest(loader.FilePath(p))
		if !ok {
			useCache = false
		} else {
			key = buildcache.KeyFor(buildcache.KeyInput{
				Compiler: version.Version,
				Unit:     p.UnitName(),
				Source:   res.Files.Get(id).Hash,
				Table:    digest,
				Release:  req.Release,
			})
			m, ok, err := req.Cache.Get(key)
			if err != nil {
				trace.Point(ctx, trace.ScopeDetail, "cache", "read failed: "+err.Error())
			}
			if ok {
				return m, true, nil
			}
		}
	}

	m, err := compiler.CompileUnit(p, res.Modules[p], res.Table, compiler.Options{Release: req.Release})
	if err != nil {
		return nil, false, err
	}
	if useCache {
		if err := req.Cache.Put(key, m); err != nil {
			trace.Point(ctx, trace.ScopeDetail, "cache", "write failed: "+err.Error())
		}
	}
	return m, false, nil
}

// report adds the diagnostics carried by err to bag.
func report(bag *diag.Bag, err error) {
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range multi.Unwrap() {
			report(bag, e)
		}
		return
	}
	if d, ok := compiler.AsDiagnostic(err); ok {
		bag.Add(d)
		return
	}
	var le *ir.LinkError
	if errors.As(err, &le) {
		bag.Add(diag.NewError(le.Code, source.Span{}, le.Error()))
		return
	}
	var ie *modules.ImportError
	if errors.As(err, &ie) {
		bag.Add(ie.Diagnostic())
		return
	}
	bag.Add(diag.NewError(diag.InternalUnexpectedNode, source.Span{}, err.Error()))
}

func displayPath(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}
