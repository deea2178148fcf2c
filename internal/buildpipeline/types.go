package buildpipeline

import "time"

// Stage describes a high-level pipeline phase.
type Stage string

const (
	// StageResolve loads and parses the import graph.
	StageResolve Stage = "resolve"
	// StageLower compiles modules into units.
	StageLower Stage = "lower"
	// StageLink folds units into one module.
	StageLink Stage = "link"
	// StageEmit renders LLVM IR.
	StageEmit Stage = "emit"
	// StageNative runs clang and the native linker.
	StageNative Stage = "native"
	// StageRun executes the built program.
	StageRun Stage = "run"
)

// Stages lists the build stages in execution order.
var Stages = []Stage{StageResolve, StageLower, StageLink, StageEmit, StageNative}

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	// StatusCached marks a unit taken from the build cache.
	StatusCached Status = "cached"
	StatusDone   Status = "done"
	StatusError  Status = "error"
)

// Event reports progress for a file (or for the overall pipeline when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Units compiled in parallel report
// from several goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds stage durations.
type Timings struct {
	stages map[Stage]time.Duration
}

func (t *Timings) ensure() {
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
}

// Set stores a duration for the given stage.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	t.ensure()
	t.stages[stage] = dur
}

// Has reports whether a duration for stage is recorded.
func (t Timings) Has(stage Stage) bool {
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	return t.stages[stage]
}

// Sum returns the sum of durations across the provided stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}

// Merge copies the stages recorded in other.
func (t *Timings) Merge(other Timings) {
	for stage, dur := range other.stages {
		t.Set(stage, dur)
	}
}
