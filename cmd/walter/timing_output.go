package main

import (
	"fmt"
	"io"
	"time"

	"walter/internal/buildpipeline"
	"walter/internal/observ"
)

func printStageTimings(out io.Writer, timings buildpipeline.Timings, timer *observ.Timer) {
	if out == nil {
		return
	}
	for _, stage := range append(buildpipeline.Stages, buildpipeline.StageRun) {
		if timings.Has(stage) {
			fmt.Fprintf(out, "%-7s %8.1f ms\n", stage, toMillis(timings.Duration(stage)))
		}
	}
	if timer != nil {
		fmt.Fprint(out, timer.Summary())
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
