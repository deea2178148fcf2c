package observ_test

import (
	"strings"
	"sync"
	"testing"

	"walter/internal/observ"
)

func TestTimerConcurrent(t *testing.T) {
	timer := observ.NewTimer()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			idx := timer.Begin("unit")
			timer.End(idx, "")
		}()
	}
	wg.Wait()
	if n := len(timer.Report().Phases); n != 8 {
		t.Errorf("got %d phases, want 8", n)
	}
}

func TestSummary(t *testing.T) {
	timer := observ.NewTimer()
	timer.End(timer.Begin("resolve"), "3 modules")
	timer.End(99, "ignored")
	out := timer.Summary()
	for _, want := range []string{"resolve", "// 3 modules", "wall"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary lacks %q:\n%s", want, out)
		}
	}
	var nilTimer *observ.Timer
	if nilTimer.Begin("x") != -1 || len(nilTimer.Report().Phases) != 0 {
		t.Error("nil timer should be inert")
	}
}
