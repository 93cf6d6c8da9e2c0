package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tm := NewTimer()
	tm.now = func() time.Time { return clock }

	load := tm.Begin("load")
	clock = clock.Add(2 * time.Millisecond)
	tm.End(load, "3 files")
	gen := tm.Begin("generate")
	clock = clock.Add(5 * time.Millisecond)
	tm.End(gen, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 || r.TotalMS != 7 {
		t.Fatalf("report = %+v", r)
	}
	if r.Phases[0].Note != "3 files" || r.Phases[1].DurationMS != 5 {
		t.Errorf("phases = %+v", r.Phases)
	}
	s := tm.Summary()
	for _, want := range []string{"load", "; 3 files", "generate", "total"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
}
