package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"off", LevelOff, false},
		{"PHASE", LevelPhase, false},
		{"detail", LevelDetail, false},
		{"debug", LevelDebug, false},
		{"loud", LevelOff, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestShouldEmit(t *testing.T) {
	if !LevelPhase.ShouldEmit(ScopePass) || LevelPhase.ShouldEmit(ScopeFile) {
		t.Errorf("phase level filters wrong")
	}
	if !LevelDetail.ShouldEmit(ScopeFile) || LevelDetail.ShouldEmit(ScopeBlock) {
		t.Errorf("detail level filters wrong")
	}
	if !LevelDebug.ShouldEmit(ScopeBlock) {
		t.Errorf("debug must emit block scope")
	}
	if LevelError.ShouldEmit(ScopeDriver) {
		t.Errorf("error level must not stream")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	span := Begin(tr, ScopePass, "generate", 0)
	Begin(tr, ScopeBlock, "root", span.ID()).End("")
	span.WithExtra("roots", "3").End("ok")

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "→ pass:generate") {
		t.Errorf("begin line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "← pass:generate (ok) {roots=3}") {
		t.Errorf("end line = %q", lines[1])
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeFile, "cache-hit", "a.xml", 0)
	var ev map[string]any
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("invalid ndjson %q: %v", buf.String(), err)
	}
	if ev["kind"] != "point" || ev["scope"] != "file" || ev["detail"] != "a.xml" {
		t.Errorf("event = %v", ev)
	}
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for i := 0; i < 5; i++ {
		r.Emit(&Event{Kind: KindPoint, Scope: ScopeBlock, Name: string(rune('a' + i))})
	}
	got := r.Snapshot()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Name != "c" || got[2].Name != "e" {
		t.Errorf("snapshot order = %q %q %q", got[0].Name, got[1].Name, got[2].Name)
	}
}

func TestMultiTracerRing(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDetail, Mode: ModeBoth, Output: &buf, RingSize: 8})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Begin(tr, ScopeDriver, "gen", 0).End("")
	ring := tr.(*MultiTracer).Ring()
	if ring == nil || len(ring.Snapshot()) != 2 {
		t.Fatalf("ring did not receive events")
	}
	if buf.Len() == 0 {
		t.Errorf("stream did not receive events")
	}
}

func TestDisabledSpanIsInert(t *testing.T) {
	span := Begin(Nop, ScopeDriver, "x", 0)
	if span.ID() != 0 || span.End("") != 0 {
		t.Errorf("nop span should be inert")
	}
}

func TestContextPropagation(t *testing.T) {
	r := NewRingTracer(4, LevelDebug)
	ctx := WithTracer(context.Background(), r)
	if FromContext(ctx) != Tracer(r) {
		t.Fatalf("FromContext did not return attached tracer")
	}
	if FromContext(context.Background()) != Nop {
		t.Errorf("missing tracer should be Nop")
	}
	span := Begin(r, ScopePass, "p", 0)
	if ParentSpan(WithParent(ctx, span)) != span.ID() {
		t.Errorf("parent span not propagated")
	}
}

func TestHeartbeat(t *testing.T) {
	r := NewRingTracer(16, LevelPhase)
	h := StartHeartbeat(r, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for len(r.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()
	if len(r.Snapshot()) == 0 {
		t.Fatalf("no heartbeat recorded")
	}
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Errorf("heartbeat started on disabled tracer")
	}
}
