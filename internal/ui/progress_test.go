package ui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"quanta/internal/driver"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.xml", 20, "short.xml"},
		{"workspaces/very/long/name.xml", 12, "worksp..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
	if w := runewidth.StringWidth(truncate("日本語のファイル名.xml", 10)); w > 10 {
		t.Errorf("wide truncation is %d columns", w)
	}
}

func TestApplyEvent(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("generate", []string{"a.xml", "b.xml"}, events).(*progressModel)

	m.applyEvent(driver.Event{File: "a.xml", Stage: driver.StageGenerate, Status: driver.StatusWorking})
	if m.items[0].status != "generating" {
		t.Errorf("status = %q", m.items[0].status)
	}
	if got := m.percent(); got != 0.3 {
		t.Errorf("percent = %v, want 0.3", got)
	}

	m.applyEvent(driver.Event{File: "a.xml", Stage: driver.StageWrite, Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "b.xml", Stage: driver.StageLoad, Status: driver.StatusCached})
	if m.finished() != 2 || m.percent() != 1 {
		t.Errorf("finished = %d, percent = %v", m.finished(), m.percent())
	}
	m.applyEvent(driver.Event{File: "unknown.xml", Status: driver.StatusError})

	view := m.View()
	for _, want := range []string{"[2/2]", "a.xml", "cached"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestUpdateQuitsWhenEventsClose(t *testing.T) {
	events := make(chan driver.Event)
	close(events)
	m := NewProgressModel("generate", []string{"a.xml"}, events).(*progressModel)
	msg := m.listenForEvent()()
	if _, ok := msg.(doneMsg); !ok {
		t.Fatalf("msg = %T, want doneMsg", msg)
	}
	if _, cmd := m.Update(msg); cmd == nil || !m.done {
		t.Error("model did not quit")
	}
}
