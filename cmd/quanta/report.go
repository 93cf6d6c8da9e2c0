package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"quanta/internal/diagfmt"
	"quanta/internal/driver"
	"quanta/internal/observ"
	"quanta/internal/source"
)

func readFormat(value string) (string, error) {
	switch value {
	case "pretty", "json":
		return value, nil
	}
	return "", &flagError{flag: "format", value: value, want: "pretty|json"}
}

// printDiagnostics renders every file's bag. JSON output is one object
// keyed by workspace path.
func printDiagnostics(w io.Writer, format string, fs *source.FileSet, results []driver.FileResult) error {
	if format == "json" {
		out := make(map[string]diagfmt.DiagnosticsOutput, len(results))
		for i := range results {
			r := &results[i]
			if r.Bag == nil {
				continue
			}
			r.Bag.Sort()
			out[r.Path] = diagfmt.BuildDiagnosticsOutput(r.Bag, fs, diagfmt.JSONOpts{
				IncludePositions: true,
				IncludeNotes:     true,
			})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	opts := diagfmt.PrettyOpts{Color: !color.NoColor, ShowNotes: true}
	for i := range results {
		r := &results[i]
		if r.Bag == nil || r.Bag.Len() == 0 {
			continue
		}
		r.Bag.Sort()
		r.Bag.Dedup()
		diagfmt.Pretty(w, r.Bag, fs, opts)
	}
	return nil
}

// printTimings writes the run's phases followed by per-file totals.
func printTimings(w io.Writer, timer *observ.Timer, results []driver.FileResult) {
	fmt.Fprint(w, timer.Summary())
	for i := range results {
		r := &results[i]
		note := ""
		if r.Cached {
			note = " (cached)"
		}
		fmt.Fprintf(w, "  %-40s %9.2f ms%s\n", r.Path, r.Timing.TotalMS, note)
	}
}
