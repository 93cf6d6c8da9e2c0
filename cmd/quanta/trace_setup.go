package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quanta/internal/trace"
)

var activeTrace struct {
	tracer    trace.Tracer
	format    trace.Format
	heartbeat *trace.Heartbeat
	done      bool
}

// setupTracing reads the trace flags and attaches a tracer to the command
// context.
func setupTracing(cmd *cobra.Command) error {
	output, err := rootString(cmd, "trace")
	if err != nil {
		return err
	}
	levelStr, err := rootString(cmd, "trace-level")
	if err != nil {
		return err
	}
	modeStr, err := rootString(cmd, "trace-mode")
	if err != nil {
		return err
	}
	formatStr, err := rootString(cmd, "trace-format")
	if err != nil {
		return err
	}
	ringSize, err := rootInt(cmd, "trace-ring-size")
	if err != nil {
		return err
	}
	heartbeat, err := cmd.Root().PersistentFlags().GetDuration("trace-heartbeat")
	if err != nil {
		return fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return fmt.Errorf("invalid trace level: %w", err)
	}
	// --trace alone means phase-level tracing.
	if level == trace.LevelOff && output != "" {
		level = trace.LevelPhase
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(ctx, trace.Nop))
		return nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return fmt.Errorf("invalid trace mode: %w", err)
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return fmt.Errorf("invalid trace format: %w", err)
	}
	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: output,
		RingSize:   ringSize,
	})
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx = trace.WithTracer(ctx, tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	activeTrace.tracer = tracer
	activeTrace.format = format
	if heartbeat > 0 {
		activeTrace.heartbeat = trace.StartHeartbeat(tracer, heartbeat)
	}
	return nil
}

// finishTracing flushes and closes the tracer once. A failed run dumps the
// ring buffer, if any, to stderr.
func finishTracing(cmd *cobra.Command, failed bool) {
	t := activeTrace.tracer
	if t == nil || activeTrace.done {
		return
	}
	activeTrace.done = true
	if activeTrace.heartbeat != nil {
		activeTrace.heartbeat.Stop()
	}
	if failed {
		if ring := ringOf(t); ring != nil {
			format := activeTrace.format
			if format == trace.FormatAuto {
				format = trace.FormatText
			}
			if err := ring.Dump(os.Stderr, format); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
			}
		}
	}
	if err := t.Flush(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
	}
	if err := t.Close(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
	}
}

func ringOf(t trace.Tracer) *trace.RingTracer {
	switch t := t.(type) {
	case *trace.RingTracer:
		return t
	case *trace.MultiTracer:
		return t.Ring()
	}
	return nil
}
