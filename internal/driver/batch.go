package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"quanta/internal/blocks"
	"quanta/internal/codegen"
	"quanta/internal/diag"
	"quanta/internal/observ"
	"quanta/internal/source"
	"quanta/internal/trace"
	"quanta/internal/workspace"
)

// OutputExt is the extension of generated assembly files.
const OutputExt = ".qasm"

// Options configures a batch run.
type Options struct {
	Gen            codegen.Options
	Jobs           int
	MaxDiagnostics int
	// OutDir receives the generated files; empty writes each one next to
	// its workspace file.
	OutDir string
	// NoWrite skips the write stage.
	NoWrite  bool
	Cache    *DiskCache
	Progress ProgressSink
}

// FileResult is the outcome for one workspace file.
type FileResult struct {
	Path    string
	FileID  source.FileID
	Tree    *blocks.Tree
	Output  string
	OutPath string
	Bag     *diag.Bag
	Cached  bool
	Timing  observ.Report
}

// Failed reports whether the file produced errors.
func (r *FileResult) Failed() bool {
	return r.Bag != nil && r.Bag.HasErrors()
}

// OutputPath maps a workspace path to the file its program is written to.
func OutputPath(input, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + OutputExt
	if outDir == "" {
		return filepath.Join(filepath.Dir(input), base)
	}
	return filepath.Join(outDir, base)
}

// Run generates every file in parallel. Per-file problems land in the
// file's Bag; the returned error is reserved for cancellation and for
// batches that cannot start.
func Run(ctx context.Context, files []string, opts Options) (*source.FileSet, []FileResult, error) {
	fileSet := source.NewFileSet()
	if len(files) == 0 {
		return fileSet, nil, nil
	}
	if err := checkOutputCollisions(files, opts.OutDir); err != nil {
		return fileSet, nil, err
	}

	tracer := trace.FromContext(ctx)
	batchSpan := trace.Begin(tracer, trace.ScopeDriver, "batch", trace.ParentSpan(ctx)).
		WithExtra("files", fmt.Sprint(len(files)))
	ctx = trace.WithParent(ctx, batchSpan)

	// FileSet is not safe for concurrent writes, so every file is loaded
	// before the workers start.
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	maxDiag := opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = 100
	}

	emitQueued(opts.Progress, files)
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			res := &results[i]
			res.Path = path
			res.Bag = diag.NewBag(maxDiag)
			if loadErr, ok := loadErrors[path]; ok {
				res.Bag.Add(diag.NewError(diag.IOReadFailed, source.Span{},
					"failed to load file: "+loadErr.Error()))
				emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: loadErr})
				return nil
			}
			res.FileID = fileIDs[path]
			runFile(gctx, fileSet, res, opts)
			return nil
		})
	}
	err := g.Wait()
	batchSpan.End(summarize(results))
	return fileSet, results, err
}

func runFile(ctx context.Context, fs *source.FileSet, res *FileResult, opts Options) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "file", trace.ParentSpan(ctx)).WithExtra("path", res.Path)
	ctx = trace.WithParent(ctx, span)
	timer := observ.NewTimer()
	started := time.Now()
	status := StatusDone
	defer func() {
		res.Timing = timer.Report()
		span.End(string(status))
		emit(opts.Progress, Event{File: res.Path, Stage: StageWrite, Status: status, Elapsed: time.Since(started)})
	}()

	file := fs.Get(res.FileID)
	var key Digest
	if opts.Cache != nil {
		key = cacheKey(file.Hash, opts.Gen)
		if lookupCache(opts.Cache, key, res) {
			status = StatusCached
			trace.Point(tracer, trace.ScopeFile, "cache_hit", res.Path, span.ID())
		}
	}

	if !res.Cached {
		emit(opts.Progress, Event{File: res.Path, Stage: StageLoad, Status: StatusWorking})
		idx := timer.Begin("load")
		read := workspace.Read(fs, res.FileID, diag.BagReporter{Bag: res.Bag})
		timer.End(idx, fmt.Sprintf("%d blocks", read.Blocks))
		res.Tree = read.Tree
		if res.Bag.HasErrors() {
			status = StatusError
			return
		}

		emit(opts.Progress, Event{File: res.Path, Stage: StageGenerate, Status: StatusWorking})
		idx = timer.Begin("generate")
		out, err := codegen.Generate(ctx, res.Tree, opts.Gen)
		timer.End(idx, "")
		if err != nil {
			reportDefect(res, err)
			status = StatusError
			return
		}
		res.Output = out
		if opts.Cache != nil && res.Bag.Len() == 0 {
			storeCache(ctx, opts.Cache, key, res)
		}
	}

	if opts.NoWrite {
		return
	}
	emit(opts.Progress, Event{File: res.Path, Stage: StageWrite, Status: StatusWorking})
	idx := timer.Begin("write")
	res.OutPath = OutputPath(res.Path, opts.OutDir)
	err := writeOutput(res.OutPath, res.Output)
	timer.End(idx, res.OutPath)
	if err != nil {
		res.Bag.Add(diag.NewError(diag.IOWriteFailed, source.Span{File: res.FileID},
			fmt.Sprintf("failed to write %s: %v", res.OutPath, err)))
		status = StatusError
	}
}

func lookupCache(c *DiskCache, key Digest, res *FileResult) bool {
	var p Payload
	ok, err := c.Get(key, &p)
	if err != nil || !ok {
		return false
	}
	tree, err := blocks.UnmarshalSnapshot(p.Snapshot)
	if err != nil {
		return false
	}
	res.Tree = tree
	res.Output = p.Output
	res.Cached = true
	return true
}

func storeCache(ctx context.Context, c *DiskCache, key Digest, res *FileResult) {
	tracer := trace.FromContext(ctx)
	snap, err := blocks.MarshalSnapshot(res.Tree)
	if err == nil {
		err = c.Put(key, &Payload{Source: res.Path, Snapshot: snap, Output: res.Output, Stored: time.Now()})
	}
	if err != nil {
		trace.Point(tracer, trace.ScopeFile, "cache_store_failed", err.Error(), trace.ParentSpan(ctx))
	}
}

// reportDefect turns a generator error into a diagnostic pointing at the
// offending block when it is known.
func reportDefect(res *FileResult, err error) {
	sp := source.Span{File: res.FileID}
	code := diag.GenUnknownShape
	msg := err.Error()
	var d *codegen.Defect
	if errors.As(err, &d) {
		code = d.Code
		msg = d.Msg
		if blk := res.Tree.Get(d.Block); blk != nil {
			sp = blk.Span
		}
	}
	res.Bag.Add(diag.NewError(code, sp, msg))
}

func writeOutput(path, output string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(output), 0o644)
}

func checkOutputCollisions(files []string, outDir string) error {
	seen := make(map[string]string, len(files))
	for _, f := range files {
		out := OutputPath(f, outDir)
		if prev, dup := seen[out]; dup {
			return fmt.Errorf("%s and %s would both be written to %s", prev, f, out)
		}
		seen[out] = f
	}
	return nil
}

// Summary counts batch outcomes.
type Summary struct {
	Files     int
	Generated int
	Cached    int
	Failed    int
}

// Summarize tallies results.
func Summarize(results []FileResult) Summary {
	s := Summary{Files: len(results)}
	for i := range results {
		switch r := &results[i]; {
		case r.Failed():
			s.Failed++
		case r.Cached:
			s.Cached++
		default:
			s.Generated++
		}
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d files: %d generated, %d cached, %d failed", s.Files, s.Generated, s.Cached, s.Failed)
}

func summarize(results []FileResult) string {
	return Summarize(results).String()
}
