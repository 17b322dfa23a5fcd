package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"trebuchet/internal/calibration"
	"trebuchet/internal/diag"
	"trebuchet/internal/lexer"
	"trebuchet/internal/logging"
	"trebuchet/internal/observ"
	"trebuchet/internal/source"
	"trebuchet/internal/trace"
)

const defaultMaxDiagnostics = 64

// Options configures a summation run.
type Options struct {
	Mode           lexer.Mode
	MaxDiagnostics int
	Jobs           int          // 0 = GOMAXPROCS
	Cache          *DiskCache   // nil отключает кэш
	Logger         *slog.Logger // nil = молчим
	Timings        bool
	Progress       ProgressSink // nil = без событий
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return defaultMaxDiagnostics
	}
	return o.MaxDiagnostics
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return logging.NewNop()
	}
	return o.Logger
}

// SumResult is the outcome of summing one input file.
type SumResult struct {
	Path   string
	FileID source.FileID
	Result calibration.Result
	Bag    *diag.Bag
	Cached bool
	Timing *observ.Report
	Err    error
}

// Total returns the file total, or zero when the run failed.
func (r *SumResult) Total() int {
	if r == nil || r.Err != nil {
		return 0
	}
	return r.Result.Total
}

// SumFile loads path and sums its calibration values.
// The returned result carries diagnostics even when err is non-nil.
func SumFile(ctx context.Context, path string, opts Options) (*source.FileSet, *SumResult, error) {
	fileSet := source.NewFileSetWithBase(filepath.Dir(path))
	timer := newTimer(opts)
	doneLoad := timer.Track(observ.StageLoad)
	fileID, loadErr := fileSet.Load(path)
	doneLoad(path)

	res := sumLoaded(ctx, fileSet, path, fileID, loadErr, timer, opts)
	return fileSet, res, res.Err
}

func newTimer(opts Options) *observ.Timer {
	if !opts.Timings {
		return nil
	}
	return observ.NewTimer()
}

// sumLoaded runs the fold over an already loaded file. loadErr short-circuits it.
func sumLoaded(ctx context.Context, fileSet *source.FileSet, path string, fileID source.FileID, loadErr error, timer *observ.Timer, opts Options) *SumResult {
	log := opts.logger()
	res := &SumResult{Path: path, FileID: fileID, Bag: diag.NewBag(opts.maxDiagnostics())}
	reporter := diag.BagReporter{Bag: res.Bag}
	defer func() {
		if timer != nil {
			rep := timer.Report()
			res.Timing = &rep
		}
	}()

	started := time.Now()
	defer func() {
		if res.Err != nil {
			emit(opts.Progress, path, StageScan, StatusError, res.Err, time.Since(started))
		} else {
			emit(opts.Progress, path, StageScan, StatusDone, nil, time.Since(started))
		}
	}()

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "sum", trace.CurrentSpan(ctx)).
		WithExtra("path", path).
		WithExtra("mode", opts.Mode.String())
	ctx = trace.WithSpan(ctx, span)

	if loadErr != nil {
		res.Err = &FileReadError{Path: path, Err: loadErr}
		diag.ReportError(reporter, diag.IOLoadFileError, source.Span{File: source.NoFile}, "failed to load file: "+loadErr.Error()).Emit()
		span.End("load failed")
		return res
	}
	file := fileSet.Get(fileID)
	if sp, ok := file.NonNFCLine(); ok {
		// NFC склеила бы e+акут в é и съела бы "one", поэтому только предупреждаем
		diag.ReportWarning(reporter, diag.CalNotNFC, sp, "line is not NFC-normalized; number words are matched on the raw bytes").Emit()
	}

	key := CacheKey(file.Hash, opts.Mode)
	if opts.Cache != nil {
		emit(opts.Progress, path, StageCache, StatusWorking, nil, 0)
		doneCache := timer.Track(observ.StageCache)
		var payload DiskPayload
		hit, err := opts.Cache.Get(key, &payload)
		switch {
		case err != nil:
			log.Warn("cache read failed", "path", path, "error", err)
			diag.ReportWarning(reporter, diag.CacheReadFailed, source.Span{File: fileID}, "cache read failed: "+err.Error()).Emit()
			doneCache("error")
		case hit:
			log.Debug("cache hit", "path", path, "total", payload.Total)
			doneCache("hit")
			res.Result = restore(payload, fileID)
			res.Cached = true
			span.WithExtra("cached", "true").WithExtra("total", strconv.Itoa(payload.Total)).End("")
			return res
		default:
			log.Debug("cache miss", "path", path)
			doneCache("miss")
		}
	}

	emit(opts.Progress, path, StageScan, StatusWorking, nil, 0)
	doneScan := timer.Track(observ.StageScan)
	result, err := calibration.SumFile(ctx, file, calibration.Options{Mode: opts.Mode, Reporter: reporter})
	if err != nil {
		doneScan("failed")
		res.Err = fmt.Errorf("%s: %w", path, err)
		span.End(err.Error())
		return res
	}
	doneScan(fmt.Sprintf("%d lines", len(result.Lines)))
	res.Result = result

	if opts.Cache != nil {
		payload := &DiskPayload{Mode: opts.Mode.String(), Path: path, Total: result.Total, Lines: result.Lines}
		if err := opts.Cache.Put(key, payload); err != nil {
			log.Warn("cache write failed", "path", path, "error", err)
			diag.ReportWarning(reporter, diag.CacheWriteFailed, source.Span{File: fileID}, "cache write failed: "+err.Error()).Emit()
		}
	}

	span.WithExtra("total", strconv.Itoa(result.Total)).End("")
	return res
}

// restore rebinds cached spans to the file id of this run.
func restore(payload DiskPayload, id source.FileID) calibration.Result {
	lines := make([]calibration.LineResult, len(payload.Lines))
	for i, ln := range payload.Lines {
		ln.Span.File = id
		ln.First.Span.File = id
		ln.Last.Span.File = id
		lines[i] = ln
	}
	return calibration.Result{Total: payload.Total, Lines: lines}
}

// IsFileReadError reports whether err was caused by an unreadable input.
func IsFileReadError(err error) bool {
	var fre *FileReadError
	return errors.As(err, &fre)
}
