package driver

import (
	"context"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"trebuchet/internal/observ"
	"trebuchet/internal/source"
	"trebuchet/internal/trace"
)

// BatchResult collects per-file results in input order.
type BatchResult struct {
	FileSet *source.FileSet
	Files   []SumResult
}

// Total sums the totals of the files that succeeded.
func (b *BatchResult) Total() int {
	total := 0
	for i := range b.Files {
		total += b.Files[i].Total()
	}
	return total
}

// Failed returns the number of files whose run ended with an error.
func (b *BatchResult) Failed() int {
	n := 0
	for i := range b.Files {
		if b.Files[i].Err != nil {
			n++
		}
	}
	return n
}

// SumFiles sums every path in parallel. A failing file does not stop the
// others; its error stays in its SumResult. The returned error is only set
// when ctx is cancelled.
func SumFiles(ctx context.Context, paths []string, opts Options) (*BatchResult, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "sum-files", trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)

	// Создаём FileSet и предзагружаем все файлы: FileSet не потокобезопасен
	fileSet := source.NewFileSet()
	fileIDs := make([]source.FileID, len(paths))
	loadErrors := make([]error, len(paths))
	timers := make([]*observ.Timer, len(paths))
	for _, path := range paths {
		emit(opts.Progress, path, StageLoad, StatusQueued, nil, 0)
	}
	for i, path := range paths {
		emit(opts.Progress, path, StageLoad, StatusWorking, nil, 0)
		timers[i] = newTimer(opts)
		done := timers[i].Track(observ.StageLoad)
		fileIDs[i], loadErrors[i] = fileSet.Load(path)
		done(path)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]SumResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(paths))))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = *sumLoaded(gctx, fileSet, path, fileIDs[i], loadErrors[i], timers[i], opts)
			return nil
		})
	}
	err := g.Wait()

	batch := &BatchResult{FileSet: fileSet, Files: results}
	span.WithExtra("files", strconv.Itoa(len(paths))).WithExtra("failed", strconv.Itoa(batch.Failed())).End("")
	return batch, err
}
