package aggregate

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/urlreport/internal/model"
)

// DefaultConcurrency is the number of URLs processed at once when no
// concurrency is configured.
const DefaultConcurrency = 10

// BatchResult is the outcome for one URL of a batch.
type BatchResult struct {
	// Index is the position of the URL in the input slice.
	Index int

	// URL is the requested URL.
	URL string

	// Report is nil when the URL was never scanned or Err is set.
	Report *model.URLReport

	// Err is set when the results root could not be read.
	Err error
}

// BatchProcessor generates reports for many URLs concurrently.
// A failure on one URL is recorded in its result and does not stop the
// other URLs.
type BatchProcessor struct {
	generator   *Generator
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithConcurrency sets the maximum number of URLs processed at once.
// Non-positive values are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithBatchLogger sets the logger for batch-level messages.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// NewBatchProcessor creates a BatchProcessor using generator for each URL.
func NewBatchProcessor(generator *Generator, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		generator:   generator,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch generates a report for every URL and returns the results in
// input order. The error is non-nil only when ctx is cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, urls []string) ([]BatchResult, error) {
	results := make([]BatchResult, len(urls))
	err := bp.ProcessBatchWithCallback(ctx, urls, func(res BatchResult) {
		// Each index is written by exactly one goroutine.
		results[res.Index] = res
	})
	return results, err
}

// ProcessBatchWithCallback generates a report for every URL and calls
// callback as soon as each one is done. callback runs on the worker
// goroutine and must be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	urls []string,
	callback func(res BatchResult),
) error {
	bp.logger.Info("starting batch",
		"total_urls", len(urls),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, url := range urls {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			report, err := bp.generator.Generate(ctx, Options{URL: url})
			if err != nil {
				bp.logger.Warn("report failed", "url", url, "error", err)
			}
			callback(BatchResult{
				Index:  i,
				URL:    url,
				Report: report,
				Err:    err,
			})
			// Per-URL errors stay in the result so other URLs keep going.
			return nil
		})
	}

	err := g.Wait()
	bp.logger.Info("batch complete",
		"total_urls", len(urls),
		"elapsed", time.Since(startTime),
	)
	return err
}
