package aggregate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/urlreport/internal/artifact"
	"github.com/nao1215/urlreport/internal/model"
	"github.com/nao1215/urlreport/internal/storage"
)

// Options selects what to report on.
type Options struct {
	// URL is the scanned URL, used verbatim.
	URL string
}

// Generator builds URL reports from a Store.
type Generator struct {
	store  *storage.Store
	logger *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger. slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// NewGenerator creates a Generator reading from store.
func NewGenerator(store *storage.Store, opts ...Option) *Generator {
	g := &Generator{store: store}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// Generate returns the report of the latest run of opts.URL.
//
// The report is nil when the URL has no directory or no run. Missing and
// corrupt report files never fail the call; they show up as non-found
// results in the report. An error is returned only when the results root is
// unreachable or ctx is done.
func (g *Generator) Generate(ctx context.Context, opts Options) (*model.URLReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	identifier, known, err := g.store.Known(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", opts.URL, err)
	}
	if !known {
		g.logger.Debug("url not scanned", "url", opts.URL, "identifier", identifier)
		return nil, nil
	}

	run, ok, err := g.store.LatestRun(identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to select latest run of %s: %w", opts.URL, err)
	}
	if !ok {
		g.logger.Debug("url has no run", "url", opts.URL, "identifier", identifier)
		return nil, nil
	}

	results, err := artifact.LoadAll(ctx, g.store.RunDir(identifier, run))
	if err != nil {
		return nil, err
	}

	report := model.NewURLReport(opts.URL, identifier, run)
	for _, f := range artifact.Fields() {
		res := results.Get(f)
		if res.Status == artifact.StatusMalformed || res.Status == artifact.StatusEmpty {
			g.logger.Debug("report file ignored",
				"url", opts.URL,
				"run", run,
				"field", string(f),
				"status", res.Status.String(),
				"reason", res.Reason,
			)
		}
		report.Set(f, res)
	}
	report.Screenshot = g.store.HasScreenshot(identifier, run)

	g.logger.Info("report generated",
		"url", opts.URL,
		"run", run,
		"available", len(report.Summary().Available),
		"screenshot", report.Screenshot,
	)
	return report, nil
}
