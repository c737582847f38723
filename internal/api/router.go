package api

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/nao1215/urlreport/internal/aggregate"
	"github.com/nao1215/urlreport/internal/storage"
)

const (
	// DefaultRateLimit is the number of API requests allowed per second.
	DefaultRateLimit = 10.0

	// DefaultRateBurst is the number of API requests allowed at once.
	DefaultRateBurst = 20
)

// Options configures the router.
type Options struct {
	// Version is reported in the JSON envelope.
	Version string

	// RateLimit is the number of API requests per second. Zero or less
	// disables rate limiting.
	RateLimit float64

	// RateBurst is the bucket size of the rate limiter.
	RateBurst int

	// Logger receives one line per request. Nil discards logs.
	Logger *slog.Logger
}

// DefaultOptions returns the default router options.
func DefaultOptions() Options {
	return Options{
		RateLimit: DefaultRateLimit,
		RateBurst: DefaultRateBurst,
	}
}

// NewRouter returns the HTTP handler serving reports read from store.
func NewRouter(store *storage.Store, opts Options) *mux.Router {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	h := &handler{
		store:     store,
		generator: aggregate.NewGenerator(store, aggregate.WithLogger(logger)),
		version:   opts.Version,
		logger:    logger,
	}

	router := mux.NewRouter()
	// Identifiers may contain "//", which path cleaning would rewrite.
	router.SkipClean(true)
	router.Use(loggingMiddleware(logger))

	router.HandleFunc("/ping", h.ping).Methods(http.MethodGet)

	v1 := router.PathPrefix("/api/v1").Subrouter()
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		v1.Use(rateLimitMiddleware(rate.NewLimiter(rate.Limit(opts.RateLimit), burst), logger))
	}

	v1.HandleFunc("/targets", h.listTargets).Methods(http.MethodGet)
	v1.HandleFunc("/reports", h.getReport).Methods(http.MethodGet)
	v1.HandleFunc("/reports/{identifier:.+}", h.getReportByIdentifier).Methods(http.MethodGet)
	v1.HandleFunc("/runs", h.listRuns).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respondWithError(w, logger, http.StatusNotFound, "not found")
	})

	return router
}
