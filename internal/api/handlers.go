package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nao1215/urlreport/internal/aggregate"
	"github.com/nao1215/urlreport/internal/report"
	"github.com/nao1215/urlreport/internal/storage"
)

type handler struct {
	store     *storage.Store
	generator *aggregate.Generator
	version   string
	logger    *slog.Logger
}

// targetResponse is one entry of the target list.
type targetResponse struct {
	URL        string `json:"url"`
	Identifier string `json:"identifier"`
	Runs       int    `json:"runs"`
	LatestRun  string `json:"latestRun,omitempty"`
}

// runsResponse lists the runs of a URL.
type runsResponse struct {
	URL        string   `json:"url"`
	Identifier string   `json:"identifier"`
	Runs       []string `json:"runs"`
	LatestRun  string   `json:"latestRun"`
}

func (h *handler) ping(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ok", "version": h.version})
}

func (h *handler) listTargets(w http.ResponseWriter, _ *http.Request) {
	targets, skipped, err := h.store.Targets()
	if err != nil {
		h.storageError(w, err)
		return
	}
	for _, name := range skipped {
		h.logger.Debug("not a url directory", "name", name)
	}

	out := make([]targetResponse, 0, len(targets))
	for _, t := range targets {
		out = append(out, targetResponse{
			URL:        t.URL,
			Identifier: t.Identifier,
			Runs:       t.Runs,
			LatestRun:  t.LatestRun,
		})
	}
	respondWithJSON(w, h.logger, http.StatusOK, out)
}

func (h *handler) getReport(w http.ResponseWriter, r *http.Request) {
	rawURL, ok := h.urlParam(w, r)
	if !ok {
		return
	}
	h.writeReport(w, r, rawURL)
}

func (h *handler) getReportByIdentifier(w http.ResponseWriter, r *http.Request) {
	rawURL, err := storage.DecodeIdentifier(mux.Vars(r)["identifier"])
	if err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}
	h.writeReport(w, r, rawURL)
}

// writeReport answers with the report envelope of rawURL.
func (h *handler) writeReport(w http.ResponseWriter, r *http.Request, rawURL string) {
	rep, err := h.generator.Generate(r.Context(), aggregate.Options{URL: rawURL})
	if err != nil {
		h.storageError(w, err)
		return
	}
	if rep == nil {
		respondWithError(w, h.logger, http.StatusNotFound, fmt.Sprintf("%s: not scanned yet", rawURL))
		return
	}

	envelope, err := report.NewJSONReport(rawURL, rep, h.version)
	if err != nil {
		h.logger.Error("failed to build report", "url", rawURL, "error", err)
		respondWithError(w, h.logger, http.StatusInternalServerError, "failed to build report")
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, envelope)
}

func (h *handler) listRuns(w http.ResponseWriter, r *http.Request) {
	rawURL, ok := h.urlParam(w, r)
	if !ok {
		return
	}

	id, known, err := h.store.Known(rawURL)
	if err != nil {
		h.storageError(w, err)
		return
	}
	if !known {
		respondWithError(w, h.logger, http.StatusNotFound, fmt.Sprintf("%s: not scanned yet", rawURL))
		return
	}

	runs, err := h.store.Runs(id)
	if err != nil {
		h.storageError(w, err)
		return
	}

	resp := runsResponse{URL: rawURL, Identifier: id, Runs: runs}
	if resp.Runs == nil {
		resp.Runs = []string{}
	}
	if len(runs) > 0 {
		resp.LatestRun = runs[len(runs)-1]
	}
	respondWithJSON(w, h.logger, http.StatusOK, resp)
}

// urlParam returns the url query parameter, answering 400 when it is missing.
func (h *handler) urlParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		respondWithError(w, h.logger, http.StatusBadRequest, "missing url query parameter")
		return "", false
	}
	return rawURL, true
}

// storageError logs err and answers 500. The cause stays in the log.
func (h *handler) storageError(w http.ResponseWriter, err error) {
	h.logger.Error("storage failure", "error", err)
	msg := "storage failure"
	if errors.Is(err, storage.ErrRootUnreachable) {
		msg = "results directory unreachable"
	}
	respondWithError(w, h.logger, http.StatusInternalServerError, msg)
}
