// Package httpapi serves the plain HTTP side of the server: stored evidence
// files and the Prometheus scrape endpoint.
package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/auditdesk/internal/common"
	"github.com/dmitrijs2005/auditdesk/internal/logging"
	"github.com/dmitrijs2005/auditdesk/internal/server/metrics"
	"github.com/dmitrijs2005/auditdesk/internal/server/storage"
)

// EvidenceSource opens stored evidence files by name.
type EvidenceSource interface {
	OpenEvidence(ctx context.Context, filename string) (*storage.Object, error)
}

// Handler serves evidence downloads.
type Handler struct {
	logger   logging.Logger
	evidence EvidenceSource
	metrics  *metrics.Metrics
}

func New(evidence EvidenceSource, l logging.Logger, mt *metrics.Metrics) *Handler {
	return &Handler{logger: l.With("module", "http_server"), evidence: evidence, metrics: mt}
}

// Register mounts the evidence route on r.
func (h *Handler) Register(r chi.Router) {
	r.Get(common.EvidencePathPrefix+"{filename}", h.handleEvidence)
}

// NewRouter builds the full HTTP router. gatherer may be nil, in which case
// /metrics is not served.
func NewRouter(h *Handler, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	h.Register(r)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (h *Handler) handleEvidence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filename := chi.URLParam(r, "filename")

	obj, err := h.evidence.OpenEvidence(ctx, filename)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			h.metrics.Download(strconv.Itoa(http.StatusNotFound))
			http.NotFound(w, r)
			return
		}
		h.logger.Error(ctx, "evidence download failed", "file", filename, "error", err.Error())
		h.metrics.Download(strconv.Itoa(http.StatusInternalServerError))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer obj.Body.Close()

	if obj.ContentType != "" {
		w.Header().Set("Content-Type", obj.ContentType)
	}
	if obj.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.ContentLength, 10))
	}
	w.Header().Set("Content-Disposition", `inline; filename="`+filename+`"`)
	h.metrics.Download(strconv.Itoa(http.StatusOK))

	if _, err := io.Copy(w, obj.Body); err != nil {
		h.logger.Warn(ctx, "evidence stream interrupted", "file", filename, "error", err.Error())
	}
}
