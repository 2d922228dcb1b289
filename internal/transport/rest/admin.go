package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
)

type discoveryRunner interface {
	RunDiscoveryCycle(ctx context.Context, snapshotTime time.Time) (*domain.RunReport, error)
}

// AdminHandler serves operator endpoints. Routes are wrapped in
// middleware.AdminOnly.
type AdminHandler struct {
	runner     discoveryRunner
	runTimeout time.Duration
	log        *slog.Logger
}

func NewAdminHandler(runner discoveryRunner, runTimeout time.Duration, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		runner:     runner,
		runTimeout: runTimeout,
		log:        logger.With("handler", "admin"),
	}
}

// RunDiscovery triggers a discovery cycle for the current time.
// POST /admin/discovery/run
//
// A run skipped because another is in progress answers 409 with the report.
func (h *AdminHandler) RunDiscovery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.runTimeout)
		defer cancel()
	}

	report, err := h.runner.RunDiscoveryCycle(ctx, time.Now().UTC())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	status := http.StatusOK
	if report.Skipped {
		status = http.StatusConflict
	}
	h.log.InfoContext(r.Context(), "manual discovery run",
		slog.Int("created", report.Created),
		slog.Bool("skipped", report.Skipped),
		slog.Bool("aborted", report.Aborted),
	)
	writeJSON(w, status, report)
}
