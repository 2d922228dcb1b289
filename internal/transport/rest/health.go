package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
)

const pingTimeout = 3 * time.Second

type dbPinger interface {
	Ping(ctx context.Context) error
}

// runTracker exposes the outcome of the most recent scheduled discovery run.
type runTracker interface {
	LastRun() (domain.RunReport, bool)
}

// HealthHandler serves the liveness and readiness endpoints.
type HealthHandler struct {
	db         dbPinger
	runs       runTracker
	staleAfter time.Duration
	version    string
}

// NewHealthHandler creates a HealthHandler. runs may be nil when the
// scheduler is disabled; staleAfter bounds the age of the last run before the
// discovery component reports stale.
func NewHealthHandler(db dbPinger, runs runTracker, staleAfter time.Duration, version string) *HealthHandler {
	return &HealthHandler{db: db, runs: runs, staleAfter: staleAfter, version: version}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string     `json:"status"`
	Latency string     `json:"latency,omitempty"`
	LastRun *time.Time `json:"last_run,omitempty"`
}

// Live always answers 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: time.Now()})
}

// Ready answers 503 while the database is unreachable.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	db := h.checkDB(r.Context())
	if db.Status != "ok" {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "down", Timestamp: time.Now()})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: time.Now()})
}

// Health reports every component. A stale discovery scheduler degrades the
// service without failing it; only the database decides 503.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	components := map[string]CompStatus{"database": h.checkDB(r.Context())}
	overall, code := "ok", http.StatusOK

	if h.runs != nil {
		disc := h.checkDiscovery(time.Now())
		components["discovery"] = disc
		if disc.Status == "stale" {
			overall = "degraded"
		}
	}
	if components["database"].Status != "ok" {
		overall, code = "down", http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{
		Status:     overall,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}

func (h *HealthHandler) checkDB(ctx context.Context) CompStatus {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	if err := h.db.Ping(ctx); err != nil {
		return CompStatus{Status: "down"}
	}
	return CompStatus{Status: "ok", Latency: time.Since(start).String()}
}

func (h *HealthHandler) checkDiscovery(now time.Time) CompStatus {
	report, ok := h.runs.LastRun()
	if !ok {
		return CompStatus{Status: "pending"}
	}
	last := report.SnapshotTime
	status := "ok"
	if h.staleAfter > 0 && now.Sub(last) > h.staleAfter {
		status = "stale"
	}
	return CompStatus{Status: status, LastRun: &last}
}
