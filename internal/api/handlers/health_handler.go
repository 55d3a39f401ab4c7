package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// HealthHandler reports database reachability and basic host statistics.
type HealthHandler struct {
	db      *sql.DB
	started time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now()}
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status          string  `json:"status"`
	Database        string  `json:"database"`
	UptimeSeconds   int64   `json:"uptimeSeconds"`
	HostUptime      uint64  `json:"hostUptimeSeconds,omitempty"`
	MemoryUsedPct   float64 `json:"memoryUsedPercent,omitempty"`
	OpenConnections int     `json:"openConnections"`
}

// Check handles GET /healthz. It returns 503 when the database is unreachable.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:          "ok",
		Database:        "ok",
		UptimeSeconds:   int64(time.Since(h.started).Seconds()),
		OpenConnections: h.db.Stats().OpenConnections,
	}

	// Host stats are informational; failing to read them is not unhealthy.
	if uptime, err := host.UptimeWithContext(ctx); err == nil {
		resp.HostUptime = uptime
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		resp.MemoryUsedPct = vm.UsedPercent
	}

	status := http.StatusOK
	if err := h.db.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("Health check: database ping failed")
		resp.Status = "degraded"
		resp.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}
