package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const (
	depHealthy       = "healthy"
	depInMemory      = "in-memory"
	depConfigured    = "configured"
	depNotConfigured = "not configured"
)

type storePinger interface {
	PingContext(ctx context.Context) error
}

type brokerConn interface {
	IsClosed() bool
}

// HealthHandler reports the lead store and the dispatch broker. Optional
// integrations (smtp, kommo) are listed but never degrade the service since
// leads are still captured without them.
type HealthHandler struct {
	store     storePinger
	broker    brokerConn
	optional  map[string]bool
	startTime time.Time
	timeout   time.Duration
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
	Degraded     []string          `json:"degraded,omitempty"`
}

// NewHealthHandler builds the handler. db and rabbitMQ may be nil when the
// service runs on the in-memory store or dispatches directly.
func NewHealthHandler(db *sql.DB, rabbitMQ *amqp091.Connection, optional map[string]bool) *HealthHandler {
	h := &HealthHandler{optional: optional, startTime: time.Now(), timeout: 2 * time.Second}
	if db != nil {
		h.store = db
	}
	if rabbitMQ != nil {
		h.broker = rabbitMQ
	}
	return h
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := map[string]string{
		"database": h.storeState(r.Context()),
		"rabbitmq": h.brokerState(),
	}
	for name, configured := range h.optional {
		deps[name] = depNotConfigured
		if configured {
			deps[name] = depConfigured
		}
	}

	var degraded []string
	for name, state := range deps {
		switch state {
		case depHealthy, depInMemory, depConfigured, depNotConfigured:
		default:
			degraded = append(degraded, name)
		}
	}
	sort.Strings(degraded)

	resp := HealthResponse{
		Status:       "healthy",
		Version:      "1.0.0",
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		Dependencies: deps,
		Degraded:     degraded,
	}
	code := http.StatusOK
	if len(degraded) > 0 {
		resp.Status = "degraded"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(resp)
}

func (h *HealthHandler) storeState(ctx context.Context) string {
	if h.store == nil {
		return depInMemory
	}
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	if err := h.store.PingContext(ctx); err != nil {
		return "unhealthy: " + err.Error()
	}
	return depHealthy
}

func (h *HealthHandler) brokerState() string {
	if h.broker == nil {
		return depNotConfigured
	}
	if h.broker.IsClosed() {
		return "unhealthy: connection closed"
	}
	return depHealthy
}
