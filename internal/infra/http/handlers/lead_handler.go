package handlers

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-portal/internal/entity"
	"github.com/xavierca1/lead-portal/internal/infra/http/middleware"
	"github.com/xavierca1/lead-portal/internal/usecase"
)

type LeadHandler struct {
	coupon      *usecase.RequestCouponUseCase
	assisted    *usecase.RequestAssistedSaleUseCase
	leads       *usecase.LeadsUseCase
	rateLimiter *RateLimiter
	log         logrus.FieldLogger
}

func NewLeadHandler(
	coupon *usecase.RequestCouponUseCase,
	assisted *usecase.RequestAssistedSaleUseCase,
	leads *usecase.LeadsUseCase,
	rateLimiter *RateLimiter,
	log logrus.FieldLogger,
) *LeadHandler {
	return &LeadHandler{
		coupon:      coupon,
		assisted:    assisted,
		leads:       leads,
		rateLimiter: rateLimiter,
		log:         log,
	}
}

// RequestCoupon handles POST /leads/coupon.
func (h *LeadHandler) RequestCoupon(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r) {
		return
	}

	var input usecase.LeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	out, err := h.coupon.Execute(r.Context(), input)
	if err != nil {
		if usecase.IsCollaboratorError(err) {
			middleware.RecordIntegrationError("coupon_dispatch")
		}
		writeError(w, h.log, err)
		return
	}

	middleware.RecordLeadCaptured(string(entity.MethodCouponRequest))
	writeJSON(w, http.StatusCreated, out)
}

// RequestAssistedSale handles POST /leads/assisted.
func (h *LeadHandler) RequestAssistedSale(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r) {
		return
	}

	var input usecase.LeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	out, err := h.assisted.Execute(r.Context(), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	middleware.RecordLeadCaptured(string(entity.MethodAssistedSale))
	writeJSON(w, http.StatusCreated, out)
}

// ListAll handles GET /leads.
func (h *LeadHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	leads, err := h.leads.ListAll(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

// ListMine handles GET /leads/mine.
func (h *LeadHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	leads, err := h.leads.ListMine(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

// UpdateStatus handles PATCH /leads/{id}/status.
func (h *LeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var input usecase.UpdateStatusInput
	if !decodeJSON(w, r, &input) {
		return
	}

	lead, err := h.leads.UpdateStatus(r.Context(), chi.URLParam(r, "id"), input.Status)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	middleware.RecordStatusUpdate(string(lead.Status))
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) allow(w http.ResponseWriter, r *http.Request) bool {
	if h.rateLimiter == nil || h.rateLimiter.Allow(getClientIP(r)) {
		return true
	}
	writeJSON(w, http.StatusTooManyRequests, ErrorResponse{Error: "too many requests, please try again later"})
	return false
}

// getClientIP keys the rate limiter on the peer address. Forwarding headers
// are honoured only through chi's RealIP, which the router installs when
// the deployment trusts its proxy.
func getClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// RateLimiter is a fixed-window request counter per client address.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
	now      func() time.Time
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := rl.now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

// Cleanup drops idle visitors every interval until done is closed.
func (rl *RateLimiter) Cleanup(interval time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for ip, v := range rl.visitors {
				if now.Sub(v.lastReset) > rl.window*2 {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}
