package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/lead-portal/internal/entity"
	"github.com/xavierca1/lead-portal/internal/infra/database/memory"
	"github.com/xavierca1/lead-portal/internal/infra/mail"
	"github.com/xavierca1/lead-portal/internal/session"
	"github.com/xavierca1/lead-portal/internal/usecase"
)

type failingDispatcher struct{}

func (failingDispatcher) DispatchCoupon(context.Context, mail.CouponEmail) error {
	return errors.New("smtp: connection refused")
}

type testServer struct {
	handler http.Handler
	leads   *memory.LeadRepository
}

func newTestServer(t *testing.T, dispatcher usecase.CouponDispatcher, limiter *RateLimiter) *testServer {
	t.Helper()

	logger, _ := test.NewNullLogger()
	db := memory.Open(entity.DefaultSettings())
	leads := memory.NewLeadRepository(db)
	settings := memory.NewSettingsRepository(db)

	provider, err := session.NewProvider("router-test-secret-router-test-secret", time.Hour, "admin", "password")
	require.NoError(t, err)

	if dispatcher == nil {
		dispatcher = mail.NewConsoleSender(logger)
	}

	rt := Router{
		Auth: NewAuthHandler(usecase.NewAuthUseCase(provider, logger), logger),
		Leads: NewLeadHandler(
			usecase.NewRequestCouponUseCase(leads, settings, dispatcher, logger),
			usecase.NewRequestAssistedSaleUseCase(leads, settings, nil, logger),
			usecase.NewLeadsUseCase(leads, logger),
			limiter,
			logger,
		),
		Settings:       NewSettingsHandler(usecase.NewSettingsUseCase(settings, logger), logger),
		Dashboard:      NewDashboardHandler(usecase.NewDashboardUseCase(leads, settings), logger),
		Health:         NewHealthHandler(nil, nil, map[string]bool{"kommo": false}),
		Sessions:       provider,
		AllowedOrigins: []string{"*"},
		Log:            logger,
	}

	return &testServer{handler: rt.Handler(), leads: leads}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T, identifier, secret string) string {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/auth/login", "", usecase.LoginInput{Identifier: identifier, Secret: secret})
	require.Equal(t, http.StatusOK, rec.Code)

	var out usecase.LoginOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.Token
}

func couponBody() usecase.LeadInput {
	return usecase.LeadInput{
		Name:     "Aryan Singh",
		Email:    "aryan@student.com",
		Mobile:   "9876543210",
		Category: "JEE (Main + Advanced)",
		Class:    "Class 12",
		Batch:    "Lakshya JEE 2026",
	}
}

func TestRequestCouponEndpoint(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	t.Run("Created", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/leads/coupon", "", couponBody())
		require.Equal(t, http.StatusCreated, rec.Code)

		var out usecase.RequestCouponOutput
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.NotEmpty(t, out.LeadID)
		assert.Equal(t, "aryan@student.com", out.SentTo)
	})

	t.Run("Short Mobile", func(t *testing.T) {
		body := couponBody()
		body.Mobile = "12345"
		rec := srv.do(t, http.MethodPost, "/leads/coupon", "", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var out ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.Equal(t, "mobile", out.Field)
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/leads/coupon", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		srv.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	all, _ := srv.leads.ListAll(context.Background())
	assert.Len(t, all, 1)
}

func TestRequestCouponDispatchFailure(t *testing.T) {
	srv := newTestServer(t, failingDispatcher{}, nil)

	rec := srv.do(t, http.MethodPost, "/leads/coupon", "", couponBody())
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"something went wrong, please try again"}`, rec.Body.String())

	all, _ := srv.leads.ListAll(context.Background())
	assert.Empty(t, all)
}

func TestRateLimitedIntake(t *testing.T) {
	srv := newTestServer(t, nil, NewRateLimiter(1, time.Minute))

	assert.Equal(t, http.StatusCreated, srv.do(t, http.MethodPost, "/leads/coupon", "", couponBody()).Code)
	assert.Equal(t, http.StatusTooManyRequests, srv.do(t, http.MethodPost, "/leads/assisted", "", couponBody()).Code)
}

func TestRateLimitIgnoresSpoofedForwardingHeaders(t *testing.T) {
	srv := newTestServer(t, nil, NewRateLimiter(1, time.Minute))

	send := func(forwardedFor string) int {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(couponBody()))
		req := httptest.NewRequest(http.MethodPost, "/leads/coupon", &buf)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", forwardedFor)
		rec := httptest.NewRecorder()
		srv.handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusCreated, send("198.51.100.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("198.51.100.2"))
}

func TestSignedOutTokenCannotSubmitLead(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	token := srv.login(t, "sneha@example.com", "whatever")
	require.Equal(t, http.StatusNoContent, srv.do(t, http.MethodPost, "/auth/logout", token, nil).Code)

	body := couponBody()
	body.Email = ""
	rec := srv.do(t, http.MethodPost, "/leads/assisted", token, body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	leads, err := srv.leads.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, leads)

	rec = srv.do(t, http.MethodPost, "/auth/login", token, usecase.LoginInput{Identifier: "sneha@example.com", Secret: "whatever"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStudentJourney(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	token := srv.login(t, "sneha@example.com", "whatever")

	body := couponBody()
	body.Email = ""
	rec := srv.do(t, http.MethodPost, "/leads/assisted", token, body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created usecase.RequestAssistedSaleOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Contains(t, created.ChatLink, "https://wa.me/919000000000?text=")

	rec = srv.do(t, http.MethodGet, "/leads/mine", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []entity.Lead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, created.LeadID, mine[0].ID)

	rec = srv.do(t, http.MethodGet, "/dashboard/student", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view usecase.StudentView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.NotNil(t, view.Tracked)
	assert.Equal(t, "Request Received", view.Tracked.Label)
	assert.Equal(t, "sneha", view.Session.Name)

	assert.Equal(t, http.StatusForbidden, srv.do(t, http.MethodGet, "/leads", token, nil).Code)
	assert.Equal(t, http.StatusForbidden, srv.do(t, http.MethodGet, "/dashboard/admin", token, nil).Code)

	intruder := srv.login(t, "sneha@example.com", "guess")
	rec = srv.do(t, http.MethodGet, "/leads/mine", intruder, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
	assert.Empty(t, mine)
}

func TestAdminJourney(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	admin := srv.login(t, "admin", "password")

	rec := srv.do(t, http.MethodPost, "/leads/coupon", "", couponBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	var created usecase.RequestCouponOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = srv.do(t, http.MethodGet, "/leads", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPatch, "/leads/"+created.LeadID+"/status", admin, usecase.UpdateStatusInput{Status: entity.StatusContacted})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated entity.Lead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, entity.StatusContacted, updated.Status)

	rec = srv.do(t, http.MethodPatch, "/leads/missing/status", admin, usecase.UpdateStatusInput{Status: entity.StatusContacted})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodPatch, "/leads/"+created.LeadID+"/status", admin, usecase.UpdateStatusInput{Status: "Lost"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodGet, "/dashboard/admin?method=coupon_request&q=lakshya", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view usecase.AdminView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, 1, view.Stats.Total)
	assert.Len(t, view.Leads, 1)

	rec = srv.do(t, http.MethodGet, "/dashboard/admin?method=vip", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettingsEndpoints(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	admin := srv.login(t, "admin", "password")

	rec := srv.do(t, http.MethodGet, "/settings", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "active_coupon")

	rec = srv.do(t, http.MethodPut, "/settings", admin, entity.Settings{
		ActiveCoupon:   "save500",
		WhatsAppNumber: "919811112222",
		AmbassadorName: "Riya",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/settings", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var s entity.Settings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, "SAVE500", s.ActiveCoupon)

	rec = srv.do(t, http.MethodPut, "/settings", "", entity.DefaultSettings())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthEndpoints(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	rec := srv.do(t, http.MethodPost, "/auth/login", "", usecase.LoginInput{Identifier: "admin"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"invalid credentials"}`, rec.Body.String())

	token := srv.login(t, "rahul@example.com", "x")

	rec = srv.do(t, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me entity.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, entity.RoleStudent, me.Role)

	assert.Equal(t, http.StatusNoContent, srv.do(t, http.MethodPost, "/auth/logout", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, srv.do(t, http.MethodGet, "/auth/me", token, nil).Code)
}

func TestLifecycleAndHealth(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	rec := srv.do(t, http.MethodGet, "/lifecycle", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var catalog CatalogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &catalog))
	assert.Len(t, catalog.Statuses, 6)
	assert.Contains(t, catalog.Classes, "Dropper")

	rec = srv.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "in-memory", health.Dependencies["database"])
	assert.Equal(t, "not configured", health.Dependencies["kommo"])
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req.Header.Set("X-Real-IP", "203.0.113.8")
	assert.Equal(t, "10.0.0.1", getClientIP(req))
}

func TestRateLimiterWindow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))

	clock = clock.Add(2 * time.Minute)
	assert.True(t, rl.Allow("a"))
}
