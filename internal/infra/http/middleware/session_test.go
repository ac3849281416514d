package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/lead-portal/internal/entity"
	"github.com/xavierca1/lead-portal/internal/session"
)

type stubResolver map[string]*entity.Session

func (s stubResolver) Resolve(token string) (*entity.Session, error) {
	if sess, ok := s[token]; ok {
		return sess, nil
	}
	return nil, errors.New("invalid")
}

var resolver = stubResolver{
	"admin-token":   {ID: "admin_001", Role: entity.RoleAdmin},
	"student-token": {ID: "student_1", Role: entity.RoleStudent},
}

func echoSession() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s := session.FromContext(r.Context()); s != nil {
			w.Write([]byte(s.ID))
			return
		}
		w.Write([]byte("anonymous"))
	})
}

func request(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, BearerToken(req))

	req.Header.Set("Authorization", "bearer abc")
	assert.Equal(t, "abc", BearerToken(req))

	req.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, BearerToken(req))
}

func TestSessionMiddleware(t *testing.T) {
	logger, _ := test.NewNullLogger()
	h := Session(resolver, logger)(echoSession())

	tests := []struct {
		name   string
		token  string
		status int
		want   string
	}{
		{"No Token", "", http.StatusOK, "anonymous"},
		{"Valid Token", "student-token", http.StatusOK, "student_1"},
		{"Unusable Token", "expired", http.StatusUnauthorized, `{"error":"session expired, please sign in again"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, request(tt.token))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.want, strings.TrimSpace(rec.Body.String()))
		})
	}
}

func TestRequireRole(t *testing.T) {
	logger, _ := test.NewNullLogger()
	h := Session(resolver, logger)(RequireRole(entity.RoleAdmin)(echoSession()))

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"Anonymous", "", http.StatusUnauthorized},
		{"Student", "student-token", http.StatusForbidden},
		{"Admin", "admin-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, request(tt.token))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRequireSession(t *testing.T) {
	logger, _ := test.NewNullLogger()
	h := Session(resolver, logger)(RequireSession(echoSession()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, request(""))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"sign in required"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, request("student-token"))
	assert.Equal(t, http.StatusOK, rec.Code)
}
