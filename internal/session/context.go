package session

import (
	"context"

	"github.com/xavierca1/lead-portal/internal/entity"
)

type contextKey struct{}

func WithSession(ctx context.Context, s *entity.Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session attached to ctx, or nil for anonymous
// callers.
func FromContext(ctx context.Context) *entity.Session {
	s, _ := ctx.Value(contextKey{}).(*entity.Session)
	return s
}
