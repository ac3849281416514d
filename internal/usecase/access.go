package usecase

import (
	"context"

	"github.com/xavierca1/lead-portal/internal/entity"
	"github.com/xavierca1/lead-portal/internal/session"
)

func requireSession(ctx context.Context) (*entity.Session, error) {
	s := session.FromContext(ctx)
	if s == nil {
		return nil, ErrUnauthenticated
	}
	return s, nil
}

func requireAdmin(ctx context.Context) (*entity.Session, error) {
	s, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if !s.IsAdmin() {
		return nil, ErrForbidden
	}
	return s, nil
}
