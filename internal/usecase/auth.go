package usecase

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-portal/internal/entity"
	"github.com/xavierca1/lead-portal/internal/session"
)

type AuthUseCase struct {
	Sessions SessionProvider
	log      logrus.FieldLogger
}

func NewAuthUseCase(sessions SessionProvider, log logrus.FieldLogger) *AuthUseCase {
	return &AuthUseCase{Sessions: sessions, log: log}
}

func (uc *AuthUseCase) SignIn(input LoginInput) (*LoginOutput, error) {
	s, token, err := uc.Sessions.SignIn(input.Identifier, input.Secret)
	if errors.Is(err, session.ErrInvalidCredentials) {
		return nil, &AuthError{}
	}
	if err != nil {
		return nil, &CollaboratorError{Op: "sign in", Err: err}
	}

	uc.log.WithFields(logrus.Fields{
		"uid":  s.ID,
		"role": s.Role,
	}).Info("signed in")

	return &LoginOutput{Token: token, Session: s}, nil
}

func (uc *AuthUseCase) SignOut(token string) error {
	if err := uc.Sessions.SignOut(token); err != nil {
		return ErrUnauthenticated
	}
	return nil
}

// Current returns the session carried by ctx.
func (uc *AuthUseCase) Current(ctx context.Context) (*entity.Session, error) {
	return requireSession(ctx)
}
