package usecase

import (
	"errors"
	"fmt"

	"github.com/xavierca1/lead-portal/internal/entity"
)

// DomainError is a business rule rejection. The message is safe to show.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

var (
	ErrUnauthenticated = &DomainError{Code: "UNAUTHENTICATED", Message: "sign in required"}
	ErrForbidden       = &DomainError{Code: "FORBIDDEN", Message: "you are not allowed to perform this action"}
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return entity.ErrLeadNotFound
}

// AuthError never says which half of the credential pair was wrong.
type AuthError struct{}

func (e *AuthError) Error() string {
	return "invalid credentials"
}

// CollaboratorError reports a failed call to persistence or notification
// dispatch. The triggering write is not committed and the caller may retry.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

func IsCollaboratorError(err error) bool {
	var ce *CollaboratorError
	return errors.As(err, &ce)
}
