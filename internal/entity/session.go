package entity

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// Session is the identity of the current actor. It scopes which leads the
// caller may read or change.
type Session struct {
	ID    string `json:"uid"`
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role"`
	Name  string `json:"name,omitempty"`
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}
