// Package session signs actors in and out and carries the resulting
// identity through request contexts.
//
// Credentials are a placeholder: one reserved identifier/secret pair yields
// an administrator, every other non-empty pair yields a student.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/xavierca1/lead-portal/internal/entity"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid session token")
	ErrRevokedToken       = errors.New("session has been signed out")
)

const issuer = "lead-portal"

// studentNamespace keeps student ids stable for the same credential pair, so
// a student who signs in again still owns the leads they submitted. The
// secret is part of the derivation: knowing someone's email is not enough to
// read their leads.
var studentNamespace = uuid.MustParse("6f1c1f9e-3a52-4c1e-9b1e-5d0f6f7a2c10")

// Claims mirror the session fields persisted by the client.
type Claims struct {
	UID   string      `json:"uid"`
	Email string      `json:"email,omitempty"`
	Role  entity.Role `json:"role"`
	Name  string      `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type Provider struct {
	secret    []byte
	ttl       time.Duration
	adminID   string
	adminHash []byte
	now       func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time // token id -> expiry
}

func NewProvider(secret string, ttl time.Duration, adminID, adminSecret string) (*Provider, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminSecret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin secret: %w", err)
	}

	return &Provider{
		secret:    []byte(secret),
		ttl:       ttl,
		adminID:   adminID,
		adminHash: hash,
		now:       time.Now,
		revoked:   make(map[string]time.Time),
	}, nil
}

// SignIn resolves the actor for a credential pair and returns the session
// together with its signed token.
func (p *Provider) SignIn(identifier, secret string) (*entity.Session, string, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || secret == "" {
		return nil, "", ErrInvalidCredentials
	}

	var s *entity.Session
	if identifier == p.adminID && bcrypt.CompareHashAndPassword(p.adminHash, []byte(secret)) == nil {
		s = &entity.Session{
			ID:    "admin_001",
			Email: "admin@pw.live",
			Role:  entity.RoleAdmin,
			Name:  "Master Ambassador",
		}
	} else {
		s = studentSession(identifier, secret)
	}

	token, err := p.issue(s)
	if err != nil {
		return nil, "", err
	}
	return s, token, nil
}

func studentSession(identifier, secret string) *entity.Session {
	key := strings.ToLower(identifier) + "\x00" + secret
	id := uuid.NewSHA1(studentNamespace, []byte(key)).String()
	return &entity.Session{
		ID:    "student_" + strings.ReplaceAll(id, "-", "")[:10],
		Email: identifier,
		Role:  entity.RoleStudent,
		Name:  strings.SplitN(identifier, "@", 2)[0],
	}
}

func (p *Provider) issue(s *entity.Session) (string, error) {
	now := p.now()
	claims := Claims{
		UID:   s.ID,
		Email: s.Email,
		Role:  s.Role,
		Name:  s.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   s.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, nil
}

// Resolve rehydrates the session persisted in a token.
func (p *Provider) Resolve(token string) (*entity.Session, error) {
	claims, err := p.parse(token)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	_, revoked := p.revoked[claims.ID]
	p.mu.Unlock()
	if revoked {
		return nil, ErrRevokedToken
	}

	return &entity.Session{
		ID:    claims.UID,
		Email: claims.Email,
		Role:  claims.Role,
		Name:  claims.Name,
	}, nil
}

// SignOut destroys the session behind a token. The token id stays on the
// revocation list until the token would have expired anyway.
func (p *Provider) SignOut(token string) error {
	claims, err := p.parse(token)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	for id, exp := range p.revoked {
		if now.After(exp) {
			delete(p.revoked, id)
		}
	}
	p.revoked[claims.ID] = claims.ExpiresAt.Time
	return nil
}

func (p *Provider) parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UID == "" || (claims.Role != entity.RoleAdmin && claims.Role != entity.RoleStudent) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
