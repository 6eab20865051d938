// Package session issues opaque sign-in tokens and resolves them back to
// the user and their admin flag.
package session

import (
	"errors"
	"strings"
	"time"

	"shoestore/internal/domain"

	"github.com/google/uuid"
)

// Session is the authenticated view attached to each request.
type Session struct {
	Token     string      `json:"token,omitempty"`
	User      domain.User `json:"user"`
	IsAdmin   bool        `json:"isAdmin"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

type Service struct {
	manager *tokenManager
	admins  map[string]struct{}
	ttl     time.Duration
}

// New builds a session service. adminEmails is the allow-list granting the
// admin flag at sign-in.
func New(adminEmails []string, ttl time.Duration) *Service {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		admins[strings.ToLower(strings.TrimSpace(email))] = struct{}{}
	}
	return &Service{
		manager: newTokenManager(),
		admins:  admins,
		ttl:     ttl,
	}
}

// SignIn creates a session for the given identity. The identity provider
// sits in front of this API; by the time the call arrives the email is
// taken as authenticated. The user ID is derived from the email so the
// same customer keeps the same identity across sessions.
func (s *Service) SignIn(email, fullName string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return Session{}, errors.New("valid email required")
	}
	user := domain.User{
		ID:       uuid.NewSHA1(uuid.NameSpaceOID, []byte(email)).String(),
		Email:    email,
		FullName: strings.TrimSpace(fullName),
	}
	_, isAdmin := s.admins[email]

	token, err := s.manager.Issue(user, isAdmin, s.ttl)
	if err != nil {
		return Session{}, err
	}
	meta, _ := s.manager.Validate(token)
	return Session{Token: token, User: user, IsAdmin: isAdmin, ExpiresAt: meta.ExpiresAt}, nil
}

// Get resolves a token to its session.
func (s *Service) Get(token string) (Session, bool) {
	meta, ok := s.manager.Validate(token)
	if !ok {
		return Session{}, false
	}
	return Session{User: meta.User, IsAdmin: meta.IsAdmin, ExpiresAt: meta.ExpiresAt}, true
}

// SignOut revokes the token.
func (s *Service) SignOut(token string) {
	s.manager.Revoke(token)
}
