package auth

import (
	"context"
	"errors"
	"time"
)

const DevToken = "dev-token"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInvalidLogin     = errors.New("invalid login credentials")
)

// DevUser is the fixed development identity.
var DevUser = User{
	ID:    "test-user-123",
	Email: "dev@example.com",
	Name:  "Test Developer",
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

type Credentials struct {
	Email    string
	Password string
}

type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Provider issues and tracks sessions against an identity service.
type Provider interface {
	// Session returns the current session, refreshing it when expired. Nil when signed out.
	Session(ctx context.Context) (*Session, error)
	SignIn(ctx context.Context, creds Credentials) (*Session, error)
	SignOut(ctx context.Context) error
	// OnSessionChange registers fn for every session change and returns an unsubscribe func.
	OnSessionChange(fn func(*Session)) func()
}
