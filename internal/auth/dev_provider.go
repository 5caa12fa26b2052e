package auth

import (
	"context"
	"sync"
)

var _ Provider = (*DevProvider)(nil)

// DevProvider fabricates the development identity. Credentials are ignored.
type DevProvider struct {
	mutex     sync.Mutex
	session   *Session
	listeners listeners
}

// NewDevProvider returns a provider that starts signed in as DevUser.
func NewDevProvider() *DevProvider {
	return &DevProvider{
		session: devSession(),
	}
}

func devSession() *Session {
	return &Session{
		AccessToken: DevToken,
		TokenType:   "bearer",
		User:        DevUser,
	}
}

func (p *DevProvider) Session(_ context.Context) (*Session, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.session, nil
}

func (p *DevProvider) SignIn(_ context.Context, _ Credentials) (*Session, error) {
	p.mutex.Lock()
	p.session = devSession()
	session := p.session
	p.mutex.Unlock()

	p.listeners.notify(session)
	return session, nil
}

func (p *DevProvider) SignOut(_ context.Context) error {
	p.mutex.Lock()
	p.session = nil
	p.mutex.Unlock()

	p.listeners.notify(nil)
	return nil
}

func (p *DevProvider) OnSessionChange(fn func(*Session)) func() {
	return p.listeners.add(fn)
}
