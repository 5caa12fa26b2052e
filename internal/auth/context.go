package auth

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Context is the process-wide authentication state. It mirrors the provider's
// session changes and falls back to the development identity when dev is set.
type Context struct {
	provider Provider
	dev      bool

	mutex   sync.RWMutex
	user    *User
	token   string
	loading bool
	// set by Logout, suppresses the dev fallback until the next Login
	loggedOut bool

	listeners   listenersOf[*User]
	unsubscribe func()
}

func NewContext(provider Provider, dev bool) *Context {
	c := &Context{
		provider: provider,
		dev:      dev,
		loading:  true,
	}
	c.unsubscribe = provider.OnSessionChange(c.apply)
	return c
}

// Init resolves the initial session. Until it returns, IsLoading is true.
func (c *Context) Init(ctx context.Context) error {
	session, err := c.provider.Session(ctx)
	if err != nil {
		log.Warnf("initial auth session: %s", err)
	}

	c.apply(session)

	c.mutex.Lock()
	c.loading = false
	c.mutex.Unlock()

	return err
}

func (c *Context) apply(session *Session) {
	c.mutex.Lock()
	switch {
	case session != nil:
		user := session.User
		c.user = &user
		c.token = session.AccessToken
	case c.dev && !c.loggedOut:
		user := DevUser
		c.user = &user
		c.token = DevToken
	default:
		c.user = nil
		c.token = ""
	}
	user := c.user
	c.mutex.Unlock()

	c.listeners.notify(user)
}

func (c *Context) User() *User {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	if c.user == nil {
		return nil
	}
	user := *c.user
	return &user
}

func (c *Context) IsLoading() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.loading
}

func (c *Context) IsAuthenticated() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.user != nil
}

func (c *Context) Login(ctx context.Context, creds Credentials) error {
	c.mutex.Lock()
	c.loading = true
	c.loggedOut = false
	c.mutex.Unlock()
	defer c.setLoading(false)

	_, err := c.provider.SignIn(ctx, creds)
	return err
}

// Logout clears the local state and signs out at the provider.
func (c *Context) Logout(ctx context.Context) error {
	c.mutex.Lock()
	c.loggedOut = true
	c.mutex.Unlock()

	err := c.provider.SignOut(ctx)

	// the provider notifies too, but a failed remote sign out must still clear us
	c.apply(nil)
	return err
}

// Token returns the bearer token for api calls, refreshing an expired session first.
func (c *Context) Token(ctx context.Context) (string, error) {
	session, err := c.provider.Session(ctx)
	if err != nil {
		return "", err
	}
	if session != nil {
		return session.AccessToken, nil
	}

	c.mutex.RLock()
	defer c.mutex.RUnlock()
	if c.token == "" {
		return "", ErrNotAuthenticated
	}
	return c.token, nil
}

// Subscribe registers fn for user changes (nil on logout).
func (c *Context) Subscribe(fn func(*User)) func() {
	return c.listeners.add(fn)
}

func (c *Context) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

func (c *Context) setLoading(loading bool) {
	c.mutex.Lock()
	c.loading = loading
	c.mutex.Unlock()
}
