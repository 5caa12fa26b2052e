package devserver

import (
	"context"
	"sync"
	"time"

	"github.com/2beens/liftlog/pkg"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultAccessTTL  = time.Hour
	DefaultRefreshTTL = 24 * 7 * time.Hour
	tokenLength       = 35
)

type session struct {
	UserID       string
	AccessToken  string
	RefreshToken string
	CreatedAt    time.Time
	RefreshedAt  time.Time
}

// Sessions keeps issued tokens. Access tokens expire after accessTTL, a session
// can be refreshed until refreshTTL after its creation.
type Sessions struct {
	mutex      sync.Mutex
	accessTTL  time.Duration
	refreshTTL time.Duration
	byAccess   map[string]*session
	byRefresh  map[string]*session
	now        func() time.Time
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewSessions(accessTTL, refreshTTL time.Duration) *Sessions {
	return &Sessions{
		accessTTL:      accessTTL,
		refreshTTL:     refreshTTL,
		byAccess:       map[string]*session{},
		byRefresh:      map[string]*session{},
		now:            time.Now,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

func (s *Sessions) AccessTTL() time.Duration {
	return s.accessTTL
}

func (s *Sessions) newTokens() (string, string, error) {
	access, err := s.RandStringFunc(tokenLength)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.RandStringFunc(tokenLength)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *Sessions) Login(userID string) (session, error) {
	access, refresh, err := s.newTokens()
	if err != nil {
		return session{}, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	now := s.now()
	sess := &session{
		UserID:       userID,
		AccessToken:  access,
		RefreshToken: refresh,
		CreatedAt:    now,
		RefreshedAt:  now,
	}
	s.byAccess[access] = sess
	s.byRefresh[refresh] = sess
	return *sess, nil
}

// Refresh rotates both tokens of the session owning refreshToken.
func (s *Sessions) Refresh(refreshToken string) (session, bool, error) {
	access, refresh, err := s.newTokens()
	if err != nil {
		return session{}, false, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	sess, ok := s.byRefresh[refreshToken]
	if !ok || s.now().Sub(sess.CreatedAt) > s.refreshTTL {
		return session{}, false, nil
	}

	delete(s.byAccess, sess.AccessToken)
	delete(s.byRefresh, sess.RefreshToken)
	sess.AccessToken, sess.RefreshToken = access, refresh
	sess.RefreshedAt = s.now()
	s.byAccess[access] = sess
	s.byRefresh[refresh] = sess
	return *sess, true, nil
}

// UserID returns the owner of a live access token.
func (s *Sessions) UserID(accessToken string) (string, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	sess, ok := s.byAccess[accessToken]
	if !ok || s.now().Sub(sess.RefreshedAt) > s.accessTTL {
		return "", false
	}
	return sess.UserID, true
}

func (s *Sessions) IsLogged(_ context.Context, accessToken string) (bool, error) {
	_, ok := s.UserID(accessToken)
	return ok, nil
}

func (s *Sessions) Logout(accessToken string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	sess, ok := s.byAccess[accessToken]
	if !ok {
		return false
	}
	delete(s.byAccess, sess.AccessToken)
	delete(s.byRefresh, sess.RefreshToken)
	return true
}

func (s *Sessions) Count() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.byAccess)
}

// ScanAndClean drops the sessions that can no longer be refreshed.
func (s *Sessions) ScanAndClean(ctx context.Context) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	removed := 0
	for token, sess := range s.byAccess {
		if ctx.Err() != nil {
			break
		}
		if now.Sub(sess.CreatedAt) > s.refreshTTL {
			delete(s.byAccess, token)
			delete(s.byRefresh, sess.RefreshToken)
			removed++
		}
	}
	if removed > 0 {
		log.Debugf("sessions: scan and clean removed %d sessions", removed)
	}
	return removed
}
