package devserver

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/2beens/liftlog/pkg"

	"github.com/google/uuid"
)

type userRecord struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
}

// users is the account directory of the fake auth service. Passwords are kept bcrypt hashed.
type users struct {
	mutex   sync.RWMutex
	byID    map[string]*userRecord
	byEmail map[string]*userRecord
}

func newUsers() *users {
	return &users{
		byID:    map[string]*userRecord{},
		byEmail: map[string]*userRecord{},
	}
}

func (u *users) add(id, email, name, password string) (*userRecord, error) {
	hash, err := pkg.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if id == "" {
		id = uuid.NewString()
	}

	u.mutex.Lock()
	defer u.mutex.Unlock()
	key := strings.ToLower(email)
	if _, ok := u.byEmail[key]; ok {
		return nil, fmt.Errorf("%w: user %s already registered", ErrInvalid, email)
	}
	rec := &userRecord{ID: id, Email: email, Name: name, PasswordHash: hash}
	u.byID[id] = rec
	u.byEmail[key] = rec
	return rec, nil
}

func (u *users) check(email, password string) (*userRecord, bool) {
	u.mutex.RLock()
	rec, ok := u.byEmail[strings.ToLower(email)]
	u.mutex.RUnlock()
	if !ok || !pkg.CheckPasswordHash(password, rec.PasswordHash) {
		return nil, false
	}
	return rec, true
}

func (u *users) get(id string) (*userRecord, bool) {
	u.mutex.RLock()
	defer u.mutex.RUnlock()
	rec, ok := u.byID[id]
	return rec, ok
}

const authCodeTTL = 5 * time.Minute

type authCode struct {
	UserID    string
	Challenge string
	ExpiresAt time.Time
}

// authCodes are the one-shot codes handed out by the authorize endpoint.
type authCodes struct {
	mutex sync.Mutex
	codes map[string]authCode
}

func newAuthCodes() *authCodes {
	return &authCodes{codes: map[string]authCode{}}
}

func (c *authCodes) put(code string, ac authCode) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.codes[code] = ac
}

func (c *authCodes) take(code string, now time.Time) (authCode, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	ac, ok := c.codes[code]
	if !ok {
		return authCode{}, false
	}
	delete(c.codes, code)
	if now.After(ac.ExpiresAt) {
		return authCode{}, false
	}
	return ac, true
}
