package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/2beens/liftlog/internal/localstore"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/pkg"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

var _ Provider = (*HostedProvider)(nil)

// HostedProvider talks to a GoTrue compatible auth service. The session is persisted
// in the local store and refreshed automatically when it expires.
type HostedProvider struct {
	authURL    string
	anonKey    string
	httpClient *http.Client
	store      localstore.Store

	mutex     sync.Mutex
	session   *Session
	listeners listeners
	// refresh tokens rotate on use, concurrent refreshes of one token share a single call
	refreshGroup singleflight.Group

	now func() time.Time
	// ability to inject random string generator func for oauth state (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewHostedProvider(
	authURL string,
	anonKey string,
	httpClient *http.Client,
	store localstore.Store,
) *HostedProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HostedProvider{
		authURL:        strings.TrimSuffix(authURL, "/"),
		anonKey:        anonKey,
		httpClient:     httpClient,
		store:          store,
		now:            time.Now,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

// Restore loads a previously persisted session. A missing session is not an error.
func (p *HostedProvider) Restore(ctx context.Context) error {
	sessionBytes, err := p.store.Get(ctx, localstore.AuthSessionKey)
	if errors.Is(err, localstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	session := &Session{}
	if err := json.Unmarshal(sessionBytes, session); err != nil {
		log.Errorf("stored auth session is corrupt, dropping it: %s", err)
		return p.store.Delete(ctx, localstore.AuthSessionKey)
	}

	p.mutex.Lock()
	p.session = session
	p.mutex.Unlock()

	log.Debugf("restored auth session for user: %s", session.User.Email)
	return nil
}

func (p *HostedProvider) Session(ctx context.Context) (*Session, error) {
	p.mutex.Lock()
	current := p.session
	p.mutex.Unlock()

	if current == nil {
		return nil, nil
	}
	if !current.Expired(p.now()) {
		return current, nil
	}

	res, err, _ := p.refreshGroup.Do(current.RefreshToken, func() (any, error) {
		// another caller may have rotated the token after current was read
		p.mutex.Lock()
		latest := p.session
		p.mutex.Unlock()
		if latest != nil && latest.RefreshToken != current.RefreshToken && !latest.Expired(p.now()) {
			return latest, nil
		}
		return p.refresh(context.WithoutCancel(ctx), current)
	})
	if err != nil {
		log.Warnf("auth session refresh failed: %s", err)
		// the service rejected the refresh token, the session is gone for good
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			p.dropSession(ctx, current.RefreshToken)
		}
		return nil, fmt.Errorf("refresh session: %w", err)
	}

	return res.(*Session), nil
}

// dropSession signs out, unless the session was replaced since refreshToken was read.
func (p *HostedProvider) dropSession(ctx context.Context, refreshToken string) {
	p.mutex.Lock()
	replaced := p.session == nil || p.session.RefreshToken != refreshToken
	p.mutex.Unlock()
	if !replaced {
		p.setSession(ctx, nil)
	}
}

func (p *HostedProvider) refresh(ctx context.Context, current *Session) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.hosted.refresh")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if current.RefreshToken == "" {
		return nil, errors.New("no refresh token")
	}

	resp := &tokenResponse{}
	if err := p.call(ctx, http.MethodPost, "/token?grant_type=refresh_token", "", refreshGrant{
		RefreshToken: current.RefreshToken,
	}, resp); err != nil {
		return nil, err
	}

	session := resp.toSession(p.now())
	if session.User.ID == "" {
		session.User = current.User
	}
	p.setSession(ctx, session)

	log.Debugf("auth session refreshed for user: %s", session.User.Email)
	return session, nil
}

func (p *HostedProvider) SignIn(ctx context.Context, creds Credentials) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.hosted.signIn")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if creds.Email == "" || creds.Password == "" {
		return nil, ErrInvalidLogin
	}

	resp := &tokenResponse{}
	if err := p.call(ctx, http.MethodPost, "/token?grant_type=password", "", passwordGrant{
		Email:    creds.Email,
		Password: creds.Password,
	}, resp); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusBadRequest {
			return nil, fmt.Errorf("%w: %s", ErrInvalidLogin, statusErr.Message)
		}
		return nil, err
	}

	session := resp.toSession(p.now())
	p.setSession(ctx, session)
	return session, nil
}

// SignUp registers a new account. When the service requires email confirmation
// no session is returned.
func (p *HostedProvider) SignUp(ctx context.Context, creds Credentials) (*Session, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, ErrInvalidLogin
	}

	resp := &tokenResponse{}
	if err := p.call(ctx, http.MethodPost, "/signup", "", passwordGrant{
		Email:    creds.Email,
		Password: creds.Password,
	}, resp); err != nil {
		return nil, err
	}

	if resp.AccessToken == "" {
		return nil, nil
	}

	session := resp.toSession(p.now())
	p.setSession(ctx, session)
	return session, nil
}

// SignOut invalidates the remote session and always clears the local one.
func (p *HostedProvider) SignOut(ctx context.Context) error {
	p.mutex.Lock()
	current := p.session
	p.mutex.Unlock()

	var err error
	if current != nil {
		if err = p.call(ctx, http.MethodPost, "/logout", current.AccessToken, nil, nil); err != nil {
			log.Errorf("remote sign out: %s", err)
		}
	}

	p.setSession(ctx, nil)
	return err
}

// GetUser fetches the user owning accessToken.
func (p *HostedProvider) GetUser(ctx context.Context, accessToken string) (*User, error) {
	hu := &hostedUser{}
	if err := p.call(ctx, http.MethodGet, "/user", accessToken, nil, hu); err != nil {
		return nil, err
	}
	user := hu.toUser()
	return &user, nil
}

func (p *HostedProvider) OnSessionChange(fn func(*Session)) func() {
	return p.listeners.add(fn)
}

func (p *HostedProvider) setSession(ctx context.Context, session *Session) {
	p.mutex.Lock()
	p.session = session
	p.mutex.Unlock()

	if session == nil {
		if err := p.store.Delete(ctx, localstore.AuthSessionKey); err != nil {
			log.Errorf("delete stored auth session: %s", err)
		}
	} else if sessionBytes, err := json.Marshal(session); err != nil {
		log.Errorf("marshal auth session: %s", err)
	} else if err := p.store.Set(ctx, localstore.AuthSessionKey, sessionBytes); err != nil {
		log.Errorf("persist auth session: %s", err)
	}

	p.listeners.notify(session)
}

// StatusError is a non-2xx answer from the auth service.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("auth service status %d: %s", e.StatusCode, e.Message)
}

func (p *HostedProvider) endpoint(path string) string {
	return p.authURL + "/auth/v1" + path
}

func (p *HostedProvider) call(ctx context.Context, method, path, accessToken string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.endpoint(path), reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.anonKey != "" {
		req.Header.Set("apikey", p.anonKey)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read auth response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp errorResponse
		msg := strings.TrimSpace(string(respBytes))
		if json.Unmarshal(respBytes, &errResp) == nil && errResp.String() != "" {
			msg = errResp.String()
		}
		return &StatusError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil || len(respBytes) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBytes, out); err != nil {
		return fmt.Errorf("unmarshal auth response: %w", err)
	}
	return nil
}
