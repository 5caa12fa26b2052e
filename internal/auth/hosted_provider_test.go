package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/2beens/liftlog/internal/localstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGoTrue is a minimal hosted auth service.
type fakeGoTrue struct {
	mutex         sync.Mutex
	tokenSerial   int
	refreshCalls  int
	logoutCalls   int
	expiresIn     int64
	lastChallenge string
	// rotate accepts only the latest issued refresh token, like GoTrue
	rotate         bool
	currentRefresh string
	refreshDelay   time.Duration
}

func (f *fakeGoTrue) issue(w http.ResponseWriter) {
	f.tokenSerial++
	f.currentRefresh = "refresh-" + string(rune('0'+f.tokenSerial))
	resp := map[string]any{
		"access_token":  "access-" + string(rune('0'+f.tokenSerial)),
		"token_type":    "bearer",
		"expires_in":    f.expiresIn,
		"refresh_token": "refresh-" + string(rune('0'+f.tokenSerial)),
		"user": map[string]any{
			"id":            "user-1",
			"email":         "lifter@example.com",
			"user_metadata": map[string]any{"full_name": "Lifter"},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (f *fakeGoTrue) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	switch r.URL.Path {
	case "/auth/v1/token":
		switch r.URL.Query().Get("grant_type") {
		case "password":
			var grant passwordGrant
			_ = json.NewDecoder(r.Body).Decode(&grant)
			if grant.Password != "secret" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
				return
			}
			f.issue(w)
		case "refresh_token":
			f.refreshCalls++
			var grant refreshGrant
			_ = json.NewDecoder(r.Body).Decode(&grant)
			time.Sleep(f.refreshDelay)
			if grant.RefreshToken == "revoked" || (f.rotate && grant.RefreshToken != f.currentRefresh) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Refresh Token Not Found"}`))
				return
			}
			f.issue(w)
		case "pkce":
			body, _ := io.ReadAll(r.Body)
			form, _ := url.ParseQuery(string(body))
			if form.Get("code") != "the-code" || form.Get("code_verifier") == "" {
				http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
				return
			}
			f.issue(w)
		}
	case "/auth/v1/authorize":
		f.lastChallenge = r.URL.Query().Get("code_challenge")
		redirectTo := r.URL.Query().Get("redirect_uri")
		q := url.Values{}
		q.Set("code", "the-code")
		q.Set("state", r.URL.Query().Get("state"))
		http.Redirect(w, r, redirectTo+"?"+q.Encode(), http.StatusFound)
	case "/auth/v1/user":
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":"user-1","email":"lifter@example.com","user_metadata":{"name":"Lifter"}}`))
	case "/auth/v1/logout":
		f.logoutCalls++
		w.WriteHeader(http.StatusNoContent)
	case "/auth/v1/signup":
		_, _ = w.Write([]byte(`{"id":"user-2","email":"new@example.com"}`))
	default:
		http.NotFound(w, r)
	}
}

func newTestHostedProvider(t *testing.T, fake *fakeGoTrue) (*HostedProvider, *localstore.MemoryStore) {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	store := localstore.NewMemoryStore()
	return NewHostedProvider(server.URL, "anon-key", server.Client(), store), store
}

func TestHostedProvider_SignInPersistsSession(t *testing.T) {
	provider, store := newTestHostedProvider(t, &fakeGoTrue{expiresIn: 3600})

	var changes []*Session
	provider.OnSessionChange(func(s *Session) { changes = append(changes, s) })

	session, err := provider.SignIn(context.Background(), Credentials{Email: "lifter@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "access-1", session.AccessToken)
	assert.Equal(t, "Lifter", session.User.Name)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, 5*time.Second)
	require.Len(t, changes, 1)

	stored, err := store.Get(context.Background(), localstore.AuthSessionKey)
	require.NoError(t, err)
	assert.Contains(t, string(stored), "access-1")

	// a fresh provider restores the session
	restored := NewHostedProvider(provider.authURL, "anon-key", provider.httpClient, store)
	require.NoError(t, restored.Restore(context.Background()))
	current, err := restored.Session(context.Background())
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "access-1", current.AccessToken)
}

func TestHostedProvider_InvalidLogin(t *testing.T) {
	provider, _ := newTestHostedProvider(t, &fakeGoTrue{expiresIn: 3600})

	_, err := provider.SignIn(context.Background(), Credentials{Email: "lifter@example.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidLogin)
	assert.Contains(t, err.Error(), "Invalid login credentials")

	_, err = provider.SignIn(context.Background(), Credentials{})
	assert.ErrorIs(t, err, ErrInvalidLogin)
}

func TestHostedProvider_RefreshesExpiredSession(t *testing.T) {
	fake := &fakeGoTrue{expiresIn: 3600}
	provider, store := newTestHostedProvider(t, fake)

	expired := &Session{
		AccessToken:  "stale",
		RefreshToken: "refresh-0",
		TokenType:    "bearer",
		ExpiresAt:    time.Now().Add(-time.Minute),
		User:         User{ID: "user-1"},
	}
	provider.setSession(context.Background(), expired)

	session, err := provider.Session(context.Background())
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "access-1", session.AccessToken)
	assert.Equal(t, 1, fake.refreshCalls)

	// still valid: no second refresh
	session, err = provider.Session(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access-1", session.AccessToken)
	assert.Equal(t, 1, fake.refreshCalls)

	stored, err := store.Get(context.Background(), localstore.AuthSessionKey)
	require.NoError(t, err)
	assert.Contains(t, string(stored), "access-1")
}

func TestHostedProvider_ConcurrentRefreshKeepsSession(t *testing.T) {
	fake := &fakeGoTrue{
		expiresIn:      3600,
		rotate:         true,
		currentRefresh: "refresh-0",
		refreshDelay:   50 * time.Millisecond,
	}
	provider, store := newTestHostedProvider(t, fake)

	provider.setSession(context.Background(), &Session{
		AccessToken:  "stale",
		RefreshToken: "refresh-0",
		TokenType:    "bearer",
		ExpiresAt:    time.Now().Add(-time.Minute),
		User:         User{ID: "user-1"},
	})

	const callers = 8
	var wg sync.WaitGroup
	sessions := make([]*Session, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions[i], errs[i] = provider.Session(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, sessions[i])
		assert.Equal(t, "access-1", sessions[i].AccessToken)
	}
	fake.mutex.Lock()
	assert.Equal(t, 1, fake.refreshCalls)
	fake.mutex.Unlock()

	current, err := provider.Session(context.Background())
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "refresh-1", current.RefreshToken)

	stored, err := store.Get(context.Background(), localstore.AuthSessionKey)
	require.NoError(t, err)
	assert.Contains(t, string(stored), "refresh-1")
}

func TestHostedProvider_RevokedRefreshDropsSession(t *testing.T) {
	provider, store := newTestHostedProvider(t, &fakeGoTrue{expiresIn: 3600})

	provider.setSession(context.Background(), &Session{
		AccessToken:  "stale",
		RefreshToken: "revoked",
		ExpiresAt:    time.Now().Add(-time.Minute),
	})

	session, err := provider.Session(context.Background())
	require.Error(t, err)
	assert.Nil(t, session)

	_, err = store.Get(context.Background(), localstore.AuthSessionKey)
	assert.ErrorIs(t, err, localstore.ErrNotFound)
}

func TestHostedProvider_SignOut(t *testing.T) {
	fake := &fakeGoTrue{expiresIn: 3600}
	provider, store := newTestHostedProvider(t, fake)

	_, err := provider.SignIn(context.Background(), Credentials{Email: "lifter@example.com", Password: "secret"})
	require.NoError(t, err)

	require.NoError(t, provider.SignOut(context.Background()))
	assert.Equal(t, 1, fake.logoutCalls)

	session, err := provider.Session(context.Background())
	require.NoError(t, err)
	assert.Nil(t, session)

	_, err = store.Get(context.Background(), localstore.AuthSessionKey)
	assert.ErrorIs(t, err, localstore.ErrNotFound)
}

func TestHostedProvider_SignUpNeedsConfirmation(t *testing.T) {
	provider, _ := newTestHostedProvider(t, &fakeGoTrue{expiresIn: 3600})

	session, err := provider.SignUp(context.Background(), Credentials{Email: "new@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestHostedProvider_SignInWithOAuth(t *testing.T) {
	fake := &fakeGoTrue{expiresIn: 3600}
	provider, _ := newTestHostedProvider(t, fake)
	provider.RandStringFunc = func(int) (string, error) {
		return "fixed-state", nil
	}

	session, err := provider.SignInWithOAuth(context.Background(), OAuthParams{
		Provider:     "google",
		CallbackPort: 0,
		OpenURL: func(authURL string) error {
			parsed, err := url.Parse(authURL)
			require.NoError(t, err)
			assert.Equal(t, "google", parsed.Query().Get("provider"))
			assert.Equal(t, "fixed-state", parsed.Query().Get("state"))
			assert.NotEmpty(t, parsed.Query().Get("code_challenge"))

			// plays the browser: follows the redirect to the local callback
			resp, err := http.Get(authURL)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			return nil
		},
	})
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "access-1", session.AccessToken)
	assert.Equal(t, "Lifter", session.User.Name)
	assert.NotEmpty(t, fake.lastChallenge)
}
