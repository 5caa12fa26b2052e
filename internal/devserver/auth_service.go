package devserver

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/2beens/liftlog/internal/auth"
	"github.com/2beens/liftlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

type gotrueUser struct {
	ID           string            `json:"id"`
	Email        string            `json:"email"`
	UserMetadata map[string]string `json:"user_metadata"`
}

type gotrueToken struct {
	AccessToken  string     `json:"access_token"`
	TokenType    string     `json:"token_type"`
	ExpiresIn    int64      `json:"expires_in"`
	ExpiresAt    int64      `json:"expires_at"`
	RefreshToken string     `json:"refresh_token"`
	User         gotrueUser `json:"user"`
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshBody struct {
	RefreshToken string `json:"refresh_token"`
}

func toGotrueUser(rec *userRecord) gotrueUser {
	return gotrueUser{
		ID:           rec.ID,
		Email:        rec.Email,
		UserMetadata: map[string]string{"name": rec.Name},
	}
}

// authService is a GoTrue compatible stand-in for the hosted identity service.
type authService struct {
	devMode  bool
	users    *users
	sessions *Sessions
	codes    *authCodes
	// oauthUserID is the account every authorize request signs in as
	oauthUserID string
	now         func() time.Time
}

func (as *authService) setupRoutes(r *mux.Router) {
	r.HandleFunc("/token", as.handleToken).Methods(http.MethodPost).Name("auth-token")
	r.HandleFunc("/authorize", as.handleAuthorize).Methods(http.MethodGet).Name("auth-authorize")
	r.HandleFunc("/user", as.handleUser).Methods(http.MethodGet).Name("auth-user")
	r.HandleFunc("/logout", as.handleLogout).Methods(http.MethodPost).Name("auth-logout")
	r.HandleFunc("/signup", as.handleSignup).Methods(http.MethodPost).Name("auth-signup")
}

func writeAuthError(w http.ResponseWriter, statusCode int, code, description string) {
	pkg.WriteJSON(w, map[string]string{
		"error":             code,
		"error_description": description,
	}, statusCode)
}

func (as *authService) issue(w http.ResponseWriter, userID string, sess session) {
	rec, ok := as.users.get(userID)
	if !ok {
		writeAuthError(w, http.StatusBadRequest, "invalid_grant", "User not found")
		return
	}
	ttl := as.sessions.AccessTTL()
	pkg.WriteJSON(w, gotrueToken{
		AccessToken:  sess.AccessToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(ttl.Seconds()),
		ExpiresAt:    sess.RefreshedAt.Add(ttl).Unix(),
		RefreshToken: sess.RefreshToken,
		User:         toGotrueUser(rec),
	}, http.StatusOK)
}

func (as *authService) login(w http.ResponseWriter, userID string) {
	sess, err := as.sessions.Login(userID)
	if err != nil {
		log.Errorf("auth service: login %s: %s", userID, err)
		writeAuthError(w, http.StatusInternalServerError, "server_error", "failed to create session")
		return
	}
	as.issue(w, userID, sess)
}

func (as *authService) handleToken(w http.ResponseWriter, r *http.Request) {
	switch grant := r.URL.Query().Get("grant_type"); grant {
	case "password":
		var body credentialsBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeAuthError(w, http.StatusBadRequest, "invalid_request", "malformed body")
			return
		}
		rec, ok := as.users.check(body.Email, body.Password)
		if !ok {
			log.Tracef("auth service: invalid login for [%s]", body.Email)
			writeAuthError(w, http.StatusBadRequest, "invalid_grant", "Invalid login credentials")
			return
		}
		as.login(w, rec.ID)

	case "refresh_token":
		var body refreshBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeAuthError(w, http.StatusBadRequest, "invalid_request", "malformed body")
			return
		}
		sess, ok, err := as.sessions.Refresh(body.RefreshToken)
		if err != nil {
			writeAuthError(w, http.StatusInternalServerError, "server_error", "failed to refresh session")
			return
		}
		if !ok {
			writeAuthError(w, http.StatusBadRequest, "invalid_grant", "Refresh Token Not Found")
			return
		}
		as.issue(w, sess.UserID, sess)

	case "pkce":
		if err := r.ParseForm(); err != nil {
			writeAuthError(w, http.StatusBadRequest, "invalid_request", "malformed form")
			return
		}
		code, ok := as.codes.take(r.PostForm.Get("code"), as.now())
		if !ok {
			writeAuthError(w, http.StatusBadRequest, "invalid_grant", "invalid or expired code")
			return
		}
		if oauth2.S256ChallengeFromVerifier(r.PostForm.Get("code_verifier")) != code.Challenge {
			writeAuthError(w, http.StatusBadRequest, "invalid_grant", "code challenge does not match")
			return
		}
		as.login(w, code.UserID)

	default:
		writeAuthError(w, http.StatusBadRequest, "unsupported_grant_type", "unsupported grant type: "+grant)
	}
}

// handleAuthorize skips the upstream provider and redirects straight back with a code.
func (as *authService) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	redirectTo, err := url.Parse(q.Get("redirect_uri"))
	if err != nil || redirectTo.Scheme == "" || redirectTo.Host == "" {
		writeAuthError(w, http.StatusBadRequest, "invalid_request", "invalid redirect_uri")
		return
	}
	if q.Get("code_challenge") == "" {
		writeAuthError(w, http.StatusBadRequest, "invalid_request", "code_challenge is required")
		return
	}

	code, err := pkg.GenerateRandomString(24)
	if err != nil {
		writeAuthError(w, http.StatusInternalServerError, "server_error", "failed to create code")
		return
	}
	as.codes.put(code, authCode{
		UserID:    as.oauthUserID,
		Challenge: q.Get("code_challenge"),
		ExpiresAt: as.now().Add(authCodeTTL),
	})

	back := redirectTo.Query()
	back.Set("code", code)
	back.Set("state", q.Get("state"))
	redirectTo.RawQuery = back.Encode()
	log.Debugf("auth service: authorize via [%s], redirecting to %s", q.Get("provider"), redirectTo.Host)
	http.Redirect(w, r, redirectTo.String(), http.StatusFound)
}

func bearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func (as *authService) handleUser(w http.ResponseWriter, r *http.Request) {
	token := bearer(r)
	if as.devMode && token == auth.DevToken {
		pkg.WriteJSON(w, gotrueUser{
			ID:           auth.DevUser.ID,
			Email:        auth.DevUser.Email,
			UserMetadata: map[string]string{"name": auth.DevUser.Name},
		}, http.StatusOK)
		return
	}

	userID, ok := as.sessions.UserID(token)
	if !ok {
		writeAuthError(w, http.StatusUnauthorized, "unauthorized", "invalid JWT")
		return
	}
	rec, ok := as.users.get(userID)
	if !ok {
		writeAuthError(w, http.StatusNotFound, "user_not_found", "User not found")
		return
	}
	pkg.WriteJSON(w, toGotrueUser(rec), http.StatusOK)
}

func (as *authService) handleLogout(w http.ResponseWriter, r *http.Request) {
	if !as.sessions.Logout(bearer(r)) {
		log.Tracef("auth service: logout with unknown token")
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSignup registers the account and signs it in right away (auto confirm).
func (as *authService) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeAuthError(w, http.StatusBadRequest, "invalid_request", "malformed body")
		return
	}
	if body.Email == "" || len(body.Password) < 6 {
		writeAuthError(w, http.StatusUnprocessableEntity, "validation_failed", "email and a password of at least 6 characters are required")
		return
	}

	name, _, _ := strings.Cut(body.Email, "@")
	rec, err := as.users.add("", body.Email, name, body.Password)
	if err != nil {
		writeAuthError(w, http.StatusUnprocessableEntity, "user_already_exists", "User already registered")
		return
	}
	log.Debugf("auth service: signed up %s", rec.Email)
	as.login(w, rec.ID)
}
