package auth

import (
	"time"
)

// wire shapes of the hosted (GoTrue compatible) auth service

type tokenResponse struct {
	AccessToken  string      `json:"access_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int64       `json:"expires_in"`
	ExpiresAt    int64       `json:"expires_at"`
	RefreshToken string      `json:"refresh_token"`
	User         *hostedUser `json:"user"`
}

type hostedUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

type passwordGrant struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshGrant struct {
	RefreshToken string `json:"refresh_token"`
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (e errorResponse) String() string {
	for _, s := range []string{e.ErrorDescription, e.Msg, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

func (u *hostedUser) toUser() User {
	if u == nil {
		return User{}
	}
	user := User{ID: u.ID, Email: u.Email}
	for _, key := range []string{"name", "full_name"} {
		if name, ok := u.UserMetadata[key].(string); ok && name != "" {
			user.Name = name
			break
		}
	}
	return user
}

func (r *tokenResponse) toSession(now time.Time) *Session {
	session := &Session{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		TokenType:    r.TokenType,
		User:         r.User.toUser(),
	}
	switch {
	case r.ExpiresAt > 0:
		session.ExpiresAt = time.Unix(r.ExpiresAt, 0)
	case r.ExpiresIn > 0:
		session.ExpiresAt = now.Add(time.Duration(r.ExpiresIn) * time.Second)
	}
	return session
}
