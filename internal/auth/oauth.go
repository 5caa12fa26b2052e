package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/pkg"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const callbackPath = "/auth/callback"

// OAuthParams configure the redirect flow against the hosted auth service.
type OAuthParams struct {
	// Provider is the upstream identity provider name, e.g. google.
	Provider     string
	CallbackPort int
	// OpenURL presents the authorize URL to the user (browser, terminal print).
	OpenURL func(authURL string) error
}

func (p *HostedProvider) oauthConfig(redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID: p.anonKey,
		Endpoint: oauth2.Endpoint{
			AuthURL:   p.endpoint("/authorize"),
			TokenURL:  p.endpoint("/token?grant_type=pkce"),
			AuthStyle: oauth2.AuthStyleInParams,
		},
		RedirectURL: redirectURL,
	}
}

// SignInWithOAuth runs the authorization code flow (with PKCE): it starts a local
// callback listener, presents the authorize URL and waits for the redirect.
func (p *HostedProvider) SignInWithOAuth(ctx context.Context, params OAuthParams) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.hosted.signInWithOAuth")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if params.OpenURL == nil {
		return nil, errors.New("no way to open the authorize url")
	}

	listener, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(params.CallbackPort)))
	if err != nil {
		return nil, fmt.Errorf("listen for oauth callback: %w", err)
	}
	redirectURL := fmt.Sprintf("http://%s%s", listener.Addr().String(), callbackPath)

	state, err := p.RandStringFunc(24)
	if err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("generate oauth state: %w", err)
	}
	verifier := oauth2.GenerateVerifier()
	conf := p.oauthConfig(redirectURL)

	type result struct {
		session *Session
		err     error
	}
	resultCh := make(chan result, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		session, err := p.handleCallback(r, conf, state, verifier)
		if err != nil {
			http.Error(w, "login failed", http.StatusForbidden)
		} else {
			pkg.WriteResponse(w, pkg.ContentType.Text, "login successful, you can close this window", http.StatusOK)
		}
		select {
		case resultCh <- result{session: session, err: err}:
		default:
		}
	})

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("oauth callback server: %s", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	authURL := conf.AuthCodeURL(state,
		oauth2.S256ChallengeOption(verifier),
		oauth2.SetAuthURLParam("provider", params.Provider),
		oauth2.SetAuthURLParam("redirect_to", redirectURL),
	)
	if err := params.OpenURL(authURL); err != nil {
		return nil, fmt.Errorf("open authorize url: %w", err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultCh:
		if res.err != nil {
			return nil, res.err
		}
		p.setSession(ctx, res.session)
		return res.session, nil
	}
}

func (p *HostedProvider) handleCallback(r *http.Request, conf *oauth2.Config, state, verifier string) (*Session, error) {
	if st := r.FormValue("state"); st != state {
		log.Errorf("oauth state mismatch: %s != %s", st, state)
		return nil, errors.New("oauth state mismatch")
	}
	if errMsg := r.FormValue("error_description"); errMsg != "" {
		return nil, fmt.Errorf("oauth: %s", errMsg)
	}

	code := r.FormValue("code")
	if code == "" {
		return nil, errors.New("oauth callback without code")
	}

	ctx := context.WithValue(r.Context(), oauth2.HTTPClient, p.httpClient)
	tok, err := conf.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchange oauth code: %w", err)
	}

	user, err := p.GetUser(ctx, tok.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("get oauth user: %w", err)
	}

	return &Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		ExpiresAt:    tok.Expiry,
		User:         *user,
	}, nil
}
