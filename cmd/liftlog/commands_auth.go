package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/2beens/liftlog/internal/auth"

	"github.com/urfave/cli/v2"
)

func credentialsFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "email", Usage: "account email"},
		&cli.StringFlag{Name: "password", Usage: "account password", EnvVars: []string{"LIFTLOG_PASSWORD"}},
	}
}

func (r *runner) loginCmd() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in with email and password, or through an OAuth provider",
		Flags: append(credentialsFlags(),
			&cli.BoolFlag{Name: "oauth", Usage: "sign in through the configured OAuth provider"},
		),
		Action: func(c *cli.Context) error {
			if c.Bool("oauth") {
				if r.app.hosted == nil {
					return outputError(errors.New("oauth login needs the hosted auth provider"))
				}
				cfg := r.app.cfg
				_, err := r.app.hosted.SignInWithOAuth(c.Context, auth.OAuthParams{
					Provider:     cfg.AuthOAuthProvider,
					CallbackPort: cfg.AuthCallbackPort,
					OpenURL: func(authURL string) error {
						_, err := fmt.Fprintf(os.Stderr, "open this url to sign in:\n  %s\n", authURL)
						return err
					},
				})
				if err != nil {
					return outputError(err)
				}
			} else {
				creds := auth.Credentials{Email: c.String("email"), Password: c.String("password")}
				if err := r.app.authCtx.Login(c.Context, creds); err != nil {
					return outputError(err)
				}
			}
			return r.out.print(r.app.authCtx.User())
		},
	}
}

func (r *runner) signupCmd() *cli.Command {
	return &cli.Command{
		Name:  "signup",
		Usage: "Create an account at the hosted auth service",
		Flags: credentialsFlags(),
		Action: func(c *cli.Context) error {
			if r.app.hosted == nil {
				return outputError(errors.New("signup needs the hosted auth provider"))
			}
			session, err := r.app.hosted.SignUp(c.Context, auth.Credentials{
				Email:    c.String("email"),
				Password: c.String("password"),
			})
			if err != nil {
				return outputError(err)
			}
			if session == nil {
				r.out.message("check your inbox to confirm the account")
				return nil
			}
			return r.out.print(session.User)
		},
	}
}

func (r *runner) logoutCmd() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Sign out and forget the local session",
		Action: func(c *cli.Context) error {
			if err := r.app.authCtx.Logout(c.Context); err != nil {
				return outputError(err)
			}
			r.out.message("signed out")
			return nil
		},
	}
}

func (r *runner) whoamiCmd() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the signed in user",
		Action: func(c *cli.Context) error {
			user := r.app.authCtx.User()
			if user == nil {
				return outputError(auth.ErrNotAuthenticated)
			}
			return r.out.print(user)
		},
	}
}
