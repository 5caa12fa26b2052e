package main

import (
	"context"
	"fmt"
	"os"

	"github.com/2beens/liftlog/internal/api"
	"github.com/2beens/liftlog/internal/auth"
	"github.com/2beens/liftlog/internal/config"
	"github.com/2beens/liftlog/internal/draft"
	"github.com/2beens/liftlog/internal/localstore"
	"github.com/2beens/liftlog/internal/logging"
	"github.com/2beens/liftlog/internal/queries"
	"github.com/2beens/liftlog/internal/telemetry/metrics"
	"github.com/2beens/liftlog/internal/telemetry/tracing"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// application is everything a command needs, built once per invocation.
type application struct {
	cfg            *config.Config
	store          localstore.Store
	hosted         *auth.HostedProvider
	authCtx        *auth.Context
	queries        *queries.Client
	editor         *draft.Editor
	metricsManager *metrics.Manager

	closeLogs    func() error
	otelShutdown func()
}

func newApplication(ctx context.Context, env, configPath string) (_ *application, err error) {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return nil, err
	}

	logCloser := logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SentryServerName: "liftlog-cli",
	})

	a := &application{
		cfg:            cfg,
		closeLogs:      logCloser.Close,
		metricsManager: metrics.NewManager("liftlog", "cli", prometheus.NewRegistry()),
	}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	a.otelShutdown, err = tracing.HoneycombSetup(os.Getenv("HONEYCOMB_ENABLED") == "true", "liftlog-cli")
	if err != nil {
		return nil, fmt.Errorf("honeycomb setup: %w", err)
	}

	a.store, err = localstore.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	httpClient := api.NewTracedHTTPClient(cfg.HTTPTimeout)

	var provider auth.Provider
	switch cfg.AuthProvider {
	case config.AuthProviderHosted:
		a.hosted = auth.NewHostedProvider(cfg.AuthURL, cfg.AuthAnonKey, httpClient, a.store)
		if err := a.hosted.Restore(ctx); err != nil {
			log.Warnf("restore auth session: %s", err)
		}
		provider = a.hosted
	default:
		provider = auth.NewDevProvider()
	}

	a.authCtx = auth.NewContext(provider, cfg.Dev)
	if err := a.authCtx.Init(ctx); err != nil {
		log.Warnf("auth init: %s", err)
	}

	apiClient := api.NewClient(cfg.APIURL, httpClient, a.authCtx, a.metricsManager)
	a.queries = queries.New(apiClient, cfg.QueryCacheSize, cfg.QueryTTL, a.metricsManager)

	a.editor = draft.NewEditor(a.queries, a.store, a.metricsManager)
	if found, err := a.editor.Load(ctx); err != nil {
		log.Errorf("load workout draft: %s", err)
	} else if found {
		log.Debugln("workout draft restored")
	}

	return a, nil
}

func (a *application) close() error {
	var errs error
	if a.authCtx != nil {
		a.authCtx.Close()
	}
	if a.store != nil {
		errs = multierr.Append(errs, a.store.Close())
	}
	if a.otelShutdown != nil {
		a.otelShutdown()
	}
	if a.closeLogs != nil {
		errs = multierr.Append(errs, a.closeLogs())
	}
	return errs
}
