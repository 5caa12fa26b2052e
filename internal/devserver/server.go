package devserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/liftlog/internal/auth"
	"github.com/2beens/liftlog/internal/config"
	"github.com/2beens/liftlog/internal/middleware"
	"github.com/2beens/liftlog/internal/telemetry/metrics"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

const sessionsCleanupInterval = time.Hour

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server

	config   *config.Config
	store    *Store
	sessions *Sessions
	auth     *authService

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
	cancelCleanup  context.CancelFunc
}

type NewServerParams struct {
	Config *config.Config
	// DevUserPassword is the password of the seeded dev@example.com account.
	DevUserPassword         string
	AccessTTL               time.Duration
	HoneycombTracingEnabled bool
	// SeedDefaults loads the base exercises, muscles and a program template.
	SeedDefaults  bool
	FakeExercises int
	// MetricsRegistry is created when nil.
	MetricsRegistry *prometheus.Registry
}

func NewServer(params NewServerParams) (*Server, error) {
	if params.Config == nil {
		return nil, errors.New("config is nil")
	}
	if params.DevUserPassword == "" {
		return nil, errors.New("dev user password is empty")
	}
	accessTTL := params.AccessTTL
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}

	promRegistry := params.MetricsRegistry
	if promRegistry == nil {
		promRegistry = metrics.SetupPrometheus()
	}
	metricsManager := metrics.NewManager("devserver", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "liftlog-devserver")
	if err != nil {
		return nil, fmt.Errorf("honeycomb setup: %w", err)
	}

	accounts := newUsers()
	devUser, err := accounts.add(auth.DevUser.ID, auth.DevUser.Email, auth.DevUser.Name, params.DevUserPassword)
	if err != nil {
		return nil, fmt.Errorf("add dev user: %w", err)
	}

	store := NewStore()
	if params.SeedDefaults {
		if err := store.SeedDefaults(); err != nil {
			return nil, fmt.Errorf("seed defaults: %w", err)
		}
	}
	if params.FakeExercises > 0 {
		if _, err := store.SeedFakeExercises(params.FakeExercises, time.Now().UnixNano()); err != nil {
			return nil, fmt.Errorf("seed fake exercises: %w", err)
		}
	}

	sessions := NewSessions(accessTTL, DefaultRefreshTTL)

	return &Server{
		config:   params.Config,
		store:    store,
		sessions: sessions,
		auth: &authService{
			devMode:     params.Config.Dev,
			users:       accounts,
			sessions:    sessions,
			codes:       newAuthCodes(),
			oauthUserID: devUser.ID,
			now:         time.Now,
		},
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) Store() *Store {
	return s.store
}

func (s *Server) Sessions() *Sessions {
	return s.sessions
}

func (s *Server) MetricsManager() *metrics.Manager {
	return s.metricsManager
}

// Router builds the full handler: the REST api under /api and the auth service under /auth/v1.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("devserver-router"))

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteResponse(w, pkg.ContentType.Text, "liftlog dev server", http.StatusOK)
	}).Methods(http.MethodGet).Name("root")
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteResponse(w, pkg.ContentType.Text, "ok", http.StatusOK)
	}).Methods(http.MethodGet).Name("health")

	setupAPIRoutes(r.PathPrefix("/api").Subrouter(), s.store)
	s.auth.setupRoutes(r.PathPrefix("/auth/v1").Subrouter())

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.config.Dev, s.sessions)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

// MetricsRouter serves the prometheus registry at /metrics.
func (s *Server) MetricsRouter() http.Handler {
	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}))
	return metricsRouter
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.Router(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsAddr := net.JoinHostPort(host, strconv.Itoa(s.config.DevServerMetricsPort))
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           s.MetricsRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > dev server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("dev server, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	cleanupCtx, cancel := context.WithCancel(ctx)
	s.cancelCleanup = cancel
	go func() {
		ticker := time.NewTicker(sessionsCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupCtx.Done():
				return
			case <-ticker.C:
				s.sessions.ScanAndClean(cleanupCtx)
			}
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)
	if s.cancelCleanup != nil {
		s.cancelCleanup()
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
