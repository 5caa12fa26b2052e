package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/2beens/liftlog/internal/config"
	"github.com/2beens/liftlog/internal/devserver"
	"github.com/2beens/liftlog/internal/logging"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting dev server ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	fakeExercises := flag.Int("fake-exercises", 0, "number of generated exercises to seed on top of the defaults")
	noSeed := flag.Bool("no-seed", false, "start with an empty store")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	logCloser := logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    false,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SentryServerName: "liftlog-devserver",
	})
	defer logCloser.Close()

	devUserPassword := os.Getenv("LIFTLOG_DEV_PASSWORD")
	if devUserPassword == "" {
		log.Errorf("dev user password not set, use LIFTLOG_DEV_PASSWORD to set it")
		devUserPassword = "dev-password"
	}

	honeycombEnabled := os.Getenv("HONEYCOMB_ENABLED") == "true"
	if honeycombEnabled {
		if honeycombApiKey := os.Getenv("HONEYCOMB_API_KEY"); honeycombApiKey == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
	} else {
		log.Debugln("honeycomb tracing disabled")
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	server, err := devserver.NewServer(devserver.NewServerParams{
		Config:                  cfg,
		DevUserPassword:         devUserPassword,
		HoneycombTracingEnabled: honeycombEnabled,
		SeedDefaults:            !*noSeed,
		FakeExercises:           *fakeExercises,
	})
	if err != nil {
		log.Fatalf("new dev server: %s", err)
	}

	server.Serve(ctx, cfg.DevServerHost, cfg.DevServerPort)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, shutting down ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}
