package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/tenmin/investcast/internal"
	"github.com/tenmin/investcast/internal/config"
	"github.com/tenmin/investcast/internal/logging"
	"github.com/tenmin/investcast/pkg"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    false,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        sentryDSN,
		SentryServerName: "investcast-service",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)

	versionInfo, err := tryGetLastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	tokenSecret := os.Getenv("INVESTCAST_TOKEN_SECRET")
	if tokenSecret == "" {
		log.Fatalf("session token secret not set, use INVESTCAST_TOKEN_SECRET env var to set it")
	}

	adminPasswordHash := os.Getenv("INVESTCAST_ADMIN_PASSWORD_HASH")
	if adminPasswordHash == "" {
		// development gets a throwaway fallback hash, production refuses logins
		log.Errorf("admin password hash not set, use INVESTCAST_ADMIN_PASSWORD_HASH env var to set it")
	}

	postgresPassword := os.Getenv("INVESTCAST_POSTGRES_PASS")
	if postgresPassword == "" {
		log.Errorf("postgres password not set. use INVESTCAST_POSTGRES_PASS")
	}

	redisPassword := os.Getenv("INVESTCAST_REDIS_PASS")
	if redisPassword == "" {
		log.Errorf("redis password not set. use INVESTCAST_REDIS_PASS")
	}

	if otelServiceName := os.Getenv("OTEL_SERVICE_NAME"); otelServiceName == "" {
		log.Warnln("OTEL_SERVICE_NAME env var not set")
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

	dirCreated, err := pkg.PathExists(cfg.AudioRootPath, true)
	if err != nil {
		log.Fatalf("check audio root dir: %s", err)
	}
	if !dirCreated {
		log.Fatalf("audio root dir not created: %s", cfg.AudioRootPath)
	} else {
		log.Printf("audio root dir: %s", cfg.AudioRootPath)
	}

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			VersionInfo:             versionInfo,
			AdminPasswordHash:       adminPasswordHash,
			TokenSecret:             tokenSecret,
			PostgresPassword:        postgresPassword,
			RedisPassword:           redisPassword,
			HoneycombTracingEnabled: honeycombEnabled,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}

// tryGetLastCommitHash will try to get the last commit hash
// assumes that the built main executable is in project root
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("/usr/bin/git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return pkg.BytesToString(stdout), nil
}
