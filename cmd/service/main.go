package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/2beens/fitsync/internal"
	"github.com/2beens/fitsync/internal/config"
	"github.com/2beens/fitsync/internal/logging"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	envRedisPassword    = "FITSYNC_REDIS_PASS"
	envPostgresPassword = "FITSYNC_POSTGRES_PASS"
	envHoneycombEnabled = "HONEYCOMB_ENABLED"
	envHoneycombAPIKey  = "HONEYCOMB_API_KEY"
	envSentryDSN        = "SENTRY_DSN"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	envFile := flag.String("env-file", ".env", "optional file with secrets as env vars")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "failed to load env file %s: %s\n", *envFile, err)
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %s\n", err)
		os.Exit(1)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv(envSentryDSN),
		SentryServerName: "fitsync-service",
	})
	log.Warnf("---->> fitsync running in [%s] environment, port %d", *env, cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := internal.NewServer(ctx, serverParams(cfg))
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	<-ctx.Done()
	log.Warnf("shutdown signal received: %s", context.Cause(ctx))
	server.GracefulShutdown()
}

// serverParams collects the secrets and feature switches that only come from the environment.
func serverParams(cfg *config.Config) internal.NewServerParams {
	params := internal.NewServerParams{
		Config:                  cfg,
		PostgresPassword:        os.Getenv(envPostgresPassword),
		RedisPassword:           os.Getenv(envRedisPassword),
		HoneycombTracingEnabled: os.Getenv(envHoneycombEnabled) == "true",
	}

	if params.RedisPassword == "" {
		log.Warnf("redis password not set, use %s", envRedisPassword)
	}
	if params.HoneycombTracingEnabled {
		if os.Getenv(envHoneycombAPIKey) == "" {
			log.Warnf("%s env var not set", envHoneycombAPIKey)
		}
		if os.Getenv("OTEL_SERVICE_NAME") == "" {
			log.Warnln("OTEL_SERVICE_NAME env var not set")
		}
	} else {
		log.Debugln("honeycomb tracing disabled")
	}

	versionInfo, err := lastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
		versionInfo = "unknown"
	}
	params.VersionInfo = versionInfo

	return params
}

// lastCommitHash assumes the binary runs from within the repository checkout.
func lastCommitHash() (string, error) {
	stdout, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(stdout)), nil
}
