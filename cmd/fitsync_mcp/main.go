// Package main runs the fitsync MCP server over stdio (for local MCP clients).
// The same server is mounted on the main service at /mcp over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/2beens/fitsync/internal/app"
	"github.com/2beens/fitsync/internal/config"
	"github.com/2beens/fitsync/internal/db"
	"github.com/2beens/fitsync/internal/logging"
	fitsyncmcp "github.com/2beens/fitsync/internal/mcp"
	"github.com/2beens/fitsync/internal/store"
	"github.com/2beens/fitsync/internal/store/sqlite"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	envFile := flag.String("env-file", ".env", "optional file with secrets as env vars")
	storeKind := flag.String("store", "postgres", "cache store: postgres or sqlite")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("load env file: %v", err)
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// stdout carries the MCP protocol
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.LogsPath,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogFormatJSON,
		Environment:   cfg.Environment,
	})
	if cfg.LogsPath == "" {
		log.SetOutput(os.Stderr)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cacheStore app.Store
	switch *storeKind {
	case "sqlite":
		localStore, err := sqlite.Open(cfg.LocalStorePath)
		if err != nil {
			log.Fatalf("open sqlite store: %v", err)
		}
		defer func() {
			_ = localStore.Close()
		}()
		cacheStore = localStore
	default:
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:     cfg.PostgresHost,
			DBPort:     cfg.PostgresPort,
			DBName:     cfg.PostgresDBName,
			DBUser:     cfg.PostgresUser,
			DBPassword: os.Getenv("FITSYNC_POSTGRES_PASS"),
			MaxConns:   cfg.PostgresMaxConns,
		})
		if err != nil {
			log.Fatalf("db pool: %v", err)
		}
		defer dbPool.Close()
		if err := db.Migrate(ctx, dbPool); err != nil {
			log.Fatalf("migrate db: %v", err)
		}
		cacheStore = store.NewRepo(dbPool, store.DefaultRetryPolicy, nil)
	}

	components, err := app.NewComponents(app.ComponentsParams{
		Config: cfg,
		Store:  cacheStore,
	})
	if err != nil {
		log.Fatalf("new components: %v", err)
	}

	server := fitsyncmcp.NewServer(
		fitsyncmcp.NewContextService(components.Reports, components.Syncer),
		cfg.DefaultUserID,
	)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}
