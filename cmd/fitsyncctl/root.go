package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/2beens/fitsync/internal/app"
	"github.com/2beens/fitsync/internal/config"
	"github.com/2beens/fitsync/internal/db"
	"github.com/2beens/fitsync/internal/logging"
	"github.com/2beens/fitsync/internal/store"
	"github.com/2beens/fitsync/internal/store/sqlite"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	storePostgres = "postgres"
	storeSQLite   = "sqlite"
)

type rootOptions struct {
	env        string
	configPath string
	envFile    string
	store      string
	templates  string
	userID     string
	logLevel   string
}

// session is what every subcommand runs against: loaded config, an open store and the wired components.
type session struct {
	cfg        *config.Config
	userID     string
	components *app.Components
	store      app.Store
	close      func()
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "fitsyncctl",
		Short:         "fitsync command line tool",
		Long:          "Imports health exports and FIT activities, syncs Hevy workouts and prints training reports.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.env, "env", "development", "environment [prod | production | dev | development]")
	flags.StringVar(&opts.configPath, "config", "./config.toml", "path for the TOML config file, defaults are used when missing")
	flags.StringVar(&opts.envFile, "env-file", ".env", "optional file with secrets as env vars")
	flags.StringVar(&opts.store, "store", storeSQLite, "cache store: postgres, sqlite, or a sqlite file path (sqlite:./x.db)")
	flags.StringVar(&opts.templates, "templates", "", "exercise templates catalog (json or yaml), overrides templates_path from the config")
	flags.StringVar(&opts.userID, "user", "", "user id (uuid), defaults to default_user_id from the config")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level")

	rootCmd.AddCommand(
		newImportHealthCmd(opts),
		newImportFitCmd(opts),
		newSyncCmd(opts),
		newReportCmd(opts),
		newExportCmd(opts),
	)

	return rootCmd
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	if err := godotenv.Load(o.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file %s: %w", o.envFile, err)
	}

	var cfg *config.Config
	var err error
	if _, statErr := os.Stat(o.configPath); errors.Is(statErr, os.ErrNotExist) {
		cfg, err = config.Defaults(o.env)
	} else {
		cfg, err = config.Load(o.env, o.configPath)
	}
	if err != nil {
		return nil, err
	}

	if o.templates != "" {
		cfg.TemplatesPath = o.templates
	}
	return cfg, nil
}

func (o *rootOptions) resolveUser(cfg *config.Config) (string, error) {
	userID := o.userID
	if userID == "" {
		userID = cfg.DefaultUserID
	}
	if userID == "" {
		return "", errors.New("no user given, use --user or set default_user_id")
	}
	if _, err := uuid.Parse(userID); err != nil {
		return "", fmt.Errorf("invalid user id %q: %w", userID, err)
	}
	return userID, nil
}

func (o *rootOptions) openSession(ctx context.Context) (*session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	logging.Setup(logging.LoggerSetupParams{
		LogLevel:    o.logLevel,
		LogToStdout: true,
		Environment: cfg.Environment,
	})
	// stdout is kept for command output
	log.SetOutput(os.Stderr)

	userID, err := o.resolveUser(cfg)
	if err != nil {
		return nil, err
	}

	cacheStore, closeStore, err := o.openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	components, err := app.NewComponents(app.ComponentsParams{
		Config: cfg,
		Store:  cacheStore,
	})
	if err != nil {
		closeStore()
		return nil, err
	}

	return &session{
		cfg:        cfg,
		userID:     userID,
		components: components,
		store:      cacheStore,
		close:      closeStore,
	}, nil
}

func (o *rootOptions) openStore(ctx context.Context, cfg *config.Config) (app.Store, func(), error) {
	switch {
	case o.store == storePostgres:
		pool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:     cfg.PostgresHost,
			DBPort:     cfg.PostgresPort,
			DBName:     cfg.PostgresDBName,
			DBUser:     cfg.PostgresUser,
			DBPassword: os.Getenv("FITSYNC_POSTGRES_PASS"),
			MaxConns:   cfg.PostgresMaxConns,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store.NewRepo(pool, store.DefaultRetryPolicy, nil), pool.Close, nil
	case o.store == storeSQLite, sqlite.IsSQLiteURI(o.store):
		path := cfg.LocalStorePath
		if o.store != storeSQLite {
			path = o.store
		}
		localStore, err := sqlite.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return localStore, func() { _ = localStore.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q, use postgres or sqlite", o.store)
	}
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
