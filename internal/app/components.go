// Package app wires the ingest, storage and analytics components shared by the
// service, the MCP stdio server and the command line tool.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/2beens/fitsync/internal/analytics"
	"github.com/2beens/fitsync/internal/cache"
	"github.com/2beens/fitsync/internal/config"
	"github.com/2beens/fitsync/internal/events"
	"github.com/2beens/fitsync/internal/export"
	"github.com/2beens/fitsync/internal/ingest/hevy"
	"github.com/2beens/fitsync/internal/store"
	"github.com/2beens/fitsync/internal/syncer"
	"github.com/2beens/fitsync/internal/telemetry/metrics"
	"github.com/2beens/fitsync/internal/templates"
	"github.com/2beens/fitsync/internal/workout"

	log "github.com/sirupsen/logrus"
)

// HevyAPIKeyEnv holds the key handed to the Hevy MCP server.
const HevyAPIKeyEnv = "HEVY_API_KEY"

// Store is implemented by both the postgres repo and the sqlite cache.
type Store interface {
	UpsertWorkouts(ctx context.Context, workouts []workout.Workout) (*store.UpsertResult, error)
	ListWorkouts(ctx context.Context, params workout.ListParams) ([]workout.Workout, error)
	UpsertDailyMetrics(ctx context.Context, days []workout.DailyMetric) (*store.UpsertResult, error)
	UpsertRawMetrics(ctx context.Context, metrics []workout.RawMetric) (*store.UpsertResult, error)
	ListDailyMetrics(ctx context.Context, userID string, from, to time.Time) ([]workout.DailyMetric, error)
}

type ComponentsParams struct {
	Config *config.Config
	Store  Store
	// Optional.
	Status    *syncer.StatusStore
	Publisher *events.KafkaPublisher
	Metrics   *metrics.Manager
}

type Components struct {
	Resolver *templates.Index
	Reports  *analytics.Engine
	Syncer   *syncer.Service
	Exporter *export.Exporter
	Fetcher  *hevy.Client
}

// NewComponents builds the engine and sync service on top of the given store.
func NewComponents(params ComponentsParams) (*Components, error) {
	cfg := params.Config

	resolver, err := LoadResolver(cfg.TemplatesPath)
	if err != nil {
		return nil, err
	}

	authoritative := workout.Source(cfg.AuthoritativeSource)
	reports := analytics.NewEngine(analytics.EngineParams{
		Lister:        params.Store,
		DailyMetrics:  params.Store,
		Resolver:      resolver,
		Policies:      cfg.Policies,
		Authoritative: authoritative,
		Cache:         cache.NewReportCache(cfg.ReportCacheSizeMB),
		CacheTTL:      cfg.ReportCacheTTL,
	})

	fetcher := NewHevyClient(cfg)

	serviceParams := syncer.ServiceParams{
		Fetcher:       fetcher,
		Store:         params.Store,
		Resolver:      resolver,
		Authoritative: authoritative,
		Reports:       reports,
		Metrics:       params.Metrics,
	}
	// keep the interfaces untyped nil when unset
	if params.Status != nil {
		serviceParams.Status = params.Status
	}
	if params.Publisher != nil {
		serviceParams.Publisher = params.Publisher
	}

	return &Components{
		Resolver: resolver,
		Reports:  reports,
		Syncer:   syncer.NewService(serviceParams),
		Exporter: export.NewExporter(params.Store, authoritative),
		Fetcher:  fetcher,
	}, nil
}

var ErrNoTemplatesCatalog = errors.New("no exercise templates catalog configured")

// LoadResolver loads the exercise catalog. A missing or unreadable catalog is an error,
// the binaries do not start without one.
func LoadResolver(path string) (*templates.Index, error) {
	if path == "" {
		return nil, ErrNoTemplatesCatalog
	}
	catalog, err := templates.LoadCatalog(path)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	return templates.BuildIndex(catalog), nil
}

func NewHevyClient(cfg *config.Config) *hevy.Client {
	apiKey := os.Getenv(HevyAPIKeyEnv)
	if apiKey == "" {
		log.Warnf("hevy api key not set, use %s env var to set it", HevyAPIKeyEnv)
	}
	return hevy.NewClient(hevy.Config{
		Command:  cfg.HevyCommand,
		Args:     cfg.HevyArgs,
		Dir:      cfg.HevyDir,
		Endpoint: cfg.HevyEndpoint,
		APIKey:   apiKey,
		PageSize: cfg.HevyPageSize,
		MaxPages: cfg.HevyMaxPages,
		Timeout:  cfg.HevyTimeout,
	})
}

// NewPublisher returns a kafka publisher, or nil when no brokers are configured.
func NewPublisher(cfg *config.Config) *events.KafkaPublisher {
	if len(cfg.KafkaBrokers) == 0 {
		log.Debugln("no kafka brokers configured, sync events disabled")
		return nil
	}
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
}

// SyncTimeout bounds one sync run.
func SyncTimeout(cfg *config.Config) time.Duration {
	if cfg.SyncTimeout <= 0 {
		return 5 * time.Minute
	}
	return cfg.SyncTimeout
}
