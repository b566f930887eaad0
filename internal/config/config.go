package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/2beens/fitsync/internal/analytics"

	"github.com/BurntSushi/toml"
)

// DefaultTemplatesPath is used when templates_path is not set.
const DefaultTemplatesPath = "./data/exercise_templates.json"

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// extra CORS origins, besides the local dashboard
	AllowedOrigins []string `toml:"allowed_origins"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// postgres
	PostgresHost     string `toml:"postgres_host"`
	PostgresPort     string `toml:"postgres_port"`
	PostgresDBName   string `toml:"postgres_db_name"`
	PostgresUser     string `toml:"postgres_user"`
	PostgresMaxConns int32  `toml:"postgres_max_conns"`
	// local store for the offline CLI, e.g. sqlite:./data/fitsync.db
	LocalStorePath string `toml:"local_store_path"`
	// redis
	RedisHost     string        `toml:"redis_host"`
	RedisPort     string        `toml:"redis_port"`
	SyncStatusTTL time.Duration `toml:"sync_status_ttl"`
	// requests per minute allowed on sync and import routes
	SyncRateLimitPerMin int `toml:"sync_rate_limit_per_min"`
	// hevy mcp server
	HevyCommand  string        `toml:"hevy_command"`
	HevyArgs     []string      `toml:"hevy_args"`
	HevyDir      string        `toml:"hevy_dir"`
	HevyEndpoint string        `toml:"hevy_endpoint"`
	HevyPageSize int           `toml:"hevy_page_size"`
	HevyMaxPages int           `toml:"hevy_max_pages"`
	HevyTimeout  time.Duration `toml:"hevy_timeout"`
	// sync
	DefaultUserID       string        `toml:"default_user_id"`
	AuthoritativeSource string        `toml:"authoritative_source"`
	SyncSchedule        string        `toml:"sync_schedule"`
	SyncTimeout         time.Duration `toml:"sync_timeout"`
	TemplatesPath       string        `toml:"templates_path"`
	// kafka, events are not published when no brokers are set
	KafkaBrokers []string `toml:"kafka_brokers"`
	KafkaTopic   string   `toml:"kafka_topic"`
	// reports
	ReportCacheSizeMB int           `toml:"report_cache_size_mb"`
	ReportCacheTTL    time.Duration `toml:"report_cache_ttl"`

	PolicyRaw toml.Primitive     `toml:"policy"`
	Policies  analytics.Policies `toml:"-"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

func envKey(env string) string {
	switch strings.ToLower(env) {
	case "prod", "production":
		return "production"
	default:
		return "development"
	}
}

// Load reads the TOML file at path and returns the config of env with defaults applied.
// Keys under [<env>.policy] override single fields of the default analytics policies.
func Load(env, path string) (*Config, error) {
	var t Toml
	md, err := toml.DecodeFile(path, &t)
	if err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return fromMetadata(md, &t, env)
}

// Parse is Load for an in-memory TOML document.
func Parse(env, data string) (*Config, error) {
	var t Toml
	md, err := toml.Decode(data, &t)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return fromMetadata(md, &t, env)
}

// Defaults returns the config of env when no file is available, used by the command line tool.
func Defaults(env string) (*Config, error) {
	return Parse(env, "["+envKey(env)+"]\n")
}

func fromMetadata(md toml.MetaData, t *Toml, env string) (*Config, error) {
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}

	cfg.Policies = defaultPolicies()
	if md.IsDefined(envKey(env), "policy") {
		if err := md.PrimitiveDecode(cfg.PolicyRaw, &cfg.Policies); err != nil {
			return nil, fmt.Errorf("decode policy: %w", err)
		}
	}
	unit, err := analytics.ParseUnit(string(cfg.Policies.Unit))
	if err != nil {
		return nil, fmt.Errorf("policy: %w", err)
	}
	cfg.Policies.Unit = unit

	applyDefaults(cfg)
	return cfg, nil
}

// defaultPolicies copies the package defaults, TOML alias tables are merged into the copy.
func defaultPolicies() analytics.Policies {
	p := analytics.DefaultPolicies()
	aliases := make(map[string]string, len(p.Balance.Aliases))
	for k, v := range p.Balance.Aliases {
		aliases[k] = v
	}
	p.Balance.Aliases = aliases
	p.Balance.IdealRanges = append([]analytics.GroupRange(nil), p.Balance.IdealRanges...)
	p.Plateau.Recommendations = append([]string(nil), p.Plateau.Recommendations...)
	return p
}

func applyDefaults(cfg *Config) {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.PrometheusMetricsHost == "" {
		cfg.PrometheusMetricsHost = "localhost"
	}
	if cfg.PrometheusMetricsPort == "" {
		cfg.PrometheusMetricsPort = "2112"
	}
	if cfg.PostgresHost == "" {
		cfg.PostgresHost = "localhost"
	}
	if cfg.PostgresPort == "" {
		cfg.PostgresPort = "5432"
	}
	if cfg.PostgresDBName == "" {
		cfg.PostgresDBName = "fitsync"
	}
	if cfg.RedisHost == "" {
		cfg.RedisHost = "localhost"
	}
	if cfg.RedisPort == "" {
		cfg.RedisPort = "6379"
	}
	if cfg.SyncRateLimitPerMin == 0 {
		cfg.SyncRateLimitPerMin = 6
	}
	if cfg.HevyCommand == "" && cfg.HevyEndpoint == "" {
		cfg.HevyCommand = "node"
		if len(cfg.HevyArgs) == 0 {
			cfg.HevyArgs = []string{"dist/index.js"}
		}
	}
	if cfg.HevyPageSize == 0 {
		cfg.HevyPageSize = 10
	}
	if cfg.HevyMaxPages == 0 {
		cfg.HevyMaxPages = 100
	}
	if cfg.HevyTimeout == 0 {
		cfg.HevyTimeout = 30 * time.Second
	}
	if cfg.AuthoritativeSource == "" {
		cfg.AuthoritativeSource = "hevy"
	}
	if cfg.SyncTimeout == 0 {
		cfg.SyncTimeout = 5 * time.Minute
	}
	if cfg.KafkaTopic == "" {
		cfg.KafkaTopic = "workouts.synced"
	}
	if cfg.ReportCacheSizeMB == 0 {
		cfg.ReportCacheSizeMB = 32
	}
	if cfg.ReportCacheTTL == 0 {
		cfg.ReportCacheTTL = 10 * time.Minute
	}
	if cfg.TemplatesPath == "" {
		cfg.TemplatesPath = DefaultTemplatesPath
	}
	if cfg.LocalStorePath == "" {
		cfg.LocalStorePath = "sqlite:./data/fitsync.db"
	}
}
