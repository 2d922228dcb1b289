package config

import (
	"strings"
	"time"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
)

// Config is the root application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Auth        AuthConfig        `yaml:"auth"`
	Log         LogConfig         `yaml:"log"`
	CORS        CORSConfig        `yaml:"cors"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Matching    MatchingConfig    `yaml:"matching"`
	Opportunity OpportunityConfig `yaml:"opportunity"`
	Scheduler   SchedulerConfig   `yaml:"scheduler"`
	Events      EventsConfig      `yaml:"events"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	// StatementTimeout bounds every statement server-side; 0 leaves the
	// server default.
	StatementTimeout time.Duration `yaml:"statement_timeout" env:"DATABASE_STATEMENT_TIMEOUT"`
	// ConnectTimeout is how long startup keeps retrying the first ping.
	ConnectTimeout  time.Duration `yaml:"connect_timeout"  env:"DATABASE_CONNECT_TIMEOUT"`
	ApplicationName string        `yaml:"application_name" env:"DATABASE_APPLICATION_NAME" env-default:"swapmatch"`
}

// AuthConfig holds access-token validation settings. Tokens are issued by
// the external identity service with the same secret and issuer.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"swapmatch"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"15m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RateLimitConfig holds per-client request limits for the public API.
type RateLimitConfig struct {
	SwipesPerMinute int           `yaml:"swipes_per_minute" env:"RATE_LIMIT_SWIPES_PER_MINUTE" env-default:"120"`
	ReadsPerMinute  int           `yaml:"reads_per_minute"  env:"RATE_LIMIT_READS_PER_MINUTE"  env-default:"300"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"  env:"RATE_LIMIT_CLEANUP_INTERVAL"  env-default:"5m"`
}

// MatchingConfig holds discovery and scoring parameters. Defaults come from
// domain.DefaultMatchingConfig via defaults().
type MatchingConfig struct {
	WeightCategory  float64       `yaml:"weight_category"   env:"MATCHING_WEIGHT_CATEGORY"`
	WeightValue     float64       `yaml:"weight_value"      env:"MATCHING_WEIGHT_VALUE"`
	WeightCondition float64       `yaml:"weight_condition"  env:"MATCHING_WEIGHT_CONDITION"`
	WeightGeo       float64       `yaml:"weight_geo"        env:"MATCHING_WEIGHT_GEO"`
	WeightRecency   float64       `yaml:"weight_recency"    env:"MATCHING_WEIGHT_RECENCY"`
	RecencyHalfLife time.Duration `yaml:"recency_half_life" env:"MATCHING_RECENCY_HALF_LIFE"`
	GeoRadiusKm     float64       `yaml:"geo_radius_km"     env:"MATCHING_GEO_RADIUS_KM"`
	ValueTolerance  float64       `yaml:"value_tolerance"   env:"MATCHING_VALUE_TOLERANCE"`
	TopK            int           `yaml:"top_k"             env:"MATCHING_TOP_K"`

	MaxActiveListingsPerUser int  `yaml:"max_active_listings_per_user" env:"MATCHING_MAX_ACTIVE_LISTINGS_PER_USER"`
	MaxOpportunitiesPerItem  int  `yaml:"max_opportunities_per_item"   env:"MATCHING_MAX_OPPORTUNITIES_PER_ITEM"`
	EnableTwoWay             bool `yaml:"enable_two_way"               env:"MATCHING_ENABLE_TWO_WAY"`
	Partitions               int  `yaml:"partitions"                   env:"MATCHING_PARTITIONS"`
}

// OpportunityConfig holds opportunity lifecycle parameters. Defaults come
// from domain.DefaultLifecycleConfig via defaults().
type OpportunityConfig struct {
	TTL            time.Duration `yaml:"ttl"              env:"OPPORTUNITY_TTL"`
	Cooldown       time.Duration `yaml:"cooldown"         env:"OPPORTUNITY_COOLDOWN"`
	ListLimit      int           `yaml:"list_limit"       env:"OPPORTUNITY_LIST_LIMIT"`
	DismissScope   string        `yaml:"dismiss_scope"    env:"OPPORTUNITY_DISMISS_SCOPE"`
	WriteRetries   int           `yaml:"write_retries"    env:"OPPORTUNITY_WRITE_RETRIES"`
	RetryBaseDelay time.Duration `yaml:"retry_base_delay" env:"OPPORTUNITY_RETRY_BASE_DELAY"`
}

// SchedulerConfig controls the in-process discovery loop.
type SchedulerConfig struct {
	Enabled    bool          `yaml:"enabled"     env:"SCHEDULER_ENABLED"`
	Interval   time.Duration `yaml:"interval"    env:"SCHEDULER_INTERVAL"    env-default:"5m"`
	RunTimeout time.Duration `yaml:"run_timeout" env:"SCHEDULER_RUN_TIMEOUT" env-default:"2m"`
	// LockKey is the advisory lock id shared by all instances.
	LockKey int64 `yaml:"lock_key" env:"SCHEDULER_LOCK_KEY" env-default:"72104"`
}

// EventsConfig controls event publication.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled" env:"EVENTS_ENABLED"`
	Channel string `yaml:"channel" env:"EVENTS_CHANNEL" env-default:"swap_events"`
}

// defaults returns the values seeded before the YAML file and ENV are read.
// Fields set here have no env-default tag: cleanenv applies the tag to any
// zero field, which would overwrite an explicit false or 0 from the file.
func defaults() Config {
	m := domain.DefaultMatchingConfig()
	l := domain.DefaultLifecycleConfig()
	return Config{
		Database: DatabaseConfig{
			MinConns:         5,
			StatementTimeout: 30 * time.Second,
			ConnectTimeout:   30 * time.Second,
		},
		CORS: CORSConfig{AllowCredentials: true},
		Matching: MatchingConfig{
			WeightCategory:           m.Weights.CategoryAffinity,
			WeightValue:              m.Weights.ValueCompatibility,
			WeightCondition:          m.Weights.ConditionCompatibility,
			WeightGeo:                m.Weights.GeoProximity,
			WeightRecency:            m.Weights.Recency,
			RecencyHalfLife:          m.RecencyHalfLife,
			GeoRadiusKm:              m.GeoRadiusKm,
			ValueTolerance:           m.ValueTolerance,
			TopK:                     m.TopK,
			MaxActiveListingsPerUser: m.MaxActiveListingsPerUser,
			MaxOpportunitiesPerItem:  m.MaxOpportunitiesPerItem,
			EnableTwoWay:             m.EnableTwoWay,
			Partitions:               m.Partitions,
		},
		Opportunity: OpportunityConfig{
			TTL:            l.TTL,
			Cooldown:       l.Cooldown,
			ListLimit:      l.ListLimit,
			DismissScope:   string(l.DismissScope),
			WriteRetries:   l.WriteRetries,
			RetryBaseDelay: l.RetryBaseDelay,
		},
		Scheduler: SchedulerConfig{Enabled: true},
		Events:    EventsConfig{Enabled: true},
	}
}

// Domain converts the matching section into the engine's run parameters.
func (c MatchingConfig) Domain() domain.MatchingConfig {
	return domain.MatchingConfig{
		Weights: domain.ScoreWeights{
			CategoryAffinity:       c.WeightCategory,
			ValueCompatibility:     c.WeightValue,
			ConditionCompatibility: c.WeightCondition,
			GeoProximity:           c.WeightGeo,
			Recency:                c.WeightRecency,
		},
		RecencyHalfLife:          c.RecencyHalfLife,
		GeoRadiusKm:              c.GeoRadiusKm,
		ValueTolerance:           c.ValueTolerance,
		TopK:                     c.TopK,
		MaxActiveListingsPerUser: c.MaxActiveListingsPerUser,
		MaxOpportunitiesPerItem:  c.MaxOpportunitiesPerItem,
		EnableTwoWay:             c.EnableTwoWay,
		Partitions:               c.Partitions,
	}
}

// Domain converts the opportunity section into lifecycle parameters.
func (c OpportunityConfig) Domain() domain.LifecycleConfig {
	return domain.LifecycleConfig{
		TTL:            c.TTL,
		Cooldown:       c.Cooldown,
		ListLimit:      c.ListLimit,
		DismissScope:   domain.DismissScope(strings.ToLower(strings.TrimSpace(c.DismissScope))),
		WriteRetries:   c.WriteRetries,
		RetryBaseDelay: c.RetryBaseDelay,
	}
}
