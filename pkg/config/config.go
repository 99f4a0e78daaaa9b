package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Quotation    QuotationConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Quotation.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ROCKLIME_APP_ENV" required:"true"`
	Port         string `envconfig:"ROCKLIME_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ROCKLIME_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ROCKLIME_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ROCKLIME_DB_DSN"`
	Driver string `envconfig:"ROCKLIME_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ROCKLIME_DB_HOST"`
	LegacyPort     int    `envconfig:"ROCKLIME_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ROCKLIME_DB_USER"`
	LegacyPassword string `envconfig:"ROCKLIME_DB_PASSWORD"`
	LegacyName     string `envconfig:"ROCKLIME_DB_NAME"`
	LegacySSLMode  string `envconfig:"ROCKLIME_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ROCKLIME_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ROCKLIME_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ROCKLIME_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ROCKLIME_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ROCKLIME_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ROCKLIME_REDIS_ADDR"`
	Password     string        `envconfig:"ROCKLIME_REDIS_PASSWORD"`
	DB           int           `envconfig:"ROCKLIME_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ROCKLIME_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ROCKLIME_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ROCKLIME_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ROCKLIME_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ROCKLIME_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// QuotationConfig carries quotation-engine settings that the original system
// kept as hard-coded globals: the fallback creator identity, the reference
// number prefix, and enrichment behavior.
type QuotationConfig struct {
	DefaultCreatedBy     string        `envconfig:"ROCKLIME_QUOTATION_DEFAULT_CREATED_BY"`
	ReferencePrefix      string        `envconfig:"ROCKLIME_QUOTATION_REFERENCE_PREFIX" default:"QTN"`
	DocumentTTL          time.Duration `envconfig:"ROCKLIME_QUOTATION_DOCUMENT_TTL" default:"0"`
	BestEffortEnrichment bool          `envconfig:"ROCKLIME_QUOTATION_BEST_EFFORT_ENRICHMENT" default:"false"`
	IdempotencyTTL       time.Duration `envconfig:"ROCKLIME_QUOTATION_IDEMPOTENCY_TTL" default:"168h"`
}

// CreatedByFallback parses the configured default creator id, if any.
func (q QuotationConfig) CreatedByFallback() *uuid.UUID {
	if strings.TrimSpace(q.DefaultCreatedBy) == "" {
		return nil
	}
	id, err := uuid.Parse(q.DefaultCreatedBy)
	if err != nil {
		return nil
	}
	return &id
}

func (q QuotationConfig) validate() error {
	if strings.TrimSpace(q.DefaultCreatedBy) == "" {
		return nil
	}
	if _, err := uuid.Parse(q.DefaultCreatedBy); err != nil {
		return fmt.Errorf("invalid %s: %w", EnvQuotationDefaultCreatedBy, err)
	}
	return nil
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ROCKLIME_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
