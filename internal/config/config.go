package config

import (
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Regeneration policies for schedule rows that already carry an invoice.
const (
	RegeneratePolicyDiscard         = "discard"
	RegeneratePolicyPreserveClaimed = "preserve_claimed"
)

// Reconciler failure policies.
const (
	FailurePolicyFailFast    = "fail_fast"
	FailurePolicyIsolateRows = "isolate_rows"
)

// Config holds all configuration for our application.
// Sections are squashed so every key is a flat environment variable name.
type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	Database  DatabaseConfig  `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
	Logging   LoggingConfig   `mapstructure:",squash"`
	Lease     LeaseConfig     `mapstructure:",squash"`
	Session   SessionConfig   `mapstructure:",squash"`
	Health    HealthConfig    `mapstructure:",squash"`
}

type ServerConfig struct {
	Port         string `mapstructure:"SERVER_PORT"`
	Host         string `mapstructure:"SERVER_HOST"`
	Env          string `mapstructure:"ENV"`
	ReadTimeout  string `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout string `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	URL             string `mapstructure:"DATABASE_URL"`
	Host            string `mapstructure:"DATABASE_HOST"`
	Port            string `mapstructure:"DATABASE_PORT"`
	Name            string `mapstructure:"DATABASE_NAME"`
	User            string `mapstructure:"DATABASE_USER"`
	Password        string `mapstructure:"DATABASE_PASSWORD"`
	SSLMode         string `mapstructure:"DATABASE_SSLMODE"`
	MaxOpenConns    int    `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int    `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime string `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	URL      string `mapstructure:"REDIS_URL"`
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type SchedulerConfig struct {
	Timezone     string `mapstructure:"SCHEDULER_TIMEZONE"`
	GenerateSpec string `mapstructure:"SCHEDULER_GENERATE_SPEC"`
	SyncSpec     string `mapstructure:"SCHEDULER_SYNC_SPEC"`
	OverdueSpec  string `mapstructure:"SCHEDULER_OVERDUE_SPEC"`
	MetricsAddr  string `mapstructure:"SCHEDULER_METRICS_ADDR"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type LeaseConfig struct {
	RegeneratePolicy        string `mapstructure:"LEASE_REGENERATE_POLICY"`
	FailurePolicy           string `mapstructure:"RECONCILER_FAILURE_POLICY"`
	LockTTL                 string `mapstructure:"LEASE_LOCK_TTL"`
	CommissionItem          string `mapstructure:"PLATFORM_COMMISSION_ITEM"`
	RentIncomeAccount       string `mapstructure:"RENT_INCOME_ACCOUNT"`
	CommissionIncomeAccount string `mapstructure:"COMMISSION_INCOME_ACCOUNT"`
	Company                 string `mapstructure:"COMPANY"`
	DefaultSupplier         string `mapstructure:"DEFAULT_SUPPLIER"`
	SnowflakeNode           int64  `mapstructure:"SNOWFLAKE_NODE"`
}

type SessionConfig struct {
	TTL        string `mapstructure:"SESSION_TTL"`
	CookieName string `mapstructure:"SESSION_COOKIE_NAME"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

// cronParser accepts the same six-field specs as cron.WithSeconds
var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

var defaults = map[string]interface{}{
	"SERVER_PORT":                "8080",
	"SERVER_HOST":                "0.0.0.0",
	"ENV":                        "development",
	"SERVER_READ_TIMEOUT":        "15s",
	"SERVER_WRITE_TIMEOUT":       "15s",
	"DATABASE_URL":               "",
	"DATABASE_HOST":              "localhost",
	"DATABASE_PORT":              "5432",
	"DATABASE_NAME":              "equipment_lease",
	"DATABASE_USER":              "postgres",
	"DATABASE_PASSWORD":          "",
	"DATABASE_SSLMODE":           "disable",
	"DATABASE_MAX_OPEN_CONNS":    20,
	"DATABASE_MAX_IDLE_CONNS":    5,
	"DATABASE_CONN_MAX_LIFETIME": "30m",
	"REDIS_URL":                  "",
	"REDIS_HOST":                 "localhost",
	"REDIS_PORT":                 "6379",
	"REDIS_PASSWORD":             "",
	"REDIS_DB":                   0,
	"SCHEDULER_TIMEZONE":         "UTC",
	"SCHEDULER_GENERATE_SPEC":    "0 0 1 * * *",
	"SCHEDULER_SYNC_SPEC":        "0 */15 * * * *",
	"SCHEDULER_OVERDUE_SPEC":     "0 0 0 * * *",
	"SCHEDULER_METRICS_ADDR":     ":9091",
	"LOG_LEVEL":                  "info",
	"LOG_FORMAT":                 "json",
	"LEASE_REGENERATE_POLICY":    RegeneratePolicyDiscard,
	"RECONCILER_FAILURE_POLICY":  FailurePolicyFailFast,
	"LEASE_LOCK_TTL":             "5m",
	"PLATFORM_COMMISSION_ITEM":   "Platform Commission Income",
	"RENT_INCOME_ACCOUNT":        "5111 - Cost of Goods Sold - ES",
	"COMMISSION_INCOME_ACCOUNT":  "5202 - Commission on Sales - ES",
	"COMPANY":                    "",
	"DEFAULT_SUPPLIER":           "Samy",
	"SNOWFLAKE_NODE":             1,
	"SESSION_TTL":                "24h",
	"SESSION_COOKIE_NAME":        "sid",
	"HEALTH_CHECK_TIMEOUT":       "5s",
}

// Load reads configuration from environment variables and optional .env files
func Load() (*Config, error) {
	// .env files never override variables already set in the environment
	for _, path := range []string{".env", "deployments/.env"} {
		_ = godotenv.Load(path)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" && c.Database.Host == "" {
		return fmt.Errorf("DATABASE_URL or DATABASE_HOST is required")
	}

	switch c.Lease.RegeneratePolicy {
	case RegeneratePolicyDiscard, RegeneratePolicyPreserveClaimed:
	default:
		return fmt.Errorf("LEASE_REGENERATE_POLICY must be %q or %q", RegeneratePolicyDiscard, RegeneratePolicyPreserveClaimed)
	}

	switch c.Lease.FailurePolicy {
	case FailurePolicyFailFast, FailurePolicyIsolateRows:
	default:
		return fmt.Errorf("RECONCILER_FAILURE_POLICY must be %q or %q", FailurePolicyFailFast, FailurePolicyIsolateRows)
	}

	if c.Lease.CommissionItem == "" {
		return fmt.Errorf("PLATFORM_COMMISSION_ITEM is required")
	}

	if c.Lease.SnowflakeNode < 0 || c.Lease.SnowflakeNode > 1023 {
		return fmt.Errorf("SNOWFLAKE_NODE must be between 0 and 1023")
	}

	durations := map[string]string{
		"SERVER_READ_TIMEOUT":        c.Server.ReadTimeout,
		"SERVER_WRITE_TIMEOUT":       c.Server.WriteTimeout,
		"DATABASE_CONN_MAX_LIFETIME": c.Database.ConnMaxLifetime,
		"LEASE_LOCK_TTL":             c.Lease.LockTTL,
		"SESSION_TTL":                c.Session.TTL,
		"HEALTH_CHECK_TIMEOUT":       c.Health.Timeout,
	}
	for key, value := range durations {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%s must be a valid duration: %w", key, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE must be a valid IANA zone: %w", err)
	}

	specs := map[string]string{
		"SCHEDULER_GENERATE_SPEC": c.Scheduler.GenerateSpec,
		"SCHEDULER_SYNC_SPEC":     c.Scheduler.SyncSpec,
		"SCHEDULER_OVERDUE_SPEC":  c.Scheduler.OverdueSpec,
	}
	for key, spec := range specs {
		if _, err := cronParser.Parse(spec); err != nil {
			return fmt.Errorf("%s must be a cron spec with seconds: %w", key, err)
		}
	}

	return nil
}

// DSN returns the Postgres connection string
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, d.Port),
		Path:   "/" + d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetReadTimeout returns the HTTP read timeout
func (c *Config) GetReadTimeout() time.Duration {
	return mustDuration(c.Server.ReadTimeout)
}

// GetWriteTimeout returns the HTTP write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return mustDuration(c.Server.WriteTimeout)
}

// GetConnMaxLifetime returns the database connection lifetime
func (c *Config) GetConnMaxLifetime() time.Duration {
	return mustDuration(c.Database.ConnMaxLifetime)
}

// GetLockTTL returns how long a per-contract lock may be held
func (c *Config) GetLockTTL() time.Duration {
	return mustDuration(c.Lease.LockTTL)
}

// GetSessionTTL returns the session lifetime
func (c *Config) GetSessionTTL() time.Duration {
	return mustDuration(c.Session.TTL)
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	return mustDuration(c.Health.Timeout)
}

// GetSchedulerLocation returns the time zone cron specs are evaluated in
func (c *Config) GetSchedulerLocation() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func mustDuration(value string) time.Duration {
	d, _ := time.ParseDuration(value)
	return d
}
