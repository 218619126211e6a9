package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/leecohen23/Phone-compamy-software/internal/domain/contract"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Store drivers
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Dedupe backends
const (
	DedupeMemory = "memory"
	DedupeRedis  = "redis"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Log      LogConfig
	Rates    contract.Rates
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Dedupe   DedupeConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console; empty picks by app.env
	Output string // stdout, stderr, or file path
}

// StoreConfig selects where statements are kept
type StoreConfig struct {
	Driver string // memory, sqlite, postgres
	Path   string // sqlite database file
}

// DatabaseConfig holds postgres connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int
	KeyPrefix string
}

// DedupeConfig controls duplicate call suppression
type DedupeConfig struct {
	Enabled          bool
	Backend          string // memory, redis
	TTL              time.Duration
	FallbackToMemory bool // use memory when redis is unreachable
}

// Load loads configuration from config.toml and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with PHONEBILL_ prefix (e.g., PHONEBILL_RATES_MTM_FEE)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path searches
// the default locations.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/phonebill")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("PHONEBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("dedupe.enabled", true)
	v.SetDefault("dedupe.fallback_to_memory", true)

	rates, err := loadRates(v)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Rates: rates,
		Store: StoreConfig{
			Driver: strings.ToLower(v.GetString("store.driver")),
			Path:   v.GetString("store.path"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
		},
		Redis: RedisConfig{
			Host:      v.GetString("redis.host"),
			Port:      v.GetInt("redis.port"),
			Password:  v.GetString("redis.password"),
			DB:        v.GetInt("redis.db"),
			KeyPrefix: v.GetString("redis.key_prefix"),
		},
		Dedupe: DedupeConfig{
			Enabled:          v.GetBool("dedupe.enabled"),
			Backend:          strings.ToLower(v.GetString("dedupe.backend")),
			TTL:              v.GetDuration("dedupe.ttl"),
			FallbackToMemory: v.GetBool("dedupe.fallback_to_memory"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadRates overlays configured rates on the standard rate table
func loadRates(v *viper.Viper) (contract.Rates, error) {
	rates := contract.DefaultRates()

	amounts := []struct {
		key    string
		target *decimal.Decimal
	}{
		{"rates.mtm_fee", &rates.MTMFee},
		{"rates.mtm_rate", &rates.MTMRate},
		{"rates.term_fee", &rates.TermFee},
		{"rates.term_deposit", &rates.TermDeposit},
		{"rates.term_rate", &rates.TermRate},
		{"rates.prepaid_rate", &rates.PrepaidRate},
		{"rates.prepaid_top_up", &rates.PrepaidTopUp},
		{"rates.prepaid_low_threshold", &rates.PrepaidLowThreshold},
	}
	for _, a := range amounts {
		s := v.GetString(a.key)
		if s == "" {
			continue
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return contract.Rates{}, fmt.Errorf("%s: invalid amount %q: %w", a.key, s, err)
		}
		*a.target = d
	}

	if v.IsSet("rates.term_free_minutes") {
		rates.TermFreeMinutes = v.GetInt("rates.term_free_minutes")
	}
	if v.IsSet("rates.term_refund_months") {
		rates.TermRefundMonths = v.GetInt("rates.term_refund_months")
	}
	rates.PrepaidBillTopUp = v.GetBool("rates.prepaid_bill_top_up")

	return rates, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "phonebill"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = StoreMemory
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "phonebill.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "phonebill"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 2
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "phonebill:call:"
	}
	if cfg.Dedupe.Backend == "" {
		cfg.Dedupe.Backend = DedupeMemory
	}
	if cfg.Dedupe.TTL == 0 {
		cfg.Dedupe.TTL = 24 * time.Hour
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if err := c.Rates.Validate(); err != nil {
		return err
	}

	switch c.Store.Driver {
	case StoreMemory, StoreSQLite, StorePostgres:
	default:
		return fmt.Errorf("store.driver must be one of memory, sqlite, postgres, got %q", c.Store.Driver)
	}

	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Dedupe.Enabled {
		switch c.Dedupe.Backend {
		case DedupeMemory, DedupeRedis:
		default:
			return fmt.Errorf("dedupe.backend must be memory or redis, got %q", c.Dedupe.Backend)
		}
		if c.Dedupe.TTL <= 0 {
			return fmt.Errorf("dedupe.ttl must be positive")
		}
	}

	if c.App.Env == "production" && c.Store.Driver == StorePostgres {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
	}

	return nil
}

// DSN returns the postgres connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
