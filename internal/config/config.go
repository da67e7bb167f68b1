package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
)

// Storage drivers
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Lock drivers
const (
	LockNone  = "none"
	LockLocal = "local"
	LockRedis = "redis"
)

type Config struct {
	Port        string   `env:"PORT" envDefault:"8080"`
	Environment string   `env:"ENVIRONMENT" envDefault:"dev"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	LogLevel    string   `env:"LOG_LEVEL"`
	// LogDir enables a rotated log file next to stdout when set
	LogDir      string `env:"LOG_DIR"`
	LogMaxFiles int    `env:"LOG_MAX_FILES" envDefault:"10"`

	Storage Storage `envPrefix:"STORAGE_"`
	Auth    Auth    `envPrefix:"AUTH_"`
	Lock    Lock    `envPrefix:"LOCK_"`
	Tree    Tree    `envPrefix:"TREE_"`
}

// Storage selects and configures the document store
type Storage struct {
	Driver        string `env:"DRIVER" envDefault:"postgres"`
	DatabaseURL   string `env:"DATABASE_URL"`
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"cloudstorage"`
	// AtomicTreeWrites runs each tree mutation in one postgres transaction
	AtomicTreeWrites bool `env:"ATOMIC_TREE_WRITES" envDefault:"false"`
}

// Auth configures access token verification. JWKSURL wins over JWTSecret.
type Auth struct {
	JWTSecret  string `env:"JWT_SECRET"`
	JWKSURL    string `env:"JWKS_URL"`
	CookieName string `env:"COOKIE_NAME" envDefault:"accessToken"`
}

// Lock configures per-owner serialization of tree mutations
type Lock struct {
	Driver        string        `env:"DRIVER" envDefault:"local"`
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	TTL           time.Duration `env:"TTL" envDefault:"30s"`
	Retry         time.Duration `env:"RETRY" envDefault:"50ms"`
}

// Tree holds the consistency policy of the tree mutator
type Tree struct {
	StrictConsistency bool `env:"STRICT_CONSISTENCY" envDefault:"true"`
	MaxDepth          int  `env:"MAX_DEPTH" envDefault:"32"`
}

// Load reads an optional .env file, then the process environment
func Load() (*Config, error) {
	// Missing .env is normal outside local development
	_ = godotenv.Load()

	return Parse()
}

// Parse builds a Config from the process environment only
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}

	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	cfg.Lock.Driver = strings.ToLower(strings.TrimSpace(cfg.Lock.Driver))
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel(cfg.Environment)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the selected drivers have what they need
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.Environment, validation.In("dev", "test", "prod")),
		validation.Field(&c.Storage),
		validation.Field(&c.Auth),
		validation.Field(&c.Lock),
		validation.Field(&c.Tree),
	)
}

func (s Storage) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Driver, validation.Required, validation.In(DriverPostgres, DriverMongo, DriverMemory)),
		validation.Field(&s.DatabaseURL, validation.When(s.Driver == DriverPostgres, validation.Required)),
		validation.Field(&s.MongoURI, validation.When(s.Driver == DriverMongo, validation.Required)),
		validation.Field(&s.MongoDatabase, validation.When(s.Driver == DriverMongo, validation.Required)),
		validation.Field(&s.AtomicTreeWrites, validation.When(s.AtomicTreeWrites && s.Driver != DriverPostgres,
			validation.Empty.Error("only supported by the postgres driver"))),
	)
}

func (a Auth) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.JWTSecret, validation.When(a.JWKSURL == "",
			validation.Required.Error("is required when AUTH_JWKS_URL is not set"),
			validation.Length(32, 0))),
		validation.Field(&a.CookieName, validation.Required),
	)
}

func (l Lock) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Driver, validation.Required, validation.In(LockNone, LockLocal, LockRedis)),
		validation.Field(&l.RedisAddr, validation.When(l.Driver == LockRedis, validation.Required)),
		validation.Field(&l.TTL, validation.When(l.Driver == LockRedis, validation.Required, validation.Min(time.Second))),
		validation.Field(&l.Retry, validation.When(l.Driver == LockRedis, validation.Required)),
	)
}

func (t Tree) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.MaxDepth, validation.Required, validation.Min(1), validation.Max(DefaultMaxTreeDepth*4)),
	)
}

// defaultLogLevel is debug everywhere except prod
func defaultLogLevel(environment string) string {
	if environment == "prod" {
		return "info"
	}
	return "debug"
}
