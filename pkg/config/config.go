package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CODECUP_APP_ENV" required:"true"`
	Port         string `envconfig:"CODECUP_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CODECUP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CODECUP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	// Driver selects the relational backend: "postgres" for deployments,
	// "sqlite" for a single-node file store (and tests).
	Driver string `envconfig:"CODECUP_DB_DRIVER" default:"postgres"`
	DSN    string `envconfig:"CODECUP_DB_DSN"`

	MaxOpenConns    int           `envconfig:"CODECUP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CODECUP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CODECUP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CODECUP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d DBConfig) validate() error {
	switch d.Driver {
	case DBDriverPostgres, DBDriverSQLite:
	default:
		return fmt.Errorf("unsupported db driver %q", d.Driver)
	}
	if d.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"CODECUP_REDIS_URL"`
	Address      string        `envconfig:"CODECUP_REDIS_ADDR"`
	Password     string        `envconfig:"CODECUP_REDIS_PASSWORD"`
	DB           int           `envconfig:"CODECUP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CODECUP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CODECUP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CODECUP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CODECUP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CODECUP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"CODECUP_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"CODECUP_JWT_ISSUER" default:"codecup"`
	ExpirationMinutes      int    `envconfig:"CODECUP_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"CODECUP_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CODECUP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CODECUP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CODECUP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CODECUP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CODECUP_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"CODECUP_AUTH_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit       int64         `envconfig:"CODECUP_AUTH_LOGIN_IP_LIMIT" default:"10"`
	LoginEmailLimit    int64         `envconfig:"CODECUP_AUTH_LOGIN_EMAIL_LIMIT" default:"5"`
	RegisterWindow     time.Duration `envconfig:"CODECUP_AUTH_REGISTER_WINDOW" default:"1m"`
	RegisterIPLimit    int64         `envconfig:"CODECUP_AUTH_REGISTER_IP_LIMIT" default:"5"`
	RegisterEmailLimit int64         `envconfig:"CODECUP_AUTH_REGISTER_EMAIL_LIMIT" default:"3"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CODECUP_AUTO_MIGRATE" default:"false"`
	SeedCatalog bool `envconfig:"CODECUP_SEED_CATALOG" default:"true"`
}
