package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// MinSecretLength is the minimum signing secret size in bytes (256 bits).
const MinSecretLength = 32

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr            string
		ShutdownTimeout time.Duration
	}
	Database struct {
		Driver string
		DSN    string
	}
	Auth struct {
		JWTSecret  string
		TokenTTLMs int64
		BcryptCost int
	}
	API struct {
		StrictStatus bool
	}
	Storage struct {
		Bucket    string
		KeyPrefix string
		Region    string
		Endpoint  string
		URLTTL    time.Duration
	}
	AWS struct {
		Profile string
	}
	Log struct {
		Level  string
		Format string
	}
}

// TokenTTL returns the configured token lifetime.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMs) * time.Millisecond
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	_ = godotenv.Load() // optional .env, never overrides real env

	v := viper.New()
	v.SetEnvPrefix("STORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("server.shutdowntimeout", 10*time.Second)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/store.db")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.tokenttlms", int64(24*time.Hour/time.Millisecond))
	v.SetDefault("auth.bcryptcost", 10)
	v.SetDefault("api.strictstatus", true)
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "products")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.urlttl", 15*time.Minute)
	v.SetDefault("aws.profile", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings the process cannot start without.
func (c Config) Validate() error {
	var errs []error

	secret := strings.TrimSpace(c.Auth.JWTSecret)
	switch {
	case secret == "":
		errs = append(errs, errors.New("auth jwt secret is required"))
	case len(secret) < MinSecretLength:
		errs = append(errs, fmt.Errorf("auth jwt secret must be at least %d bytes", MinSecretLength))
	}
	if c.Auth.TokenTTLMs <= 0 {
		errs = append(errs, errors.New("auth token ttl must be positive"))
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.Database.Driver))
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		errs = append(errs, errors.New("database dsn is required"))
	}

	return errors.Join(errs...)
}
