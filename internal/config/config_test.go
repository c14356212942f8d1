package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_AUTH_JWTSECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "data/store.db", cfg.Database.DSN)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.True(t, cfg.API.StrictStatus)
	assert.Equal(t, "products", cfg.Storage.KeyPrefix)
	assert.Equal(t, 15*time.Minute, cfg.Storage.URLTTL)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STORE_AUTH_JWTSECRET", testSecret)
	t.Setenv("STORE_AUTH_TOKENTTLMS", "60000")
	t.Setenv("STORE_API_STRICTSTATUS", "false")
	t.Setenv("STORE_DATABASE_DRIVER", "postgres")
	t.Setenv("STORE_DATABASE_DSN", "postgres://store@localhost/store")
	t.Setenv("STORE_SERVER_SHUTDOWNTIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Minute, cfg.TokenTTL())
	assert.False(t, cfg.API.StrictStatus)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var cfg Config
		cfg.Auth.JWTSecret = testSecret
		cfg.Auth.TokenTTLMs = 1000
		cfg.Database.Driver = "sqlite"
		cfg.Database.DSN = "store.db"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.Auth.JWTSecret = " " }, wantErr: "secret is required"},
		{name: "short secret", mutate: func(c *Config) { c.Auth.JWTSecret = "short" }, wantErr: "at least 32 bytes"},
		{name: "zero ttl", mutate: func(c *Config) { c.Auth.TokenTTLMs = 0 }, wantErr: "ttl must be positive"},
		{name: "bad driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: "unsupported database driver"},
		{name: "empty dsn", mutate: func(c *Config) { c.Database.DSN = "" }, wantErr: "dsn is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
