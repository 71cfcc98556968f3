package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	// Variables vacías cuentan como no definidas: aplica el default.
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_LOCK_TIMEOUT_MS", "")
	t.Setenv("NATS_SUBJECT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 5*time.Second, cfg.DB.LockTimeout())
	assert.Equal(t, "inventory.movements.registered", cfg.NATS.Subject)
}

func TestLoad_LeeVariablesDeEntorno(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("DB_LOCK_TIMEOUT_MS", "250")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_TTL_SECONDS", "30")
	t.Setenv("NATS_URL", "")
	t.Setenv("NATS_SUBJECT", "")
	t.Setenv("HTTP_HOST", "0.0.0.0")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.DB.Driver)
	assert.Equal(t, 250*time.Millisecond, cfg.DB.LockTimeout())
	assert.True(t, cfg.DB.AutoMigrate)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.False(t, cfg.NATS.Enabled())
	assert.Equal(t, "inventory.movements.registered", cfg.NATS.Subject)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "inv", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/inv?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}

func TestValidate_RechazaDriverDesconocido(t *testing.T) {
	cfg := &Config{
		DB:  DBConfig{Driver: "sqlite", MaxConns: 1},
		JWT: JWTConfig{Expiration: 60},
	}
	assert.Error(t, cfg.Validate())

	cfg.DB.Driver = DriverPostgres
	assert.NoError(t, cfg.Validate())
}
