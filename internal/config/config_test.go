package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cafeconnect/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnvFile(t *testing.T) []string {
	return []string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("test", noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Port)
	assert.Equal(t, "http://localhost:5000/api", cfg.PublicAPIURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, config.DriverMongo, cfg.Database.Driver)
	assert.Equal(t, "mongodb://localhost:27017/cafeconnect", cfg.Database.MongoURI)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Auth.Enforced)
	assert.Equal(t, 5, cfg.Auth.LoginAttempts)
	assert.Equal(t, config.BrokerNone, cfg.Events.Broker)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Events.KafkaBrokers)
	assert.Equal(t, config.CartStoreMemory, cfg.Cart.Store)
	assert.Equal(t, 2*time.Hour, cfg.Cart.TTL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "8081")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DATABASE_DSN", "file::memory:")
	t.Setenv("AUTH_ENFORCED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("EVENTS_BROKER", "kafka")
	t.Setenv("CART_TTL", "30m")

	cfg, err := config.Load("test", noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.Port)
	assert.Equal(t, config.DriverSQLite, cfg.Database.Driver)
	assert.True(t, cfg.Auth.Enforced)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.KafkaBrokers)
	assert.Equal(t, config.BrokerKafka, cfg.Events.Broker)
	assert.Equal(t, 30*time.Minute, cfg.Cart.TTL)
}

func TestLoad_FlagsAndEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("CAFECONNECT_TEST_ONLY=1\nPUBLIC_API_URL=https://cafe.example.com/api/\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("CAFECONNECT_TEST_ONLY")
		os.Unsetenv("PUBLIC_API_URL")
	})

	cfg, err := config.Load("test", []string{"--env-file", envFile, "--port", ":9000", "--db-driver", "memory"})
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Port)
	assert.Equal(t, config.DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "https://cafe.example.com/api", cfg.PublicAPIURL)
}

func TestLoad_RejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"DB_DRIVER": "mysql"}},
		{"sql driver without dsn", map[string]string{"DB_DRIVER": "postgres"}},
		{"unknown broker", map[string]string{"EVENTS_BROKER": "nats"}},
		{"unknown cart store", map[string]string{"CART_STORE": "memcached"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Load("test", noEnvFile(t))
			assert.Error(t, err)
		})
	}
}
