package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	return dir
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := writeConfig(t, `
server:
  address: ":9090"
jwt:
  secret: "file-secret"
  expiration: "2h"
gemini:
  api_key: "k"
  cache_ttl: "1m"
sns:
  topic_arn: "arn:aws:sns:us-east-1:123:workouts"
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, time.Minute, cfg.Gemini.CacheTTL)
	assert.Equal(t, "arn:aws:sns:us-east-1:123:workouts", cfg.SNS.TopicARN)

	// defaults
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "ironlog", cfg.Database.Name)
	assert.Equal(t, 15*time.Minute, cfg.S3.ExportURLExpiry)
	assert.Equal(t, "gemini-1.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 10, cfg.Redis.InsightsPerMin)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := writeConfig(t, `
jwt:
  secret: "file-secret"
`)
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("SERVER_ADDRESS", ":7000")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, ":7000", cfg.Server.Address)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoadConfig_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "only-env")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "only-env", cfg.JWT.Secret)
	assert.Equal(t, ":8080", cfg.Server.Address)
}

func TestLoadConfig_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := LoadConfig(t.TempDir())
	assert.EqualError(t, err, "jwt.secret is required")
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	dir := writeConfig(t, "server: [unclosed")
	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestLoadConfig_RateLimitMustBePositiveWithRedis(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_INSIGHTS_PER_MINUTE", "0")

	_, err := LoadConfig(t.TempDir())
	assert.EqualError(t, err, "redis.insights_per_minute must be positive when redis.addr is set")

	t.Setenv("REDIS_ADDR", "")
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Redis.InsightsPerMin)
}
