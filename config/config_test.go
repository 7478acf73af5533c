package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Layers(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "gharbari.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("port: \"9000\"\ndb: fromyaml\nredisDb: 2\n"), 0o600))
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("DB=fromdotenv\n"), 0o600))

	t.Setenv("DB", "")
	os.Unsetenv("DB")
	t.Setenv("PORT", "9100")
	t.Setenv("JWT_EXPIRES_IN", "3d")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(yamlPath, envPath)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "fromdotenv", cfg.DB)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 72*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "gharbari.mail", cfg.KafkaTopic)
}

func TestLoad_MissingFilesUseDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "none.yaml"), filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, Defaults().JWTExpiresIn, cfg.JWTExpiresIn)
}

func TestLoad_BadValues(t *testing.T) {
	t.Setenv("SMTP_PORT", "abc")
	_, err := Load("", "")
	assert.ErrorContains(t, err, "SMTP_PORT")

	t.Setenv("SMTP_PORT", "")
	t.Setenv("JWT_EXPIRES_IN", "soon")
	_, err = Load("", "")
	assert.ErrorContains(t, err, "JWT_EXPIRES_IN")
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGOURI")
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cfg.MongoURI = "mongodb://localhost:27017"
	cfg.JWTSecret = "secret"
	assert.NoError(t, cfg.Validate())

	cfg.MailTransport = "pigeon"
	assert.Error(t, cfg.Validate())

	cfg.MailTransport = "kafka"
	assert.ErrorContains(t, cfg.Validate(), "KAFKA_BROKER")
	cfg.KafkaBroker = "localhost:9092"
	assert.NoError(t, cfg.Validate())
}

func TestParseDuration(t *testing.T) {
	d, err := parseDuration("7d")
	require.NoError(t, err)
	assert.Equal(t, 168*time.Hour, d)

	d, err = parseDuration("90m")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)

	for _, bad := range []string{"0d", "-1h", "xd", ""} {
		_, err := parseDuration(bad)
		assert.Error(t, err, bad)
	}
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", Config{LogLevel: "debug"}.SlogLevel().String())
	assert.Equal(t, "INFO", Config{LogLevel: "loud"}.SlogLevel().String())
}
