package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "rota.yaml", `
server:
  port: "9000"
logging:
  level: debug
  format: console
schedule:
  weekday: wed
  holidays: ["24.12", "31.12"]
  delimiter: ","
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "wed", cfg.Schedule.Weekday)
	assert.Equal(t, []string{"24.12", "31.12"}, cfg.Schedule.Holidays)
	assert.Equal(t, ',', cfg.Schedule.DelimiterRune())
	assert.Equal(t, 8, cfg.Schedule.CutoverMonth)
	assert.Equal(t, "api_keys.db", cfg.Database.Path)
	assert.Equal(t, 24, cfg.Auth.TokenTTLHours)
}

func TestLoadJSONWithEnvOverrides(t *testing.T) {
	path := writeFile(t, "rota.json", `{"server":{"port":"9000"},"database":{"path":"x.db"}}`)
	t.Setenv("ROTA_SERVER__PORT", "9100")
	t.Setenv("DATABASE_URL", "postgres://localhost/rota")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "postgres://localhost/rota", cfg.Database.URL)
	assert.Equal(t, "x.db", cfg.Database.Path)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}

func TestLoadMissingDefaultIsFine(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "monday", cfg.Schedule.Weekday)
	assert.Equal(t, ";", cfg.Schedule.Delimiter)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "rota.toml", "x = 1"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "schedule:\n  weekday: funday\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "schedule:\n  holidays: [\"31.4\"]\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "logging:\n  format: xml\n"))
	assert.Error(t, err)
}

func TestAuthValidate(t *testing.T) {
	assert.NoError(t, AuthConfig{JWTSecret: "a", APIMasterSecret: "b"}.Validate())
	assert.Error(t, AuthConfig{APIMasterSecret: "b"}.Validate())
	assert.Error(t, AuthConfig{JWTSecret: "a"}.Validate())
}

func TestLoadListFromEnv(t *testing.T) {
	path := writeFile(t, "rota.yaml", "schedule:\n  holidays: [\"01.01\"]\n")
	t.Setenv("ROTA_SCHEDULE__HOLIDAYS", "24.12, 31.12")
	t.Setenv("ROTA_SCHEDULE__DELIMITER", ",")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"24.12", "31.12"}, cfg.Schedule.Holidays)
	assert.Equal(t, ',', cfg.Schedule.DelimiterRune())
}
