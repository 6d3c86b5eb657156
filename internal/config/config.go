package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arnavshah/rota-api-go/pkg/calendar"
)

// DefaultPath is read when present; a missing default file is not an error.
const DefaultPath = "rota.yaml"

type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Auth     AuthConfig     `json:"auth"`
	Logging  LoggingConfig  `json:"logging"`
	Schedule ScheduleConfig `json:"schedule"`
}

type ServerConfig struct {
	Port    string `json:"port"`
	GinMode string `json:"gin_mode"`
}

func (c *ServerConfig) SetDefaults() {
	if c.Port == "" {
		c.Port = "8000"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
}

// DatabaseConfig selects postgres when URL is set, sqlite at Path otherwise.
type DatabaseConfig struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

func (c *DatabaseConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "api_keys.db"
	}
}

type AuthConfig struct {
	JWTSecret       string `json:"jwt_secret"`
	APIMasterSecret string `json:"api_master_secret"`
	AdminUsername   string `json:"admin_username"`
	AdminPassword   string `json:"admin_password"`
	TokenTTLHours   int    `json:"token_ttl_hours"`
}

func (c *AuthConfig) SetDefaults() {
	if c.AdminUsername == "" {
		c.AdminUsername = "admin"
	}
	if c.AdminPassword == "" {
		c.AdminPassword = "admin123"
	}
	if c.TokenTTLHours <= 0 {
		c.TokenTTLHours = 24
	}
}

// Validate rejects empty signing secrets. Only the HTTP service needs
// them, so Load does not call it.
func (c AuthConfig) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("auth.jwt_secret (JWT_SECRET) must be set")
	}
	if c.APIMasterSecret == "" {
		return errors.New("auth.api_master_secret (API_MASTER_SECRET) must be set")
	}
	return nil
}

type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "json"
	}
}

func (c LoggingConfig) Validate() error {
	switch strings.ToLower(c.Format) {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Format)
	}
}

// ScheduleConfig holds defaults for runs that do not specify them.
type ScheduleConfig struct {
	Weekday      string   `json:"weekday"`
	Holidays     []string `json:"holidays"`
	Delimiter    string   `json:"delimiter"`
	Encoding     string   `json:"encoding"`
	CutoverMonth int      `json:"cutover_month"`
	HasHeader    bool     `json:"has_header"`
}

func (c *ScheduleConfig) SetDefaults() {
	if c.Weekday == "" {
		c.Weekday = "monday"
	}
	if c.Delimiter == "" {
		c.Delimiter = ";"
	}
	if c.Encoding == "" {
		c.Encoding = "utf-8"
	}
	if c.CutoverMonth == 0 {
		c.CutoverMonth = 8
	}
}

func (c ScheduleConfig) Validate() error {
	if _, err := calendar.ParseWeekday(c.Weekday); err != nil {
		return fmt.Errorf("schedule.weekday: %w", err)
	}
	if _, err := calendar.ParseHolidays(c.Holidays); err != nil {
		return fmt.Errorf("schedule.holidays: %w", err)
	}
	if len([]rune(c.Delimiter)) != 1 {
		return fmt.Errorf("schedule.delimiter must be a single character, got %q", c.Delimiter)
	}
	if c.CutoverMonth < 1 || c.CutoverMonth > 12 {
		return fmt.Errorf("schedule.cutover_month must be 1..12, got %d", c.CutoverMonth)
	}
	return nil
}

// DelimiterRune returns the configured delimiter
func (c ScheduleConfig) DelimiterRune() rune {
	return []rune(c.Delimiter)[0]
}

// Load reads .env files, then the optional config file, then ROTA_ prefixed
// environment overrides (ROTA_SERVER__PORT -> server.port), then the legacy
// variables PORT, DATABASE_URL and friends.
func Load(path string) (*Config, error) {
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	k := koanf.New(".")
	if path == "" {
		path = DefaultPath
	}
	if err := loadFile(k, path); err != nil {
		return nil, err
	}
	if err := k.Load(env.ProviderWithValue("ROTA_", "__", func(key, value string) (string, interface{}) {
		key = strings.ReplaceAll(strings.TrimPrefix(strings.ToLower(key), "rota_"), "__", ".")
		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.applyLegacyEnv()

	cfg.Server.SetDefaults()
	cfg.Database.SetDefaults()
	cfg.Auth.SetDefaults()
	cfg.Logging.SetDefaults()
	cfg.Schedule.SetDefaults()
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Schedule.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// listKeys are slice settings whose env values are comma separated,
// e.g. ROTA_SCHEDULE__HOLIDAYS=24.12,31.12
var listKeys = map[string]bool{
	"schedule.holidays": true,
}

func splitList(value string) []string {
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func loadFile(k *koanf.Koanf, path string) error {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && path == DefaultPath {
			return nil
		}
		return fmt.Errorf("config %s: %w", path, err)
	}
	return k.Load(file.Provider(path), parser)
}

func (c *Config) applyLegacyEnv() {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Server.Port, "PORT")
	set(&c.Server.GinMode, "GIN_MODE")
	set(&c.Database.URL, "DATABASE_URL")
	set(&c.Database.Path, "DATA_PATH")
	set(&c.Auth.JWTSecret, "JWT_SECRET")
	set(&c.Auth.APIMasterSecret, "API_MASTER_SECRET")
	set(&c.Auth.AdminUsername, "ADMIN_USERNAME")
	set(&c.Auth.AdminPassword, "ADMIN_PASSWORD")
	if v, err := strconv.Atoi(os.Getenv("TOKEN_TTL_HOURS")); err == nil {
		c.Auth.TokenTTLHours = v
	}
}
