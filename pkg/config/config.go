package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Store drivers for client-local persisted state.
const (
	StoreDriverFile  = "file"
	StoreDriverRedis = "redis"
)

type Config struct {
	Env  string
	Port int

	Backend BackendConfig
	Store   StoreConfig
	Redis   RedisConfig
	CORS    CORSConfig
	Log     LogConfig
	Exports ExportsConfig
	Capture CaptureConfig
	Records RecordsConfig
	Display DisplayConfig
}

// BackendConfig points the console at the burial-permit REST backend.
type BackendConfig struct {
	BaseURL    string
	Timeout    time.Duration
	AuthHeader string
	LoginPath  string
}

// StoreConfig selects where the session token and drafts are persisted.
type StoreConfig struct {
	Driver string
	Dir    string
	Prefix string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ExportsConfig controls where rendered reports land and how long they are kept.
type ExportsConfig struct {
	Dir             string
	TTL             time.Duration
	CleanupInterval time.Duration
}

// CaptureConfig tunes the data-capture draft auto-save.
type CaptureConfig struct {
	AutoSave      bool
	AutoSaveDelay time.Duration
}

// RecordsConfig fixes page sizes for list and export queries.
type RecordsConfig struct {
	PageSize    int
	ExportLimit int
	PreviewScan int
}

// DisplayConfig carries presentation values threaded into renderers.
type DisplayConfig struct {
	Theme      string
	DateFormat string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")

	cfg.Backend = BackendConfig{
		BaseURL:    strings.TrimRight(v.GetString("BACKEND_BASE_URL"), "/"),
		Timeout:    parseDuration(v.GetString("BACKEND_TIMEOUT"), 15*time.Second),
		AuthHeader: v.GetString("AUTH_HEADER"),
		LoginPath:  v.GetString("LOGIN_PATH"),
	}

	cfg.Store = StoreConfig{
		Driver: strings.ToLower(v.GetString("STORE_DRIVER")),
		Dir:    v.GetString("STORE_DIR"),
		Prefix: v.GetString("STORE_PREFIX"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Exports = ExportsConfig{
		Dir:             v.GetString("EXPORTS_DIR"),
		TTL:             parseDuration(v.GetString("EXPORTS_TTL"), 24*time.Hour),
		CleanupInterval: parseDuration(v.GetString("EXPORTS_CLEANUP_INTERVAL"), time.Hour),
	}

	cfg.Capture = CaptureConfig{
		AutoSave:      v.GetBool("AUTOSAVE_ENABLED"),
		AutoSaveDelay: parseDuration(v.GetString("AUTOSAVE_DELAY"), 1500*time.Millisecond),
	}

	cfg.Records = RecordsConfig{
		PageSize:    v.GetInt("PAGE_SIZE"),
		ExportLimit: v.GetInt("EXPORT_LIMIT"),
		PreviewScan: v.GetInt("PERMIT_PREVIEW_SCAN"),
	}

	cfg.Display = DisplayConfig{
		Theme:      strings.ToLower(v.GetString("THEME")),
		DateFormat: v.GetString("DATE_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)

	v.SetDefault("BACKEND_BASE_URL", "http://localhost:5000")
	v.SetDefault("BACKEND_TIMEOUT", "15s")
	v.SetDefault("AUTH_HEADER", "x-auth-token")
	v.SetDefault("LOGIN_PATH", "/login")

	v.SetDefault("STORE_DRIVER", StoreDriverFile)
	v.SetDefault("STORE_DIR", "./.permit-console")
	v.SetDefault("STORE_PREFIX", "permits:")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("EXPORTS_DIR", "./exports")
	v.SetDefault("EXPORTS_TTL", "24h")
	v.SetDefault("EXPORTS_CLEANUP_INTERVAL", "1h")

	v.SetDefault("AUTOSAVE_ENABLED", true)
	v.SetDefault("AUTOSAVE_DELAY", "1500ms")

	v.SetDefault("PAGE_SIZE", 10)
	v.SetDefault("EXPORT_LIMIT", 10000)
	v.SetDefault("PERMIT_PREVIEW_SCAN", 1000)

	v.SetDefault("THEME", "light")
	v.SetDefault("DATE_FORMAT", "02/01/2006")
}

// isMissingFile treats an absent .env as "no file config" rather than a failure.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
