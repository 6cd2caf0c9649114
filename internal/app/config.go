package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	LogMode        string        `env:"LOG_MODE" envDefault:"development"`
	JWTSecretKey   string        `env:"JWT_SECRET_KEY,required"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"3m"`
	CORSOrigins    []string      `env:"CORS_ORIGINS" envSeparator:","`
	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" envDefault:"26214400"`

	// PlanTimezone decides which calendar day a YYYY-MM-DD due date means.
	PlanTimezone string `env:"PLAN_TIMEZONE" envDefault:"Local"`

	DBDriver   string `env:"DB_DRIVER" envDefault:"postgres"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"studyplan.db"`

	StorageMode         string `env:"STORAGE_MODE" envDefault:"local"`
	UploadDir           string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	GCSBucket           string `env:"GCS_BUCKET"`
	StorageEmulatorHost string `env:"STORAGE_EMULATOR_HOST"`

	RedisAddr      string        `env:"REDIS_ADDR"`
	SearchCacheTTL time.Duration `env:"SEARCH_CACHE_TTL" envDefault:"6h"`

	YouTubeAPIKey         string `env:"YOUTUBE_API_KEY"`
	YouTubeRegion         string `env:"YOUTUBE_REGION" envDefault:"US"`
	YouTubeMaxResults     int64  `env:"YOUTUBE_MAX_RESULTS" envDefault:"8"`
	RecsSearchConcurrency int    `env:"RECS_SEARCH_CONCURRENCY" envDefault:"4"`

	OtelEnabled     bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OtelServiceName string  `env:"OTEL_SERVICE_NAME" envDefault:"studyplan-backend"`
	OtelEnvironment string  `env:"OTEL_ENVIRONMENT" envDefault:"development"`
	OtelVersion     string  `env:"OTEL_SERVICE_VERSION"`
	OtelSampleRatio float64 `env:"OTEL_TRACES_SAMPLER_RATIO" envDefault:"1"`
	OtelEndpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelHeaders     string  `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	OtelInsecure    bool    `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"false"`
}

// LoadConfig reads the process environment.
func LoadConfig() (Config, error) {
	return parseConfig(env.Options{})
}

func parseConfig(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.StorageMode = strings.ToLower(strings.TrimSpace(cfg.StorageMode))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid DB_DRIVER %q (allowed: postgres, sqlite)", c.DBDriver)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if c.RecsSearchConcurrency < 1 {
		return fmt.Errorf("RECS_SEARCH_CONCURRENCY must be at least 1")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves PlanTimezone.
func (c Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.PlanTimezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid PLAN_TIMEZONE %q: %w", name, err)
	}
	return loc, nil
}
