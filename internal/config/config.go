// README: Config loader; reads .env when present, then PABILI_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"pabili/internal/maps"
)

type HTTPConfig struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type DBConfig struct {
	// DSN is optional; without it quotes are priced but not stored.
	DSN     string `env:"DSN"`
	Migrate bool   `env:"MIGRATE" envDefault:"true"`
}

type RedisConfig struct {
	// Addr is optional; sessions fall back to process memory without it.
	Addr       string        `env:"ADDR"`
	Password   string        `env:"PASSWORD"`
	DB         int           `env:"DB" envDefault:"0"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"2h"`
}

type MapsConfig struct {
	Provider        string        `env:"PROVIDER" envDefault:"osm"`
	NominatimURL    string        `env:"NOMINATIM_URL" envDefault:"https://nominatim.openstreetmap.org"`
	OSRMURL         string        `env:"OSRM_URL" envDefault:"https://router.project-osrm.org/route/v1"`
	UserAgent       string        `env:"USER_AGENT" envDefault:"pabili/1.0"`
	GoogleAPIKey    string        `env:"GOOGLE_API_KEY"`
	Region          string        `env:"REGION" envDefault:"ph"`
	GeocodeCacheTTL time.Duration `env:"GEOCODE_CACHE_TTL" envDefault:"24h"`
	Fallback        bool          `env:"FALLBACK" envDefault:"false"`
	Timeout         time.Duration `env:"TIMEOUT" envDefault:"10s"`
	MaxRetries      uint64        `env:"MAX_RETRIES" envDefault:"2"`
}

// Options maps the config onto maps.Build options. cache may be nil.
func (m MapsConfig) Options(cache maps.Cache, logger *zap.Logger) maps.Options {
	retry := maps.DefaultRetryPolicy()
	retry.MaxRetries = m.MaxRetries
	return maps.Options{
		Provider:     m.Provider,
		NominatimURL: m.NominatimURL,
		OSRMURL:      m.OSRMURL,
		UserAgent:    m.UserAgent,
		GoogleAPIKey: m.GoogleAPIKey,
		Region:       m.Region,
		Timeout:      m.Timeout,
		Retry:        retry,
		Cache:        cache,
		CacheTTL:     m.GeocodeCacheTTL,
		Fallback:     m.Fallback,
		Logger:       logger,
	}
}

type PricingConfig struct {
	RoundDistance bool `env:"ROUND_DISTANCE" envDefault:"true"`
}

type AIConfig struct {
	GeminiKey string `env:"GEMINI_API_KEY"`
	Model     string `env:"MODEL" envDefault:"gemini-2.0-flash"`
}

type FirebaseConfig struct {
	Enabled         bool   `env:"AUTH_ENABLED" envDefault:"false"`
	ProjectID       string `env:"PROJECT_ID"`
	CredentialsFile string `env:"CREDENTIALS_FILE"`
}

type Config struct {
	Env      string         `env:"ENV" envDefault:"development"`
	HTTP     HTTPConfig     `envPrefix:"HTTP_"`
	DB       DBConfig       `envPrefix:"DB_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Maps     MapsConfig     `envPrefix:"MAPS_"`
	Pricing  PricingConfig  `envPrefix:"PRICING_"`
	AI       AIConfig       `envPrefix:"AI_"`
	Firebase FirebaseConfig `envPrefix:"FIREBASE_"`
}

func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "PABILI_"}); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Maps.Provider {
	case maps.ProviderOSM:
	case maps.ProviderGoogle:
		if c.Maps.GoogleAPIKey == "" {
			return errors.New("PABILI_MAPS_GOOGLE_API_KEY is required for the google provider")
		}
	default:
		return fmt.Errorf("unknown maps provider %q", c.Maps.Provider)
	}
	if c.Firebase.Enabled && c.Firebase.ProjectID == "" {
		return errors.New("PABILI_FIREBASE_PROJECT_ID is required when auth is enabled")
	}
	return nil
}

func (c Config) Production() bool {
	return c.Env == "production"
}
