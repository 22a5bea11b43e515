package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/miramar-experience/api-go/ranking"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds everything read from the environment at startup.
type Config struct {
	Debug          bool
	Port           string
	StoreDriver    string
	DatabaseURL    string
	JWTSecret      string
	CronSecret     string
	ReadTimeout    time.Duration
	HeroLimit      int
	CarouselLoop   bool
	PromoCard      bool
	AllowedOrigins []string
	// RevalidateURL receives the paths to refresh after ad changes.
	RevalidateURL    string
	RevalidateSecret string
	R2               *R2Config
	Google           *GoogleConfig
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal in production.
	_ = godotenv.Load()

	cfg := &Config{
		Debug:            envBool("DEBUG", false),
		Port:             envString("PORT", "8080"),
		StoreDriver:      envString("STORE_DRIVER", StoreDriverPostgres),
		DatabaseURL:      databaseURL(),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		CronSecret:       os.Getenv("CRON_SECRET"),
		ReadTimeout:      envDuration("READ_TIMEOUT", 3*time.Second),
		HeroLimit:        envInt("HERO_LIMIT", ranking.DefaultHeroLimit),
		CarouselLoop:     envBool("CAROUSEL_LOOP", true),
		PromoCard:        envBool("PROMO_CARD", true),
		AllowedOrigins:   envList("CORS_ALLOWED_ORIGINS"),
		RevalidateURL:    os.Getenv("REVALIDATE_URL"),
		RevalidateSecret: os.Getenv("REVALIDATE_SECRET"),
		R2:               GetR2Config(),
		Google:           NewGoogleConfig(),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL or DB_HOST/DB_NAME is required for the postgres store")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.JWTSecret == "" && !c.Debug {
		return fmt.Errorf("JWT_SECRET is required outside debug mode")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("READ_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) Address() string {
	return ":" + c.Port
}

func databaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	host, name := os.Getenv("DB_HOST"), os.Getenv("DB_NAME")
	if host == "" || name == "" {
		return ""
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host,
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		name,
		envString("DB_PORT", "5432"),
		envString("DB_SSLMODE", "disable"),
	)
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
