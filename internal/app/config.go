package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (KITCHEN_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL string `usage:"PostgreSQL connection URL (KITCHEN_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	Admin       AdminConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Graceful    GracefulConfig
}

// AdminConfig is the trust root for the access guard. The password is never
// configured in the clear; use cmd/hash-password to produce the bcrypt hash.
type AdminConfig struct {
	Username     string        `default:"admin" usage:"Admin username"`
	PasswordHash string        `usage:"bcrypt hash of the admin password (KITCHEN_ADMIN_PASSWORD_HASH)" flag:"admin-password-hash"`
	JWTSecret    string        `usage:"Secret for signing admin tokens (KITCHEN_ADMIN_JWT_SECRET)" flag:"jwt-secret"`
	TokenTTL     time.Duration `default:"24h" usage:"Admin token lifetime" flag:"token-ttl"`
}

// RateLimitConfig controls the per-client rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "KITCHEN",
		Files:     []string{"config.yaml", "/etc/cloudkitchen/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set KITCHEN_DATABASE_URL or DATABASE_URL")
	}
	if cfg.Admin.JWTSecret == "" {
		return nil, errors.New("JWT secret is required: set KITCHEN_ADMIN_JWT_SECRET")
	}
	if cfg.Admin.PasswordHash == "" {
		return nil, errors.New("admin password hash is required: set KITCHEN_ADMIN_PASSWORD_HASH")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) that use standard names like DATABASE_URL and PORT to the
// application's KITCHEN_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
