package config

import (
	"fmt"
	"time"

	"github.com/adammarchelino/portfolio/util"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

// Config holds all application configuration
type Config struct {
	// connection parameters of the identity provider, without them the site cannot start
	ApiKey     string `envconfig:"SITE_API_KEY" required:"true"`
	ProjectId  string `envconfig:"SITE_PROJECT_ID" required:"true"`
	AuthDomain string `envconfig:"SITE_AUTH_DOMAIN" required:"true"`

	HttpPort           string        `envconfig:"HTTP_PORT" default:"8080"`
	DbPath             string        `envconfig:"DB_PATH" default:"portfolio.db"`
	StaticDir          string        `envconfig:"STATIC_DIR" default:"public"`
	MessagesCollection string        `envconfig:"MESSAGES_COLLECTION" default:"messages"`
	StatusClearDelay   time.Duration `envconfig:"STATUS_CLEAR_DELAY" default:"3s"`
	SessionTTL         time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	SessionIdleTTL     time.Duration `envconfig:"SESSION_IDLE_TTL" default:"30m"`
	SessionSweep       time.Duration `envconfig:"SESSION_SWEEP" default:"5m"`
	IdentityTimeout    time.Duration `envconfig:"IDENTITY_TIMEOUT" default:"5s"`
	SessionRate        int           `envconfig:"SESSION_RATE" default:"20"`
	MaxVisitors        int           `envconfig:"MAX_VISITORS" default:"10000"`
	NotifyWebhook      string        `envconfig:"NOTIFY_WEBHOOK"`
	BodyLimit          string        `envconfig:"BODY_LIMIT" default:"16K"`
	LogLevel           string        `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads .env when present, then the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// in containers variables are set directly, a missing file is fine
		zap.L().Info("No .env file found, using system environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the values envconfig cannot check by itself
func (c *Config) Validate() error {
	if util.AnyBlank(c.ApiKey, c.ProjectId, c.AuthDomain) {
		return fmt.Errorf("SITE_API_KEY, SITE_PROJECT_ID and SITE_AUTH_DOMAIN must not be blank")
	}
	if util.IsBlank(c.MessagesCollection) {
		return fmt.Errorf("MESSAGES_COLLECTION must not be blank")
	}
	for name, d := range map[string]time.Duration{
		"STATUS_CLEAR_DELAY": c.StatusClearDelay,
		"SESSION_TTL":        c.SessionTTL,
		"SESSION_IDLE_TTL":   c.SessionIdleTTL,
		"SESSION_SWEEP":      c.SessionSweep,
		"IDENTITY_TIMEOUT":   c.IdentityTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	if c.SessionRate <= 0 {
		return fmt.Errorf("SESSION_RATE must be positive, got %d", c.SessionRate)
	}
	if c.MaxVisitors <= 0 {
		return fmt.Errorf("MAX_VISITORS must be positive, got %d", c.MaxVisitors)
	}
	return nil
}

// CookieDomain is the domain for the session cookie, empty for local development
func (c *Config) CookieDomain() string {
	if c.AuthDomain == "localhost" || c.AuthDomain == "127.0.0.1" {
		return ""
	}
	return c.AuthDomain
}
