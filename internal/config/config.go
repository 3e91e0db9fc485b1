package config

import (
	"fmt"  // For error wrapping
	"time" // For durations

	"github.com/caarlos0/env/v11" // For parsing environment into the struct
	"github.com/joho/godotenv"    // For loading .env files
)

// OAuthClient holds the credentials of a single OAuth provider
type OAuthClient struct {
	ClientID     string `env:"CLIENT_ID"`     // OAuth client id
	ClientSecret string `env:"CLIENT_SECRET"` // OAuth client secret
}

// Enabled reports whether the provider has been configured
func (o OAuthClient) Enabled() bool {
	return o.ClientID != ""
}

// Config holds the application configuration
type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"5000"`   // Application port
	IsProd  bool   `env:"IS_PROD" envDefault:"false"`   // Is production environment
	Prefix  string `env:"API_PREFIX" envDefault:"/api"` // Route prefix for the API

	DBDriver       string `env:"DB_DRIVER" envDefault:"postgres"` // postgres, mysql or sqlite
	DBDSN          string `env:"DB_DSN"`                          // Full DSN, wins over the split fields
	DBUser         string `env:"DB_USER"`                         // Database user
	DBPassword     string `env:"DB_PASSWORD"`                     // Database password
	DBHost         string `env:"DB_HOST" envDefault:"localhost"`  // Database host
	DBPort         string `env:"DB_PORT"`                         // Database port
	DBName         string `env:"DB_NAME"`                         // Database name
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	DBMaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	AutoMigrate    bool   `env:"AUTO_MIGRATE" envDefault:"false"` // Run migrations on server start

	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"` // Redis server address
	RedisPass string `env:"REDIS_PASS"`                             // Redis password
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`                // Redis database number

	SessionSecret     string        `env:"SESSION_SECRET,required"`                      // HMAC key for session cookies
	SessionCookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"connect.sid"` // Session cookie name
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"24h"`                 // Session lifetime
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`             // Per-request store deadline

	FrontendURL    string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"` // CORS origin and redirect base
	LoginFailedURL string `env:"LOGIN_FAILED_URL" envDefault:"/login"`            // OAuth failure redirect
	PublicURL      string `env:"PUBLIC_URL" envDefault:"http://localhost:5000"`   // Base for OAuth callbacks

	GitHub    OAuthClient `envPrefix:"GITHUB_"`
	Google    OAuthClient `envPrefix:"GOOGLE_"`
	Facebook  OAuthClient `envPrefix:"FACEBOOK_"`
	Twitter   OAuthClient `envPrefix:"TWITTER_"`
	Instagram OAuthClient `envPrefix:"INSTAGRAM_"`
}

// LoadConfig loads configuration from .env and environment variables
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	return parse(env.Options{})
}

// parse fills a Config from the environment described by opts
func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	switch cfg.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return &cfg, nil
}

// DSN builds the data source name for the configured driver
func (c *Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	switch c.DBDriver {
	case "mysql":
		port := c.DBPort
		if port == "" {
			port = "3306"
		}
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + port + ")/" + c.DBName + "?parseTime=true"
	case "sqlite":
		return c.DBName
	default:
		port := c.DBPort
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			c.DBHost, c.DBUser, c.DBPassword, c.DBName, port)
	}
}
