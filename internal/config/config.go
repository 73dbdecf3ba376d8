package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Server   ServerConfig   `env:",prefix=SERVER_"`
	Postgres PostgresConfig `env:",prefix=POSTGRES_"`
	Redis    RedisConfig    `env:",prefix=REDIS_"`
	HubSpot  HubSpotConfig  `env:",prefix=HUBSPOT_"`
	Session  SessionConfig  `env:",prefix=SESSION_"`
	Security SecurityConfig `env:",prefix="`
	CORS     CORSConfig     `env:",prefix=CORS_"`
	Env      string         `env:"ENV,default=development"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=http://localhost:3000"`
	AllowedMethods []string `env:"ALLOWED_METHODS,default=GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders []string `env:"ALLOWED_HEADERS,default=Content-Type,Authorization,X-Portal-ID"`
}

type ServerConfig struct {
	Port         string   `env:"PORT,default=8080"`
	Host         string   `env:"HOST,default=0.0.0.0"`
	ReadTimeout  Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout Duration `env:"WRITE_TIMEOUT,default=30s"`
}

type PostgresConfig struct {
	// Host may be left empty to run without durable token storage;
	// tokens are then kept in process memory and lost on restart.
	Host     string `env:"HOST"`
	Port     string `env:"PORT,default=5432"`
	User     string `env:"USER,default=hs_invoice"`
	Password string `env:"PASSWORD,default=hs_invoice_password"`
	DBName   string `env:"DB,default=hs_invoice_db"`
	SSLMode  string `env:"SSLMODE,default=disable"`

	MigrationsPath string `env:"MIGRATIONS,default=migrations"`
}

type RedisConfig struct {
	// Host may be left empty; the CSRF state registry and the rate
	// limiter then fall back to in-process implementations.
	Host     string `env:"HOST"`
	Port     string `env:"PORT,default=6379"`
	Password string `env:"PASSWORD,default="`
	DB       int    `env:"DB,default=0"`
}

// HubSpotConfig holds the OAuth app credentials and API endpoints.
// ClientID/ClientSecret may be absent: the OAuth flow then fails with a
// configuration error, while a static token can still serve API calls.
type HubSpotConfig struct {
	ClientID     string   `env:"CLIENT_ID"`
	ClientSecret string   `env:"CLIENT_SECRET"`
	RedirectURL  string   `env:"REDIRECT_URL"`
	StaticToken  string   `env:"STATIC_TOKEN"`
	Scopes       []string `env:"SCOPES,default=crm.objects.companies.read,crm.objects.companies.write,crm.objects.deals.read,crm.objects.invoices.read,crm.objects.invoices.write"`
	AuthURL      string   `env:"AUTH_URL,default=https://app.hubspot.com/oauth/authorize"`
	APIBaseURL   string   `env:"API_BASE_URL,default=https://api.hubapi.com"`
	CallTimeout  Duration `env:"CALL_TIMEOUT,default=30s"`
}

type SessionConfig struct {
	Secret string   `env:"SECRET,required"`
	TTL    Duration `env:"TTL,default=30d"`
}

type SecurityConfig struct {
	RateLimitRequests int      `env:"RATE_LIMIT_REQUESTS,default=20"`
	RateLimitWindow   Duration `env:"RATE_LIMIT_WINDOW,default=1m"`
	StateTTL          Duration `env:"STATE_TTL,default=10m"`
}

// DSN returns PostgreSQL connection string
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

// Enabled reports whether a Postgres host is configured.
func (p PostgresConfig) Enabled() bool {
	return p.Host != ""
}

// Address returns Redis connection address
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// Enabled reports whether a Redis host is configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

// OAuthConfigured reports whether the OAuth app credentials are complete.
func (h HubSpotConfig) OAuthConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != "" && h.RedirectURL != ""
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var config Config

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Validate session secret length
	if len(config.Session.Secret) < 32 {
		return nil, fmt.Errorf("SESSION_SECRET must be at least 32 characters long")
	}

	return &config, nil
}

// LoadWithDefaults loads configuration with default context
func LoadWithDefaults() (*Config, error) {
	return Load(context.Background())
}
