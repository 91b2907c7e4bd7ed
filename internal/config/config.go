package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	AppPort         string        `env:"APP_PORT" envDefault:"5000"`
	PublicBaseURL   string        `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:5000"`
	FrontendURL     string        `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	FailureRedirect string        `env:"LOGIN_FAILURE_REDIRECT" envDefault:"/login"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"`

	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`
	GitHubRedirectURL  string `env:"GITHUB_REDIRECT_URL"`

	FacebookClientID     string `env:"FACEBOOK_CLIENT_ID"`
	FacebookClientSecret string `env:"FACEBOOK_CLIENT_SECRET"`
	FacebookRedirectURL  string `env:"FACEBOOK_REDIRECT_URL"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	DatabaseDSN string `env:"DATABASE_DSN,required,notEmpty"`

	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	JWTIssuer string        `env:"JWT_ISSUER" envDefault:"oauth-backend"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"1h"`

	CSRFAuthKey  string `env:"CSRF_AUTH_KEY,required,notEmpty"`
	CookieSecure bool   `env:"COOKIE_SECURE" envDefault:"false"`

	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`

	RateLimitMax    int           `env:"RATE_LIMIT_MAX" envDefault:"100"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`

	// TrustedProxies may set X-Forwarded-For; empty trusts none.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}

	cfg.applyRedirectDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyRedirectDefaults derives provider callback URLs from the public base URL.
func (c *Config) applyRedirectDefaults() {
	if c.GoogleRedirectURL == "" {
		c.GoogleRedirectURL = c.CallbackURL("google")
	}
	if c.GitHubRedirectURL == "" {
		c.GitHubRedirectURL = c.CallbackURL("github")
	}
	if c.FacebookRedirectURL == "" {
		c.FacebookRedirectURL = c.CallbackURL("facebook")
	}
}

// CallbackURL returns the default OAuth callback URL for a provider.
func (c Config) CallbackURL(provider string) string {
	return c.PublicBaseURL + "/auth/" + provider + "/callback"
}

func (c Config) Validate() error {
	if len(c.JWTSecret) < 16 {
		return errors.New("config: JWT_SECRET must be at least 16 bytes")
	}
	if len(c.CSRFAuthKey) != 32 {
		return errors.New("config: CSRF_AUTH_KEY must be exactly 32 bytes")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("config: BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.RateLimitMax <= 0 || c.RateLimitWindow <= 0 {
		return errors.New("config: rate limit max and window must be positive")
	}
	if c.JWTTTL <= 0 || c.SessionTTL <= 0 {
		return errors.New("config: token and session TTLs must be positive")
	}
	if _, err := url.ParseRequestURI(c.FrontendURL); err != nil {
		return fmt.Errorf("config: FRONTEND_URL: %w", err)
	}
	return nil
}
