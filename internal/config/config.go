package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration required by the API process.
// All values must come from env (or a .env file loaded by the process runner).
// No business logic should depend on raw environment variables.
type Config struct {
	App    AppConfig
	Server ServerConfig
	DB     DBConfig
	Redis  RedisConfig
	Auth   AuthConfig
	Login  LoginConfig
}

type AppConfig struct {
	Env  string
	Port int
}

type ServerConfig struct {
	// Timeout is the deadline imposed on every request context.
	Timeout     time.Duration
	BodyLimitMB int64
	// CORSAllowedOrigin is the single browser origin allowed to send credentialed requests.
	CORSAllowedOrigin string
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string

	// Accepts: disable, require, verify-ca, verify-full
	SSLMode string

	// Pool sizing. Zero leaves the opener's defaults in place.
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Host string
	Port int
}

// AuthConfig carries the two tier secret pairs and token lifetimes.
// Secrets are never defaulted.
type AuthConfig struct {
	UserSecret         string
	UserRefreshSecret  string
	AdminSecret        string
	AdminRefreshSecret string

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// CookieMaxAge is the session cookie lifetime. It is deliberately not
	// derived from the token TTLs.
	CookieMaxAge time.Duration
}

type LoginConfig struct {
	MaxAttempts   int
	AttemptWindow time.Duration
}

const (
	defaultServerTimeout = 30 * time.Second
	defaultBodyLimitMB   = 10
	defaultCookieMaxAge  = 14 * 24 * time.Hour
	defaultMaxAttempts   = 10
	defaultAttemptWindow = 15 * time.Minute
)

func Load() (Config, error) {
	c := Config{}
	r := &envReader{}

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	c.App.Port = r.requiredInt("APP_PORT")

	c.Server.Timeout = r.optionalDuration("SERVER_TIMEOUT")
	c.Server.BodyLimitMB = int64(r.optionalInt("SERVER_BODY_LIMIT_MB"))
	c.Server.CORSAllowedOrigin = strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGIN"))

	c.DB.Host = strings.TrimSpace(os.Getenv("DB_HOST"))
	c.DB.Port = r.requiredInt("DB_PORT")
	c.DB.User = strings.TrimSpace(os.Getenv("DB_USER"))
	c.DB.Password = os.Getenv("DB_PASSWORD")
	c.DB.Name = strings.TrimSpace(os.Getenv("DB_NAME"))
	c.DB.SSLMode = strings.TrimSpace(os.Getenv("DB_SSLMODE"))
	c.DB.MaxOpenConns = r.optionalInt("DB_MAX_OPEN_CONNS")
	c.DB.ConnMaxLifetime = r.optionalDuration("DB_CONN_MAX_LIFETIME")

	c.Redis.Host = strings.TrimSpace(os.Getenv("REDIS_HOST"))
	c.Redis.Port = r.requiredInt("REDIS_PORT")

	c.Auth.UserSecret = os.Getenv("JWT_USER_SECRET")
	c.Auth.UserRefreshSecret = os.Getenv("JWT_USER_REFRESH_SECRET")
	c.Auth.AdminSecret = os.Getenv("JWT_ADMIN_SECRET")
	c.Auth.AdminRefreshSecret = os.Getenv("JWT_ADMIN_REFRESH_SECRET")
	c.Auth.AccessTokenTTL = r.requiredDuration("JWT_ACCESS_TTL")
	c.Auth.RefreshTokenTTL = r.requiredDuration("JWT_REFRESH_TTL")
	c.Auth.CookieMaxAge = r.optionalDuration("SESSION_COOKIE_MAX_AGE")

	c.Login.MaxAttempts = r.optionalInt("LOGIN_MAX_ATTEMPTS")
	c.Login.AttemptWindow = r.optionalDuration("LOGIN_ATTEMPT_WINDOW")

	if err := joinErrors(r.errs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks required values and fills non-secret defaults.
func (c *Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	if c.Server.Timeout <= 0 {
		c.Server.Timeout = defaultServerTimeout
	}
	if c.Server.BodyLimitMB <= 0 {
		c.Server.BodyLimitMB = defaultBodyLimitMB
	}

	if c.DB.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.DB.Port <= 0 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Errorf("DB_PORT must be a valid port, got %d", c.DB.Port))
	}
	if c.DB.User == "" {
		errs = append(errs, errors.New("DB_USER is required"))
	}
	if c.DB.Name == "" {
		errs = append(errs, errors.New("DB_NAME is required"))
	}
	if c.DB.SSLMode == "" {
		if c.IsProduction() {
			errs = append(errs, errors.New("DB_SSLMODE is required in production"))
		} else {
			// Local-friendly default; production must be explicit.
			c.DB.SSLMode = "disable"
		}
	}
	if c.DB.SSLMode != "" && !isValidSSLMode(c.DB.SSLMode) {
		errs = append(errs, fmt.Errorf("DB_SSLMODE must be one of disable, require, verify-ca, verify-full, got %q", c.DB.SSLMode))
	}

	if c.Redis.Host == "" {
		errs = append(errs, errors.New("REDIS_HOST is required"))
	}
	if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
	}

	errs = append(errs, c.Auth.validate()...)

	if c.Login.MaxAttempts <= 0 {
		c.Login.MaxAttempts = defaultMaxAttempts
	}
	if c.Login.AttemptWindow <= 0 {
		c.Login.AttemptWindow = defaultAttemptWindow
	}

	return joinErrors(errs)
}

func (a *AuthConfig) validate() []error {
	var errs []error

	secrets := []struct {
		key   string
		value string
	}{
		{"JWT_USER_SECRET", a.UserSecret},
		{"JWT_USER_REFRESH_SECRET", a.UserRefreshSecret},
		{"JWT_ADMIN_SECRET", a.AdminSecret},
		{"JWT_ADMIN_REFRESH_SECRET", a.AdminRefreshSecret},
	}
	seen := make(map[string]string, len(secrets))
	for _, s := range secrets {
		if strings.TrimSpace(s.value) == "" {
			errs = append(errs, fmt.Errorf("%s is required", s.key))
			continue
		}
		// A shared key would let one tier or token kind verify as another.
		if other, dup := seen[s.value]; dup {
			errs = append(errs, fmt.Errorf("%s must differ from %s", s.key, other))
			continue
		}
		seen[s.value] = s.key
	}

	if a.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("JWT_ACCESS_TTL is required and must be positive"))
	}
	if a.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("JWT_REFRESH_TTL is required and must be positive"))
	}
	if a.AccessTokenTTL > 0 && a.RefreshTokenTTL > 0 && a.RefreshTokenTTL <= a.AccessTokenTTL {
		errs = append(errs, errors.New("JWT_REFRESH_TTL must be greater than JWT_ACCESS_TTL"))
	}

	if a.CookieMaxAge <= 0 {
		a.CookieMaxAge = defaultCookieMaxAge
	}
	return errs
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func (c Config) PostgresDSN() string {
	// Avoid logging this string; it contains secrets.
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// envReader parses typed env values and accumulates parse errors so that
// every problem is reported at once.
type envReader struct {
	errs []error
}

func (r *envReader) fail(err error) {
	r.errs = append(r.errs, err)
}

func (r *envReader) requiredInt(key string) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		r.fail(fmt.Errorf("%s is required", key))
		return 0
	}
	return r.parseInt(key, v)
}

func (r *envReader) optionalInt(key string) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	return r.parseInt(key, v)
}

func (r *envReader) parseInt(key, v string) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(fmt.Errorf("%s must be an integer, got %q", key, v))
		return 0
	}
	return n
}

func (r *envReader) requiredDuration(key string) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		r.fail(fmt.Errorf("%s is required", key))
		return 0
	}
	return r.parseDuration(key, v)
}

func (r *envReader) optionalDuration(key string) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	return r.parseDuration(key, v)
}

func (r *envReader) parseDuration(key, v string) time.Duration {
	d, err := ParseDuration(v)
	if err != nil {
		r.fail(fmt.Errorf("%s: %w", key, err))
		return 0
	}
	return d
}

// ParseDuration accepts Go duration syntax ("15m", "1h30m") and whole days ("14d").
func ParseDuration(v string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(v, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid day count %q", v)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", v)
	}
	return d, nil
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func isValidSSLMode(v string) bool {
	switch v {
	case "disable", "require", "verify-ca", "verify-full":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
