// Package config carga la configuración del proceso: defaults, luego el YAML
// (opcional), luego overrides por variables de entorno, luego Validate.
// El resultado se trata como inmutable.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	tokens "github.com/dropDatabas3/authkit/internal/security/token"
)

type Config struct {
	App       AppConfig       `yaml:"app"`
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Cache     CacheConfig     `yaml:"cache"`
	JWT       JWTConfig       `yaml:"jwt"`
	Auth      AuthConfig      `yaml:"auth"`
	Rate      RateConfig      `yaml:"rate"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	Providers ProvidersConfig `yaml:"providers"`
	Log       LogConfig       `yaml:"log"`
}

type AppConfig struct {
	Name string `yaml:"name"`
	// Tag: dev | staging | prod. Controla CORS y defaults inseguros.
	Tag        string `yaml:"tag"`
	WebAppURL  string `yaml:"web_app_url"`
	APIPrefix  string `yaml:"api_prefix"`
	ServerHost string `yaml:"server_host"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	Driver         string `yaml:"driver"` // postgres | memory
	DSN            string `yaml:"dsn"`
	MaxConns       int    `yaml:"max_conns"`
	MinConns       int    `yaml:"min_conns"`
	MigrateOnStart bool   `yaml:"migrate_on_start"`
}

type CacheConfig struct {
	Driver        string `yaml:"driver"` // memory | redis
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	Prefix        string `yaml:"prefix"`
}

type JWTConfig struct {
	Secret     string        `yaml:"secret"`
	AccessTTL  time.Duration `yaml:"access_ttl"`
	RefreshTTL time.Duration `yaml:"refresh_ttl"`
	SSOTTL     time.Duration `yaml:"sso_ttl"`
	ResetTTL   time.Duration `yaml:"reset_ttl"`
}

type AuthConfig struct {
	FirstSuperuser         string `yaml:"first_superuser"`
	FirstSuperuserPassword string `yaml:"first_superuser_password"`
	OpenRegistration       bool   `yaml:"open_registration"`
	PasswordMinLength      int    `yaml:"password_min_length"`
	PasswordBlacklistPath  string `yaml:"password_blacklist_path"`
	// StateTTL: vida del state OAuth entre /login y /callback.
	StateTTL time.Duration `yaml:"state_ttl"`
	// AllowedReturnURLs prefijos aceptados como return_url del login social.
	AllowedReturnURLs []string `yaml:"allowed_return_urls"`
}

type RateConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Window      time.Duration `yaml:"window"`
	MaxRequests int           `yaml:"max_requests"`
}

type SMTPConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	TLSMode   string `yaml:"tls_mode"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// Enabled: SMTP configurado (host + remitente).
func (s SMTPConfig) Enabled() bool { return s.Host != "" && s.FromEmail != "" }

type ProviderConfig struct {
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	Scopes       []string `yaml:"scopes"`
}

// Enabled: un provider social se habilita sólo con client id y secret.
func (p ProviderConfig) Enabled() bool { return p.ClientID != "" && p.ClientSecret != "" }

type ProvidersConfig struct {
	Google   ProviderConfig `yaml:"google"`
	Facebook ProviderConfig `yaml:"facebook"`
	Github   ProviderConfig `yaml:"github"`
}

type LogConfig struct {
	Env   string `yaml:"env"`
	Level string `yaml:"level"`
}

// Default retorna la configuración base de desarrollo.
func Default() Config {
	return Config{
		App: AppConfig{
			Name:       "authkit",
			Tag:        "dev",
			WebAppURL:  "http://localhost:3000",
			APIPrefix:  "/api/v1",
			ServerHost: "http://localhost:8080",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{Driver: "memory", MaxConns: 10, MinConns: 2},
		Cache:    CacheConfig{Driver: "memory", RedisAddr: "localhost:6379", Prefix: "authkit"},
		JWT: JWTConfig{
			AccessTTL:  24 * time.Hour,
			RefreshTTL: 8 * 24 * time.Hour,
			SSOTTL:     30 * time.Second,
			ResetTTL:   48 * time.Hour,
		},
		Auth: AuthConfig{PasswordMinLength: 8, StateTTL: 10 * time.Minute},
		Rate: RateConfig{Enabled: true, Window: time.Minute, MaxRequests: 20},
		SMTP: SMTPConfig{Port: 587, TLSMode: "auto"},
		Log:  LogConfig{Env: "dev", Level: "info"},
	}
}

// Load: defaults → YAML (si path existe) → env → Validate.
func Load(path string) (Config, error) {
	c := Default()

	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// sin archivo: defaults + env
		default:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	c.applyEnvOverrides()

	if c.JWT.Secret == "" && c.IsDev() {
		// En dev se genera un secreto efímero: los tokens no sobreviven un reinicio.
		s, err := tokens.GenerateOpaqueToken(32)
		if err != nil {
			return Config{}, err
		}
		c.JWT.Secret = s
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) IsDev() bool { return strings.EqualFold(c.App.Tag, "dev") }

// ProviderRedirectURL callback absoluto para un provider social.
func (c Config) ProviderRedirectURL(provider string) string {
	return strings.TrimRight(c.App.ServerHost, "/") + c.App.APIPrefix + "/auth/" + provider + "/callback"
}

// Validate chequea invariantes de la configuración.
func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.App.Tag) {
	case "dev", "staging", "prod":
	default:
		errs = append(errs, fmt.Errorf("app.tag must be dev|staging|prod, got %q", c.App.Tag))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret is required (SECRET_KEY)"))
	}
	if !strings.HasPrefix(c.App.APIPrefix, "/") {
		errs = append(errs, errors.New("app.api_prefix must start with /"))
	}
	switch c.Database.Driver {
	case "memory":
	case "postgres":
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("database.dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("database.driver must be postgres|memory, got %q", c.Database.Driver))
	}
	switch c.Cache.Driver {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("cache.driver must be memory|redis, got %q", c.Cache.Driver))
	}
	if (c.Auth.FirstSuperuser == "") != (c.Auth.FirstSuperuserPassword == "") {
		errs = append(errs, errors.New("auth.first_superuser and auth.first_superuser_password go together"))
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 || c.JWT.SSOTTL <= 0 || c.JWT.ResetTTL <= 0 {
		errs = append(errs, errors.New("jwt ttls must be positive"))
	}
	if c.Rate.Enabled && (c.Rate.Window <= 0 || c.Rate.MaxRequests <= 0) {
		errs = append(errs, errors.New("rate.window and rate.max_requests must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) applyEnvOverrides() {
	setStr(&c.App.Name, "PROJECT_NAME")
	setStr(&c.App.Tag, "TAG")
	setStr(&c.App.WebAppURL, "WEB_APP_URL")
	setStr(&c.App.APIPrefix, "API_V1_STR")
	setStr(&c.App.ServerHost, "SERVER_HOST")

	setStr(&c.Server.Addr, "SERVER_ADDR")
	setCSV(&c.Server.CORSOrigins, "CORS_ORIGINS")

	setStr(&c.Database.Driver, "DATABASE_DRIVER")
	setStr(&c.Database.DSN, "DATABASE_URL")
	setInt(&c.Database.MaxConns, "DATABASE_MAX_CONNS")
	setBool(&c.Database.MigrateOnStart, "DATABASE_MIGRATE_ON_START")

	setStr(&c.Cache.Driver, "CACHE_DRIVER")
	setStr(&c.Cache.RedisAddr, "REDIS_ADDR")
	setStr(&c.Cache.RedisPassword, "REDIS_PASSWORD")
	setInt(&c.Cache.RedisDB, "REDIS_DB")

	setStr(&c.JWT.Secret, "SECRET_KEY")
	setSeconds(&c.JWT.AccessTTL, "ACCESS_TOKEN_EXPIRES_SECONDS")
	setSeconds(&c.JWT.RefreshTTL, "REFRESH_TOKEN_EXPIRES_SECONDS")
	setSeconds(&c.JWT.SSOTTL, "SSO_TOKEN_EXPIRES_SECONDS")
	if v, ok := getEnvInt("EMAIL_RESET_TOKEN_EXPIRE_HOURS"); ok {
		c.JWT.ResetTTL = time.Duration(v) * time.Hour
	}

	setStr(&c.Auth.FirstSuperuser, "FIRST_SUPERUSER")
	setStr(&c.Auth.FirstSuperuserPassword, "FIRST_SUPERUSER_PASSWORD")
	setBool(&c.Auth.OpenRegistration, "USERS_OPEN_REGISTRATION")
	setInt(&c.Auth.PasswordMinLength, "PASSWORD_MIN_LENGTH")
	setStr(&c.Auth.PasswordBlacklistPath, "PASSWORD_BLACKLIST_PATH")
	setDur(&c.Auth.StateTTL, "SSO_STATE_TTL")
	setCSV(&c.Auth.AllowedReturnURLs, "SSO_ALLOWED_RETURN_URLS")

	setBool(&c.Rate.Enabled, "RATE_ENABLED")
	setDur(&c.Rate.Window, "RATE_WINDOW")
	setInt(&c.Rate.MaxRequests, "RATE_MAX_REQUESTS")

	setStr(&c.SMTP.Host, "SMTP_HOST")
	setInt(&c.SMTP.Port, "SMTP_PORT")
	setStr(&c.SMTP.Username, "SMTP_USER")
	setStr(&c.SMTP.Password, "SMTP_PASSWORD")
	setStr(&c.SMTP.TLSMode, "SMTP_TLS_MODE")
	setStr(&c.SMTP.FromEmail, "EMAILS_FROM_EMAIL")
	setStr(&c.SMTP.FromName, "EMAILS_FROM_NAME")

	setStr(&c.Providers.Google.ClientID, "GOOGLE_CLIENT_ID")
	setStr(&c.Providers.Google.ClientSecret, "GOOGLE_CLIENT_SECRET")
	setStr(&c.Providers.Facebook.ClientID, "FACEBOOK_CLIENT_ID")
	setStr(&c.Providers.Facebook.ClientSecret, "FACEBOOK_CLIENT_SECRET")
	setStr(&c.Providers.Github.ClientID, "GITHUB_CLIENT_ID")
	setStr(&c.Providers.Github.ClientSecret, "GITHUB_CLIENT_SECRET")

	setStr(&c.Log.Env, "LOG_ENV")
	setStr(&c.Log.Level, "LOG_LEVEL")
}

func getEnvStr(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
	}
	return 0, false
}

func setStr(dst *string, key string) {
	if v, ok := getEnvStr(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := getEnvInt(key); ok {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(s); err == nil {
			*dst = b
		}
	}
}

func setDur(dst *time.Duration, key string) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(s); err == nil {
			*dst = d
		}
	}
}

func setSeconds(dst *time.Duration, key string) {
	if v, ok := getEnvInt(key); ok {
		*dst = time.Duration(v) * time.Second
	}
}

func setCSV(dst *[]string, key string) {
	s, ok := getEnvStr(key)
	if !ok {
		return
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	*dst = out
}
