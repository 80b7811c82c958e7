// Package server arma la infraestructura a partir de la configuración y
// construye el handler HTTP V2.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	appv2 "github.com/dropDatabas3/authkit/internal/app/v2"
	"github.com/dropDatabas3/authkit/internal/cache"
	"github.com/dropDatabas3/authkit/internal/config"
	"github.com/dropDatabas3/authkit/internal/email"
	mw "github.com/dropDatabas3/authkit/internal/http/v2/middlewares"
	"github.com/dropDatabas3/authkit/internal/http/v2/providers"
	"github.com/dropDatabas3/authkit/internal/http/v2/providers/facebook"
	"github.com/dropDatabas3/authkit/internal/http/v2/providers/github"
	"github.com/dropDatabas3/authkit/internal/http/v2/providers/google"
	"github.com/dropDatabas3/authkit/internal/http/v2/services"
	jwtx "github.com/dropDatabas3/authkit/internal/jwt"
	"github.com/dropDatabas3/authkit/internal/observability/logger"
	"github.com/dropDatabas3/authkit/internal/rate"
	"github.com/dropDatabas3/authkit/internal/security/password"
	"github.com/dropDatabas3/authkit/internal/store"

	// Adapters de persistencia (se registran en init)
	_ "github.com/dropDatabas3/authkit/internal/store/adapters/memory"
	_ "github.com/dropDatabas3/authkit/internal/store/adapters/pg"
)

// Built contiene el handler y las piezas que el proceso necesita para
// bootstrap y shutdown ordenado.
type Built struct {
	Handler  http.Handler
	Services *services.Services
	Store    store.Connection
	Notifier *email.AsyncNotifier
	Codec    *jwtx.Codec
	Hasher   *password.Hasher
	Policy   password.Policy

	closers []func() error
}

// Close espera los emails en vuelo y libera cache y store, en ese orden.
func (b *Built) Close() error {
	if b.Notifier != nil {
		b.Notifier.Wait()
	}
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BuildV2Handler construye todas las dependencias y el handler V2.
func BuildV2Handler(ctx context.Context, cfg config.Config) (*Built, error) {
	log := logger.L().With(logger.Component("wiring"))
	b := &Built{}
	fail := func(err error) (*Built, error) {
		_ = b.Close()
		return nil, err
	}

	// 1. Store
	conn, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	b.Store = conn
	b.closers = append(b.closers, conn.Close)

	if cfg.Database.MigrateOnStart {
		if err := store.Migrate(ctx, conn); err != nil {
			return fail(fmt.Errorf("migrate: %w", err))
		}
		log.Info("migrations applied", logger.String("driver", conn.Name()))
	}

	// 2. Cache
	cc, err := cache.New(ctx, cache.Config{
		Driver:   cfg.Cache.Driver,
		Addr:     cfg.Cache.RedisAddr,
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
		Prefix:   cfg.Cache.Prefix,
	})
	if err != nil {
		return fail(fmt.Errorf("cache: %w", err))
	}
	b.closers = append(b.closers, cc.Close)

	// 3. Rate limiter: redis si hay redis, si no en memoria.
	var limiter rate.Limiter
	if cfg.Rate.Enabled {
		if rc, ok := cc.(*cache.Redis); ok {
			limiter = rate.NewRedisLimiter(rc.Raw(), cfg.Cache.Prefix+":rl", cfg.Rate.MaxRequests, cfg.Rate.Window)
		} else {
			limiter = rate.NewMemoryLimiter(cfg.Rate.MaxRequests, cfg.Rate.Window)
		}
	}

	// 4. Tokens y passwords
	codec, err := jwtx.NewCodec(jwtx.Config{
		Secret:     []byte(cfg.JWT.Secret),
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
		SSOTTL:     cfg.JWT.SSOTTL,
		ResetTTL:   cfg.JWT.ResetTTL,
	})
	if err != nil {
		return fail(fmt.Errorf("jwt codec: %w", err))
	}
	b.Codec = codec
	b.Hasher = password.NewHasher(password.DefaultParams)

	policy, err := BuildPolicy(cfg.Auth)
	if err != nil {
		return fail(err)
	}
	b.Policy = policy

	// 5. Email
	notifier, err := BuildNotifier(cfg)
	if err != nil {
		return fail(err)
	}
	b.Notifier = notifier

	// 6. Social providers
	registry, err := BuildProviders(cfg)
	if err != nil {
		return fail(err)
	}

	// 7. Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := mw.NewMetrics(reg)
	if err != nil {
		return fail(fmt.Errorf("metrics: %w", err))
	}

	// 8. App
	app, err := appv2.New(appv2.Config{
		APIPrefix:         cfg.App.APIPrefix,
		CORSOrigins:       mw.CORSOrigins(cfg.App.Tag, cfg.Server.CORSOrigins),
		WebAppURL:         cfg.App.WebAppURL,
		OpenRegistration:  cfg.Auth.OpenRegistration,
		SSOStateTTL:       cfg.Auth.StateTTL,
		AllowedReturnURLs: cfg.Auth.AllowedReturnURLs,
	}, appv2.Deps{
		Store:     conn,
		Cache:     cc,
		Codec:     codec,
		Hasher:    b.Hasher,
		Policy:    policy,
		Notifier:  notifier,
		Providers: registry,
		Limiter:   limiter,
		Metrics:   metrics,
	})
	if err != nil {
		return fail(fmt.Errorf("build v2 app: %w", err))
	}
	b.Handler = app.Handler
	b.Services = app.Services

	log.Info("v2 handler ready",
		logger.String("store", conn.Name()),
		logger.String("cache", cfg.Cache.Driver),
		logger.Bool("rate_limit", limiter != nil),
		logger.Bool("smtp", cfg.SMTP.Enabled()),
		logger.Any("providers", registry.Enabled()),
	)
	return b, nil
}

// OpenStore conecta el adapter configurado.
func OpenStore(ctx context.Context, cfg config.Config) (store.Connection, error) {
	conn, err := store.Open(ctx, store.AdapterConfig{
		Name:     cfg.Database.Driver,
		DSN:      cfg.Database.DSN,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return conn, nil
}

// BuildPolicy arma la política de passwords. La blacklist es opcional.
func BuildPolicy(cfg config.AuthConfig) (password.Policy, error) {
	p := password.DefaultPolicy
	if cfg.PasswordMinLength > 0 {
		p.MinLength = cfg.PasswordMinLength
	}
	if path := strings.TrimSpace(cfg.PasswordBlacklistPath); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return p, fmt.Errorf("password blacklist: %w", err)
		}
		defer f.Close()
		bl, err := password.ReadBlacklist(f)
		if err != nil {
			return p, fmt.Errorf("password blacklist: %w", err)
		}
		p.Blacklist = bl
	}
	return p, nil
}

// BuildNotifier crea el notifier async. Sin SMTP los envíos se omiten con warning.
func BuildNotifier(cfg config.Config) (*email.AsyncNotifier, error) {
	renderer, err := email.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("email templates: %w", err)
	}
	var sender email.Sender
	if cfg.SMTP.Enabled() {
		sender = NewSMTPSender(cfg)
	} else {
		logger.L().Warn("smtp not configured, emails will be skipped")
	}
	return email.NewAsyncNotifier(sender, renderer, email.NotifierConfig{ProjectName: cfg.App.Name}), nil
}

// NewSMTPSender mapea la config SMTP al sender go-mail.
func NewSMTPSender(cfg config.Config) *email.SMTPSender {
	return email.NewSMTPSender(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromEmail: cfg.SMTP.FromEmail,
		FromName:  cfg.SMTP.FromName,
		TLSMode:   cfg.SMTP.TLSMode,
	})
}

// BuildProviders registra las factories y habilita los providers con
// client id y secret configurados.
func BuildProviders(cfg config.Config) (*providers.Registry, error) {
	reg := providers.NewRegistry()
	reg.RegisterFactory(google.ProviderName, func(c providers.Config) (providers.Provider, error) { return google.New(c) })
	reg.RegisterFactory(github.ProviderName, func(c providers.Config) (providers.Provider, error) { return github.New(c) })
	reg.RegisterFactory(facebook.ProviderName, func(c providers.Config) (providers.Provider, error) { return facebook.New(c) })

	configured := map[string]config.ProviderConfig{
		google.ProviderName:   cfg.Providers.Google,
		github.ProviderName:   cfg.Providers.Github,
		facebook.ProviderName: cfg.Providers.Facebook,
	}
	for name, pc := range configured {
		if !pc.Enabled() {
			continue
		}
		if err := reg.Enable(name, providers.Config{
			ClientID:     pc.ClientID,
			ClientSecret: pc.ClientSecret,
			RedirectURL:  cfg.ProviderRedirectURL(name),
			Scopes:       pc.Scopes,
		}); err != nil {
			return nil, fmt.Errorf("provider %s: %w", name, err)
		}
	}
	return reg, nil
}
