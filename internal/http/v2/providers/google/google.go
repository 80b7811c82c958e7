// Package google implements the Google OIDC provider.
//
// El id_token se verifica contra las JWKS públicas de Google (go-oidc),
// sin discovery al construir.
package google

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/dropDatabas3/authkit/internal/http/v2/providers"
)

const (
	ProviderName = "google"
	Issuer       = "https://accounts.google.com"
	JWKSURL      = "https://www.googleapis.com/oauth2/v3/certs"
)

var defaultScopes = []string{oidc.ScopeOpenID, "email", "profile"}

// Provider implements the Google OIDC authentication flow.
type Provider struct {
	cfg      providers.Config
	oauth    *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

type options struct {
	issuer string
	keySet oidc.KeySet
	now    func() time.Time
}

type Option func(*options)

// WithKeySet reemplaza las JWKS remotas (tests).
func WithKeySet(ks oidc.KeySet) Option { return func(o *options) { o.keySet = ks } }

// WithIssuer cambia el issuer esperado (tests, proxies OIDC).
func WithIssuer(iss string) Option { return func(o *options) { o.issuer = iss } }

// WithNow fija el reloj del verificador.
func WithNow(now func() time.Time) Option { return func(o *options) { o.now = now } }

// New creates a new Google provider.
func New(cfg providers.Config, opts ...Option) (*Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("google: %w", err)
	}
	o := options{issuer: Issuer}
	for _, opt := range opts {
		opt(&o)
	}
	if o.keySet == nil {
		o.keySet = oidc.NewRemoteKeySet(cfg.WithHTTPClient(context.Background()), JWKSURL)
	}

	endpoint := endpoints.Google
	if cfg.Endpoint.TokenURL != "" {
		endpoint = cfg.Endpoint
	}
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = defaultScopes
	}

	return &Provider{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       scopes,
		},
		verifier: oidc.NewVerifier(o.issuer, o.keySet, &oidc.Config{ClientID: cfg.ClientID, Now: o.now}),
	}, nil
}

// Factory adapta New a providers.Factory.
func Factory(cfg providers.Config) (providers.Provider, error) { return New(cfg) }

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// AuthCodeURL builds the Google authorization URL.
func (p *Provider) AuthCodeURL(state, nonce string) string {
	return p.oauth.AuthCodeURL(state, oidc.Nonce(nonce), oauth2.AccessTypeOnline)
}

type idClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}

// Identity canjea el code, verifica el id_token y su nonce.
func (p *Provider) Identity(ctx context.Context, code, nonce string) (*providers.Identity, error) {
	ctx = p.cfg.WithHTTPClient(ctx)

	tok, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", providers.ErrExchangeFailed, err)
	}
	raw, _ := tok.Extra("id_token").(string)
	if raw == "" {
		return nil, fmt.Errorf("%w: missing id_token", providers.ErrIDTokenInvalid)
	}

	idt, err := p.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", providers.ErrIDTokenInvalid, err)
	}
	if nonce != "" && idt.Nonce != nonce {
		return nil, fmt.Errorf("%w: nonce mismatch", providers.ErrIDTokenInvalid)
	}

	var c idClaims
	if err := idt.Claims(&c); err != nil {
		return nil, fmt.Errorf("%w: %v", providers.ErrIDTokenInvalid, err)
	}
	if strings.TrimSpace(c.Email) == "" {
		return nil, providers.ErrEmailMissing
	}
	if !c.EmailVerified {
		return nil, providers.ErrEmailUnverified
	}

	first, last := c.GivenName, c.FamilyName
	if first == "" && last == "" {
		first, last = providers.SplitName(c.Name)
	}
	return &providers.Identity{
		Provider:      ProviderName,
		ProviderID:    idt.Subject,
		Email:         c.Email,
		EmailVerified: true,
		FirstName:     first,
		LastName:      last,
	}, nil
}
