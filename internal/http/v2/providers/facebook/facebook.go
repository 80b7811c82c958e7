// Package facebook implements the Facebook OAuth2 provider (Graph API).
package facebook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/dropDatabas3/authkit/internal/http/v2/providers"
)

const (
	ProviderName     = "facebook"
	DefaultGraphBase = "https://graph.facebook.com"
)

var defaultScopes = []string{"email", "public_profile"}

type Provider struct {
	cfg       providers.Config
	oauth     *oauth2.Config
	graphBase string
}

func New(cfg providers.Config) (*Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("facebook: %w", err)
	}
	endpoint := endpoints.Facebook
	if cfg.Endpoint.TokenURL != "" {
		endpoint = cfg.Endpoint
	}
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = defaultScopes
	}
	base := strings.TrimRight(cfg.APIBaseURL, "/")
	if base == "" {
		base = DefaultGraphBase
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
		graphBase: base,
	}, nil
}

func Factory(cfg providers.Config) (providers.Provider, error) { return New(cfg) }

func (p *Provider) Name() string { return ProviderName }

func (p *Provider) AuthCodeURL(state, _ string) string {
	return p.oauth.AuthCodeURL(state)
}

type meResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Identity canjea el code y consulta /me. Facebook sólo expone emails confirmados.
func (p *Provider) Identity(ctx context.Context, code, _ string) (*providers.Identity, error) {
	ctx = p.cfg.WithHTTPClient(ctx)

	tok, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", providers.ErrExchangeFailed, err)
	}

	q := url.Values{"fields": {"id,email,first_name,last_name"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.graphBase+"/me?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.oauth.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", providers.ErrUserInfoFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: graph status %d", providers.ErrUserInfoFailed, resp.StatusCode)
	}

	var me meResponse
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", providers.ErrUserInfoFailed, err)
	}
	if me.ID == "" {
		return nil, fmt.Errorf("%w: missing id", providers.ErrUserInfoFailed)
	}
	if me.Email == "" {
		return nil, providers.ErrEmailMissing
	}
	return &providers.Identity{
		Provider:      ProviderName,
		ProviderID:    me.ID,
		Email:         me.Email,
		EmailVerified: true,
		FirstName:     me.FirstName,
		LastName:      me.LastName,
	}, nil
}
