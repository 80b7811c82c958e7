// Package github implements the GitHub OAuth2 provider.
// GitHub no emite id_token: la identidad sale de la API (/user y /user/emails).
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/dropDatabas3/authkit/internal/http/v2/providers"
)

const (
	ProviderName   = "github"
	DefaultAPIBase = "https://api.github.com"
)

var defaultScopes = []string{"read:user", "user:email"}

// Provider implements GitHub OAuth2 authentication.
type Provider struct {
	cfg     providers.Config
	oauth   *oauth2.Config
	apiBase string
}

// New creates a new GitHub provider.
func New(cfg providers.Config) (*Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("github: %w", err)
	}
	endpoint := endpoints.GitHub
	if cfg.Endpoint.TokenURL != "" {
		endpoint = cfg.Endpoint
	}
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = defaultScopes
	}
	apiBase := strings.TrimRight(cfg.APIBaseURL, "/")
	if apiBase == "" {
		apiBase = DefaultAPIBase
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
		apiBase: apiBase,
	}, nil
}

// Factory adapta New a providers.Factory.
func Factory(cfg providers.Config) (providers.Provider, error) { return New(cfg) }

func (p *Provider) Name() string { return ProviderName }

// AuthCodeURL ignora nonce: GitHub no es OIDC, el state alcanza.
func (p *Provider) AuthCodeURL(state, _ string) string {
	return p.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("allow_signup", "true"))
}

type userInfo struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type emailInfo struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (p *Provider) Identity(ctx context.Context, code, _ string) (*providers.Identity, error) {
	ctx = p.cfg.WithHTTPClient(ctx)

	tok, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", providers.ErrExchangeFailed, err)
	}
	client := p.oauth.Client(ctx, tok)

	var u userInfo
	if err := getJSON(ctx, client, p.apiBase+"/user", &u); err != nil {
		return nil, err
	}
	if u.ID == 0 {
		return nil, fmt.Errorf("%w: missing user id", providers.ErrUserInfoFailed)
	}

	// /user sólo trae el email público; el verificado sale de /user/emails.
	var emails []emailInfo
	if err := getJSON(ctx, client, p.apiBase+"/user/emails", &emails); err != nil {
		return nil, err
	}
	addr := primaryVerified(emails)
	if addr == "" {
		if u.Email == "" && len(emails) == 0 {
			return nil, providers.ErrEmailMissing
		}
		return nil, providers.ErrEmailUnverified
	}

	first, last := providers.SplitName(u.Name)
	if first == "" {
		first = u.Login
	}
	return &providers.Identity{
		Provider:      ProviderName,
		ProviderID:    strconv.FormatInt(u.ID, 10),
		Email:         addr,
		EmailVerified: true,
		FirstName:     first,
		LastName:      last,
	}, nil
}

// primaryVerified prefiere el primario verificado, si no el primer verificado.
func primaryVerified(emails []emailInfo) string {
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email
		}
	}
	return ""
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", providers.ErrUserInfoFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: github api status %d", providers.ErrUserInfoFailed, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", providers.ErrUserInfoFailed, err)
	}
	return nil
}
