// Package oauth wraps the identity providers users sign in with. Each provider
// runs the authorization code flow through golang.org/x/oauth2 and reduces the
// provider's user endpoint to a domain.Profile.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"golang.org/x/oauth2"

	"voting_system/internal/config"
	"voting_system/internal/domain"
)

// Provider is one identity service
type Provider interface {
	Name() domain.Provider
	// UsesPKCE reports whether AuthCodeURL and Exchange need a code verifier
	UsesPKCE() bool
	AuthCodeURL(state, verifier string) string
	Exchange(ctx context.Context, code, verifier string) (domain.Profile, error)
}

// base holds the oauth2 plumbing shared by all providers
type base struct {
	name   domain.Provider
	config *oauth2.Config
	pkce   bool
	opts   []oauth2.AuthCodeOption
}

func newBase(name domain.Provider, client config.OAuthClient, callbackURL string, endpoint oauth2.Endpoint, scopes ...string) base {
	return base{
		name: name,
		config: &oauth2.Config{
			ClientID:     client.ClientID,
			ClientSecret: client.ClientSecret,
			RedirectURL:  callbackURL,
			Endpoint:     endpoint,
			Scopes:       scopes,
		},
	}
}

func (b *base) Name() domain.Provider { return b.name }

func (b *base) UsesPKCE() bool { return b.pkce }

func (b *base) AuthCodeURL(state, verifier string) string {
	opts := append([]oauth2.AuthCodeOption{}, b.opts...)
	if b.pkce {
		opts = append(opts, oauth2.S256ChallengeOption(verifier))
	}
	return b.config.AuthCodeURL(state, opts...)
}

// token trades the callback code for an access token
func (b *base) token(ctx context.Context, code, verifier string) (*oauth2.Token, error) {
	var opts []oauth2.AuthCodeOption
	if b.pkce {
		opts = append(opts, oauth2.VerifierOption(verifier))
	}
	tok, err := b.config.Exchange(ctx, code, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s token exchange: %w", b.name, err)
	}
	return tok, nil
}

// getJSON fetches url with the token-bearing client and decodes the body into dst
func getJSON(ctx context.Context, client *http.Client, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// Registry holds the configured providers
type Registry struct {
	providers map[domain.Provider]Provider
}

func NewRegistry() *Registry {
	return &Registry{providers: map[domain.Provider]Provider{}}
}

// FromConfig registers every provider that has a client id. callbackURL
// returns the redirect URL the provider sends the user back to.
func FromConfig(cfg *config.Config, callbackURL func(domain.Provider) string) *Registry {
	r := NewRegistry()
	if cfg.GitHub.Enabled() {
		r.Register(NewGitHub(cfg.GitHub, callbackURL(domain.ProviderGitHub)))
	}
	if cfg.Google.Enabled() {
		r.Register(NewGoogle(cfg.Google, callbackURL(domain.ProviderGoogle)))
	}
	if cfg.Facebook.Enabled() {
		r.Register(NewFacebook(cfg.Facebook, callbackURL(domain.ProviderFacebook)))
	}
	if cfg.Twitter.Enabled() {
		r.Register(NewTwitter(cfg.Twitter, callbackURL(domain.ProviderTwitter)))
	}
	if cfg.Instagram.Enabled() {
		r.Register(NewInstagram(cfg.Instagram, callbackURL(domain.ProviderInstagram)))
	}
	return r
}

func (r *Registry) Register(p Provider) {
	r.providers[p.Name()] = p
}

func (r *Registry) Get(name domain.Provider) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// Names lists the registered providers in a stable order
func (r *Registry) Names() []domain.Provider {
	names := make([]domain.Provider, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
