package oauth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"voting_system/internal/config"
	"voting_system/internal/domain"
)

// Google signs users in with their Google account
type Google struct {
	base
	endpoint string // overrides the userinfo API base, tests only
}

func NewGoogle(client config.OAuthClient, callbackURL string) *Google {
	g := &Google{
		base: newBase(domain.ProviderGoogle, client, callbackURL, google.Endpoint,
			googleoauth2.UserinfoProfileScope, googleoauth2.UserinfoEmailScope),
	}
	// Let users with several Google accounts pick one
	g.opts = []oauth2.AuthCodeOption{oauth2.SetAuthURLParam("prompt", "select_account")}
	return g
}

func (g *Google) Exchange(ctx context.Context, code, verifier string) (domain.Profile, error) {
	tok, err := g.token(ctx, code, verifier)
	if err != nil {
		return domain.Profile{}, err
	}

	opts := []option.ClientOption{option.WithTokenSource(g.config.TokenSource(ctx, tok))}
	if g.endpoint != "" {
		opts = append(opts, option.WithEndpoint(g.endpoint))
	}
	svc, err := googleoauth2.NewService(ctx, opts...)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("google userinfo service: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return domain.Profile{}, fmt.Errorf("google userinfo: %w", err)
	}
	return domain.Profile{
		Provider:    domain.ProviderGoogle,
		ExternalID:  info.Id,
		DisplayName: info.Name,
		Email:       info.Email,
	}, nil
}
