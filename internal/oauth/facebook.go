package oauth

import (
	"context"

	"golang.org/x/oauth2/facebook"

	"voting_system/internal/config"
	"voting_system/internal/domain"
)

// Facebook signs users in with their Facebook account
type Facebook struct {
	base
	graphURL string
}

func NewFacebook(client config.OAuthClient, callbackURL string) *Facebook {
	return &Facebook{
		base:     newBase(domain.ProviderFacebook, client, callbackURL, facebook.Endpoint, "email"),
		graphURL: "https://graph.facebook.com",
	}
}

func (f *Facebook) Exchange(ctx context.Context, code, verifier string) (domain.Profile, error) {
	tok, err := f.token(ctx, code, verifier)
	if err != nil {
		return domain.Profile{}, err
	}
	var me struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := getJSON(ctx, f.config.Client(ctx, tok), f.graphURL+"/me?fields=id,name,email", &me); err != nil {
		return domain.Profile{}, err
	}
	return domain.Profile{
		Provider:    domain.ProviderFacebook,
		ExternalID:  me.ID,
		DisplayName: me.Name,
		Email:       me.Email,
	}, nil
}
