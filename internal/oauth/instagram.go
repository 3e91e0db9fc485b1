package oauth

import (
	"context"
	"net/url"

	"golang.org/x/oauth2"

	"voting_system/internal/config"
	"voting_system/internal/domain"
)

var instagramEndpoint = oauth2.Endpoint{
	AuthURL:   "https://api.instagram.com/oauth/authorize",
	TokenURL:  "https://api.instagram.com/oauth/access_token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// Instagram signs users in through the basic display API. Instagram returns
// no email and no display name, only the username.
type Instagram struct {
	base
	graphURL string
}

func NewInstagram(client config.OAuthClient, callbackURL string) *Instagram {
	return &Instagram{
		base:     newBase(domain.ProviderInstagram, client, callbackURL, instagramEndpoint, "user_profile", "user_media"),
		graphURL: "https://graph.instagram.com",
	}
}

func (i *Instagram) Exchange(ctx context.Context, code, verifier string) (domain.Profile, error) {
	tok, err := i.token(ctx, code, verifier)
	if err != nil {
		return domain.Profile{}, err
	}
	q := url.Values{"fields": {"id,username"}, "access_token": {tok.AccessToken}}
	var me struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	if err := getJSON(ctx, i.config.Client(ctx, tok), i.graphURL+"/me?"+q.Encode(), &me); err != nil {
		return domain.Profile{}, err
	}
	return domain.Profile{
		Provider:    domain.ProviderInstagram,
		ExternalID:  me.ID,
		DisplayName: me.Username,
	}, nil
}
