package oauth

import (
	"context"

	"golang.org/x/oauth2"

	"voting_system/internal/config"
	"voting_system/internal/domain"
)

var twitterEndpoint = oauth2.Endpoint{
	AuthURL:   "https://twitter.com/i/oauth2/authorize",
	TokenURL:  "https://api.twitter.com/2/oauth2/token",
	AuthStyle: oauth2.AuthStyleInHeader,
}

// Twitter signs users in through OAuth 2.0 with PKCE. Twitter never shares
// the account email.
type Twitter struct {
	base
	apiURL string
}

func NewTwitter(client config.OAuthClient, callbackURL string) *Twitter {
	t := &Twitter{
		base:   newBase(domain.ProviderTwitter, client, callbackURL, twitterEndpoint, "tweet.read", "users.read", "offline.access"),
		apiURL: "https://api.twitter.com",
	}
	t.pkce = true
	return t
}

func (t *Twitter) Exchange(ctx context.Context, code, verifier string) (domain.Profile, error) {
	tok, err := t.token(ctx, code, verifier)
	if err != nil {
		return domain.Profile{}, err
	}
	var me struct {
		Data struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Username string `json:"username"`
		} `json:"data"`
	}
	if err := getJSON(ctx, t.config.Client(ctx, tok), t.apiURL+"/2/users/me", &me); err != nil {
		return domain.Profile{}, err
	}
	name := me.Data.Name
	if name == "" {
		name = me.Data.Username
	}
	return domain.Profile{
		Provider:    domain.ProviderTwitter,
		ExternalID:  me.Data.ID,
		DisplayName: name,
	}, nil
}
