package oauth

import (
	"context"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"voting_system/internal/config"
	"voting_system/internal/domain"
)

// GitHub signs users in with their GitHub account
type GitHub struct {
	base
	apiURL string
}

func NewGitHub(client config.OAuthClient, callbackURL string) *GitHub {
	return &GitHub{
		base:   newBase(domain.ProviderGitHub, client, callbackURL, github.Endpoint, "user:email"),
		apiURL: "https://api.github.com",
	}
}

type githubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (g *GitHub) Exchange(ctx context.Context, code, verifier string) (domain.Profile, error) {
	tok, err := g.token(ctx, code, verifier)
	if err != nil {
		return domain.Profile{}, err
	}
	return g.profile(ctx, tok)
}

func (g *GitHub) profile(ctx context.Context, tok *oauth2.Token) (domain.Profile, error) {
	client := g.config.Client(ctx, tok)

	var u githubUser
	if err := getJSON(ctx, client, g.apiURL+"/user", &u); err != nil {
		return domain.Profile{}, err
	}
	name := u.Name
	if name == "" {
		name = u.Login
	}
	email := u.Email
	if email == "" {
		// Private emails only show up on the emails endpoint
		var emails []githubEmail
		if err := getJSON(ctx, client, g.apiURL+"/user/emails", &emails); err == nil {
			for _, e := range emails {
				if e.Primary && e.Verified {
					email = e.Email
					break
				}
			}
		}
	}
	return domain.Profile{
		Provider:    domain.ProviderGitHub,
		ExternalID:  strconv.FormatInt(u.ID, 10),
		DisplayName: name,
		Email:       email,
	}, nil
}
