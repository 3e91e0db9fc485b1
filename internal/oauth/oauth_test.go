package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"voting_system/internal/config"
	"voting_system/internal/domain"
)

var testClient = config.OAuthClient{ClientID: "client-id", ClientSecret: "client-secret"}

// fakeIdP serves a token endpoint plus the given resource handlers
type fakeIdP struct {
	*httptest.Server
	tokenForm url.Values
}

func newFakeIdP(t *testing.T, routes map[string]any) *fakeIdP {
	t.Helper()
	f := &fakeIdP{}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		f.tokenForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "access-123", "token_type": "bearer"})
	})
	for path, body := range routes {
		body := body
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer access-123" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(body)
		})
	}
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeIdP) endpoint() oauth2.Endpoint {
	return oauth2.Endpoint{AuthURL: f.URL + "/authorize", TokenURL: f.URL + "/token", AuthStyle: oauth2.AuthStyleInParams}
}

func TestGitHubExchange(t *testing.T) {
	idp := newFakeIdP(t, map[string]any{
		"/user": map[string]any{"id": 42, "login": "octo", "name": ""},
		"/user/emails": []map[string]any{
			{"email": "old@example.com", "primary": false, "verified": true},
			{"email": "octo@example.com", "primary": true, "verified": true},
		},
	})
	gh := NewGitHub(testClient, "http://app/api/auth/github/callback")
	gh.config.Endpoint = idp.endpoint()
	gh.apiURL = idp.URL

	profile, err := gh.Exchange(context.Background(), "code-1", "")
	require.NoError(t, err)
	assert.Equal(t, domain.Profile{
		Provider:    domain.ProviderGitHub,
		ExternalID:  "42",
		DisplayName: "octo",
		Email:       "octo@example.com",
	}, profile)
	assert.Equal(t, "code-1", idp.tokenForm.Get("code"))
	assert.Empty(t, idp.tokenForm.Get("code_verifier"))
}

func TestGoogleExchange(t *testing.T) {
	idp := newFakeIdP(t, map[string]any{
		"/oauth2/v2/userinfo": map[string]any{"id": "g-1", "name": "Gina", "email": "gina@example.com"},
	})
	g := NewGoogle(testClient, "http://app/api/auth/google/callback")
	g.config.Endpoint = idp.endpoint()
	g.endpoint = idp.URL + "/"

	profile, err := g.Exchange(context.Background(), "code", "")
	require.NoError(t, err)
	assert.Equal(t, domain.Profile{
		Provider:    domain.ProviderGoogle,
		ExternalID:  "g-1",
		DisplayName: "Gina",
		Email:       "gina@example.com",
	}, profile)

	u, err := url.Parse(g.AuthCodeURL("s", ""))
	require.NoError(t, err)
	assert.Equal(t, "select_account", u.Query().Get("prompt"))
}

func TestFacebookExchange(t *testing.T) {
	idp := newFakeIdP(t, map[string]any{
		"/me": map[string]any{"id": "fb-1", "name": "Fay", "email": "fay@example.com"},
	})
	fb := NewFacebook(testClient, "http://app/api/auth/facebook/callback")
	fb.config.Endpoint = idp.endpoint()
	fb.graphURL = idp.URL

	profile, err := fb.Exchange(context.Background(), "code", "")
	require.NoError(t, err)
	assert.Equal(t, "fb-1", profile.ExternalID)
	assert.Equal(t, "Fay", profile.DisplayName)
	assert.Equal(t, "fay@example.com", profile.Email)
}

func TestTwitterUsesPKCE(t *testing.T) {
	idp := newFakeIdP(t, map[string]any{
		"/2/users/me": map[string]any{"data": map[string]any{"id": "tw-7", "name": "", "username": "birdie"}},
	})
	tw := NewTwitter(testClient, "http://app/api/auth/twitter/callback")
	tw.config.Endpoint = idp.endpoint()
	tw.apiURL = idp.URL
	require.True(t, tw.UsesPKCE())

	verifier := oauth2.GenerateVerifier()
	authURL, err := url.Parse(tw.AuthCodeURL("state-1", verifier))
	require.NoError(t, err)
	assert.Equal(t, "S256", authURL.Query().Get("code_challenge_method"))
	assert.Equal(t, oauth2.S256ChallengeFromVerifier(verifier), authURL.Query().Get("code_challenge"))
	assert.Equal(t, "state-1", authURL.Query().Get("state"))

	profile, err := tw.Exchange(context.Background(), "code", verifier)
	require.NoError(t, err)
	assert.Equal(t, verifier, idp.tokenForm.Get("code_verifier"))
	assert.Equal(t, domain.Profile{Provider: domain.ProviderTwitter, ExternalID: "tw-7", DisplayName: "birdie"}, profile)
}

func TestInstagramExchange(t *testing.T) {
	idp := newFakeIdP(t, map[string]any{
		"/me": map[string]any{"id": "ig-3", "username": "snapper"},
	})
	ig := NewInstagram(testClient, "http://app/auth/instagram/callback")
	ig.config.Endpoint = idp.endpoint()
	ig.graphURL = idp.URL

	profile, err := ig.Exchange(context.Background(), "code", "")
	require.NoError(t, err)
	assert.Equal(t, "ig-3", profile.ExternalID)
	assert.Equal(t, "snapper", profile.DisplayName)
	assert.Empty(t, profile.Email)
}

func TestExchangeProfileFailure(t *testing.T) {
	idp := newFakeIdP(t, map[string]any{})
	gh := NewGitHub(testClient, "cb")
	gh.config.Endpoint = idp.endpoint()
	gh.apiURL = idp.URL

	_, err := gh.Exchange(context.Background(), "code", "")
	assert.ErrorContains(t, err, "status 404")
}

func TestAuthCodeURLWithoutPKCE(t *testing.T) {
	gh := NewGitHub(testClient, "http://app/api/auth/github/callback")
	u, err := url.Parse(gh.AuthCodeURL("abc", ""))
	require.NoError(t, err)

	assert.Equal(t, "github.com", u.Host)
	assert.Equal(t, "client-id", u.Query().Get("client_id"))
	assert.Equal(t, "http://app/api/auth/github/callback", u.Query().Get("redirect_uri"))
	assert.Equal(t, "user:email", u.Query().Get("scope"))
	assert.Empty(t, u.Query().Get("code_challenge"))
}

func TestFromConfig(t *testing.T) {
	cfg := &config.Config{GitHub: testClient, Instagram: testClient}
	var asked []domain.Provider
	r := FromConfig(cfg, func(p domain.Provider) string {
		asked = append(asked, p)
		return "http://app/" + string(p)
	})

	assert.Equal(t, []domain.Provider{domain.ProviderGitHub, domain.ProviderInstagram}, r.Names())
	assert.Equal(t, []domain.Provider{domain.ProviderGitHub, domain.ProviderInstagram}, asked)
	_, ok := r.Get(domain.ProviderGoogle)
	assert.False(t, ok)
	p, ok := r.Get(domain.ProviderInstagram)
	require.True(t, ok)
	assert.Equal(t, domain.ProviderInstagram, p.Name())
}
