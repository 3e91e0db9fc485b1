package api

import (
	"net/http" // HTTP status codes
	"time"     // Cookie lifetime

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
	"golang.org/x/oauth2"        // PKCE verifier generation

	"voting_system/internal/domain"     // Users and providers
	"voting_system/internal/middleware" // Resolved caller
	"voting_system/internal/oauth"      // Identity providers
	"voting_system/internal/service"    // Identity store and sessions
)

// CookieSettings controls the session cookie written after login
type CookieSettings struct {
	Name   string        // Cookie name
	TTL    time.Duration // Cookie lifetime
	Secure bool          // Only send over HTTPS
}

// AuthRedirects are the frontend URLs the OAuth callback sends the browser to
type AuthRedirects struct {
	Success string // After a completed login
	Failure string // After a refused or failed login
}

// UserResponse is the public view of a signed-in user
type UserResponse struct {
	ID          uint                       `json:"id"`           // User ID
	Name        string                     `json:"name"`         // Display name
	Email       *string                    `json:"email"`        // Optional email
	ProviderIDs map[domain.Provider]string `json:"provider_ids"` // External id per linked provider
	CreatedAt   time.Time                  `json:"created_at"`   // Timestamp of creation
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		ProviderIDs: u.ProviderIDs(),
		CreatedAt:   u.CreatedAt,
	}
}

// BeginAuthHandler starts the OAuth handshake by redirecting to the provider
func BeginAuthHandler(p oauth.Provider, sessions *service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := service.OAuthState{Provider: p.Name()} // Handshake to remember until the callback
		if p.UsesPKCE() {
			st.Verifier = oauth2.GenerateVerifier() // Fresh verifier per handshake
		}
		state, err := sessions.SaveState(c.Request.Context(), st)
		if err != nil {
			respondError(c, err) // Session store unavailable
			return
		}
		c.Redirect(http.StatusFound, p.AuthCodeURL(state, st.Verifier)) // Send browser to provider
	}
}

// CallbackHandler completes the handshake, signs the user in and redirects to the frontend
func CallbackHandler(p oauth.Provider, identities *service.IdentityStore, sessions *service.SessionManager, cookie CookieSettings, redirects AuthRedirects) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context() // Request-scoped context with deadline
		fail := func(reason string, err error) {
			fields := logrus.Fields{"provider": p.Name(), "reason": reason}
			if err != nil {
				fields["error"] = err.Error()
			}
			logrus.WithFields(fields).Warn("Login failed")  // Log refused login
			c.Redirect(http.StatusFound, redirects.Failure) // Back to the login page
		}

		// Provider reported an error, e.g. the user denied access
		if e := c.Query("error"); e != "" {
			fail(e, nil)
			return
		}
		st, found, err := sessions.TakeState(ctx, c.Query("state"))
		if err != nil {
			fail("state lookup", err)
			return
		}
		// Unknown, replayed or foreign state
		if !found || st.Provider != p.Name() {
			fail("invalid state", nil)
			return
		}
		code := c.Query("code") // Authorization code
		if code == "" {
			fail("missing code", nil)
			return
		}
		profile, err := p.Exchange(ctx, code, st.Verifier)
		if err != nil {
			fail("exchange", err)
			return
		}
		user, err := identities.ResolveOrCreateUser(ctx, profile)
		if err != nil {
			fail("resolve user", err)
			return
		}
		token, err := sessions.Create(ctx, user)
		if err != nil {
			fail("create session", err)
			return
		}
		c.SetSameSite(http.SameSiteLaxMode) // Cookie must survive the provider redirect
		c.SetCookie(cookie.Name, token, int(cookie.TTL.Seconds()), "/", "", cookie.Secure, true)
		logrus.WithFields(logrus.Fields{
			"provider": p.Name(),
			"user_id":  user.ID,
		}).Info("User logged in")
		c.Redirect(http.StatusFound, redirects.Success) // Into the app
	}
}

// CurrentUserHandler returns the signed-in user or 401 with a null user
func CurrentUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.CurrentCaller(c) // Get caller from context
		if !caller.Authenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{"user": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": newUserResponse(caller.User)})
	}
}

// LogoutHandler destroys the session and clears its cookie
func LogoutHandler(sessions *service.SessionManager, cookie CookieSettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(cookie.Name) // Missing cookie is a no-op logout
		if err := sessions.Destroy(c.Request.Context(), token); err != nil {
			logrus.WithFields(logrus.Fields{"error": err.Error()}).Error("Logout failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookie.Name, "", -1, "/", "", cookie.Secure, true) // Expire cookie
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}
