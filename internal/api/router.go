// Package api holds the HTTP handlers and the router that mounts them.
package api

import (
	"net/http" // HTTP status codes
	"strings"  // URL joining
	"time"     // CORS cache age

	"github.com/gin-contrib/cors"  // CORS middleware
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library

	"voting_system/internal/config"     // Application configuration
	"voting_system/internal/domain"     // Providers
	"voting_system/internal/middleware" // Session and timeout middleware
	"voting_system/internal/oauth"      // Identity providers
	"voting_system/internal/service"    // Core services
)

// Server bundles everything the router mounts
type Server struct {
	Config     *config.Config
	DB         *gorm.DB
	Redis      redis.Cmdable
	Identities *service.IdentityStore
	Sessions   *service.SessionManager
	Catalog    *service.Catalog
	Ledger     *service.Ledger
	Stats      *service.Statistics
	Providers  *oauth.Registry
}

// NewServer wires the services on top of the given stores
func NewServer(cfg *config.Config, db *gorm.DB, rdb redis.Cmdable, providers *oauth.Registry) *Server {
	identities := service.NewIdentityStore(db)
	return &Server{
		Config:     cfg,
		DB:         db,
		Redis:      rdb,
		Identities: identities,
		Sessions:   service.NewSessionManager(rdb, service.NewSessionResolver(identities), cfg.SessionSecret, cfg.SessionTTL),
		Catalog:    service.NewCatalog(db),
		Ledger:     service.NewLedger(db),
		Stats:      service.NewStatistics(db),
		Providers:  providers,
	}
}

// providerPath is where a provider's handshake is mounted. Instagram sits
// outside the API prefix.
func providerPath(prefix string, p domain.Provider) string {
	if p == domain.ProviderInstagram {
		return "/auth/instagram"
	}
	return strings.TrimRight(prefix, "/") + "/auth/" + string(p)
}

// CallbackURL returns the absolute OAuth redirect URL for each provider
func CallbackURL(cfg *config.Config) func(domain.Provider) string {
	return func(p domain.Provider) string {
		return strings.TrimRight(cfg.PublicURL, "/") + providerPath(cfg.Prefix, p) + "/callback"
	}
}

// NewRouter mounts every route on a gin engine
func NewRouter(s *Server) *gin.Engine {
	cfg := s.Config
	r := gin.Default() // Gin router instance with logger and recovery

	// Allow the frontend to call the API with its session cookie
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestTimeout(cfg.RequestTimeout))                   // Bound every store call
	r.Use(middleware.SessionMiddleware(s.Sessions, cfg.SessionCookieName)) // Resolve caller

	r.GET("/health", HealthHandler(s.DB, s.Redis)) // Liveness of both stores

	cookie := CookieSettings{Name: cfg.SessionCookieName, TTL: cfg.SessionTTL, Secure: cfg.IsProd}
	redirects := AuthRedirects{
		Success: strings.TrimRight(cfg.FrontendURL, "/") + "/vote",
		Failure: cfg.LoginFailedURL,
	}

	// OAuth handshakes, only for configured providers
	for _, name := range s.Providers.Names() {
		p, _ := s.Providers.Get(name)
		path := providerPath(cfg.Prefix, name)
		r.GET(path, BeginAuthHandler(p, s.Sessions))
		r.GET(path+"/callback", CallbackHandler(p, s.Identities, s.Sessions, cookie, redirects))
	}

	apiGroup := r.Group(cfg.Prefix) // Routes under the API prefix

	// Session routes
	apiGroup.GET("/auth/user", CurrentUserHandler()) // Current session user
	apiGroup.GET("/logout", LogoutHandler(s.Sessions, cookie))

	// Category routes
	apiGroup.GET("/categories", ListCategoriesHandler(s.Catalog))
	apiGroup.POST("/categories", CreateCategoryHandler(s.Catalog))
	apiGroup.GET("/categories/random", RandomCategoryHandler(s.Catalog))
	apiGroup.PUT("/categories/:id", UpdateCategoryHandler(s.Catalog))
	apiGroup.DELETE("/categories/:id", DeleteCategoryHandler(s.Catalog))

	// Candidate routes
	apiGroup.GET("/categories/:id/candidates", ListCandidatesHandler(s.Catalog))
	apiGroup.POST("/categories/:id/candidates", CreateCandidateHandler(s.Catalog))
	apiGroup.PUT("/categories/:id/candidates/:candidateId", UpdateCandidateHandler(s.Catalog))
	apiGroup.DELETE("/categories/:id/candidates/:candidateId", DeleteCandidateHandler(s.Catalog))

	// Vote routes (session required)
	apiGroup.POST("/votes", SubmitVoteHandler(s.Ledger))
	apiGroup.GET("/votes/check/:categoryId", CheckVoteHandler(s.Ledger))

	// Statistics routes
	apiGroup.GET("/stats", StatsHandler(s.Stats))
	apiGroup.GET("/top-candidate", TopCandidateHandler(s.Stats))
	apiGroup.GET("/bottom-candidate", BottomCandidateHandler(s.Stats))

	return r
}

// HealthHandler reports whether the database and redis answer
func HealthHandler(db *gorm.DB, rdb redis.Cmdable) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx) // Ping database
		}
		if err == nil {
			err = rdb.Ping(ctx).Err() // Ping redis
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
