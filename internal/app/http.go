package app

import (
	"context"
	"fmt"
	"net/http"

	"oauth-backend/internal/auth/credentials"
	"oauth-backend/internal/auth/handler"
	"oauth-backend/internal/auth/provider"
	"oauth-backend/internal/auth/provider/facebook"
	"oauth-backend/internal/auth/provider/github"
	"oauth-backend/internal/auth/provider/google"
	"oauth-backend/internal/auth/reconciler"
	"oauth-backend/internal/auth/token"
	"oauth-backend/internal/config"
	"oauth-backend/internal/logger"
	"oauth-backend/internal/middleware"
	"oauth-backend/internal/ratelimit"
	"oauth-backend/internal/session"
	"oauth-backend/internal/user"

	"github.com/gin-gonic/gin"
)

// Deps are the infrastructure-backed collaborators of the router.
type Deps struct {
	Users     user.Store
	Sessions  session.Store
	Limiter   ratelimit.Limiter
	Providers *provider.Registry
}

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {
	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	registry, err := buildRegistry(ctx, cfg)
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	router, err := newRouter(cfg, Deps{
		Users:     user.NewGormStore(infra.DB),
		Sessions:  infra.sessionStore(),
		Limiter:   infra.limiter(cfg),
		Providers: registry,
	})
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	return router, infra.Close, nil
}

// buildRegistry registers every provider that has credentials configured.
func buildRegistry(ctx context.Context, cfg config.Config) (*provider.Registry, error) {
	var list []provider.OAuthProvider

	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		p, err := google.New(ctx, google.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
		})
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	if cfg.GitHubClientID != "" && cfg.GitHubClientSecret != "" {
		p, err := github.New(github.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  cfg.GitHubRedirectURL,
		})
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	if cfg.FacebookClientID != "" && cfg.FacebookClientSecret != "" {
		p, err := facebook.New(facebook.Config{
			ClientID:     cfg.FacebookClientID,
			ClientSecret: cfg.FacebookClientSecret,
			RedirectURL:  cfg.FacebookRedirectURL,
		})
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	registry := provider.NewRegistry(list...)
	if len(list) == 0 {
		logger.Warn("no oauth providers configured", nil)
	} else {
		logger.Info("oauth providers configured", map[string]any{"providers": registry.Names()})
	}
	return registry, nil
}

func newRouter(cfg config.Config, deps Deps) (*gin.Engine, error) {
	hasher, err := credentials.NewBcryptHasher(cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	tokens, err := token.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	if err != nil {
		return nil, err
	}

	cookie := session.CookieOptions{
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}

	authHandler := handler.NewHandler(handler.Deps{
		Providers:   deps.Providers,
		Sessions:    deps.Sessions,
		Reconciler:  reconciler.New(deps.Users, hasher),
		Credentials: credentials.NewService(deps.Users, hasher),
		Users:       deps.Users,
		Tokens:      tokens,
	}, handler.Options{
		FrontendURL:     cfg.FrontendURL,
		FailureRedirect: cfg.FailureRedirect,
		SessionTTL:      cfg.SessionTTL,
		Cookie:          cookie,
	})

	authMiddleware := middleware.NewAuthMiddleware(deps.Sessions, cookie, tokens)

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("app: trusted proxies: %w", err)
	}

	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(),
		middleware.Adapt(middleware.SecureHeaders(cfg.CookieSecure)),
		middleware.Adapt(middleware.CORS(cfg.FrontendURL)),
		middleware.RateLimit(deps.Limiter),
		middleware.Adapt(middleware.CSRF(middleware.CSRFConfig{
			AuthKey:        []byte(cfg.CSRFAuthKey),
			Secure:         cfg.CookieSecure,
			TrustedOrigins: []string{cfg.FrontendURL},
		})),
	)

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Welcome to the OAuth Backend")
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler.RegisterRoutes(router, middleware.GinRequireAuth(authMiddleware))

	return router, nil
}
