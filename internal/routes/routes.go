// Package routes wires repositories, services and handlers onto the gin
// engine.
package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripweaver/internal/app/domain/ai"
	"github.com/FACorreiaa/go-tripweaver/internal/app/domain/auth"
	"github.com/FACorreiaa/go-tripweaver/internal/app/domain/compose"
	"github.com/FACorreiaa/go-tripweaver/internal/app/domain/directions"
	"github.com/FACorreiaa/go-tripweaver/internal/app/domain/notebook"
	"github.com/FACorreiaa/go-tripweaver/internal/app/domain/places"
	"github.com/FACorreiaa/go-tripweaver/internal/app/domain/trips"
	"github.com/FACorreiaa/go-tripweaver/internal/app/middleware"
	"github.com/FACorreiaa/go-tripweaver/internal/pkg/config"
)

type AppHandlers struct {
	Auth     *auth.Handler
	Compose  *compose.Handler
	Notebook *notebook.Handler
	Trips    *trips.Handler

	jwtService *auth.JWTService
}

// Setup builds the dependency graph and registers all routes.
func Setup(r *gin.Engine, dbPool *pgxpool.Pool, cfg *config.Config, log *zap.Logger) error {
	handlers, err := setupDependencies(dbPool, cfg, log)
	if err != nil {
		return err
	}
	setupRouter(r, handlers, log)
	return nil
}

func setupDependencies(dbPool *pgxpool.Pool, cfg *config.Config, log *zap.Logger) (*AppHandlers, error) {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       cfg.Auth.JWTSecret,
		TokenExpiration: cfg.Auth.TokenExpiration,
	})

	authRepo := auth.NewPostgresRepository(dbPool, log)
	authService := auth.NewService(authRepo, jwtService, log)

	tripsRepo := trips.NewRepository(dbPool, log)
	tripsService := trips.NewService(tripsRepo, log)

	sessions := notebook.NewManager(tripsService, cfg.Notebook.AutosaveDebounce, cfg.Notebook.SessionTTL, log)

	completer, err := ai.NewCompleter(context.Background(), cfg.LLM, log)
	if err != nil {
		return nil, err
	}

	placeProvider := places.NewGoogleProvider(cfg.GoogleMaps.APIKey, cfg.GoogleMaps.LookupCacheTTL, log)
	enricher := places.NewEnricher(placeProvider, cfg.Notebook.EnrichDistanceKm, log)
	routeCalculator := directions.NewGoogleCalculator(cfg.GoogleMaps.APIKey, log)

	composeService := compose.NewService(completer, enricher, routeCalculator, log)

	return &AppHandlers{
		Auth:       auth.NewHandler(authService, log),
		Compose:    compose.NewHandler(composeService, sessions, log),
		Notebook:   notebook.NewHandler(sessions, log),
		Trips:      trips.NewHandler(tripsService, log),
		jwtService: jwtService,
	}, nil
}

func setupRouter(r *gin.Engine, h *AppHandlers, log *zap.Logger) {
	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/logout", h.Auth.Logout)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(h.jwtService))
	{
		protected.GET("/auth/me", h.Auth.Me)
		protected.POST("/itineraries/generate", h.Compose.Generate)

		itineraries := protected.Group("/itineraries")
		{
			itineraries.GET("", h.Trips.List)
			itineraries.GET("/:id", h.Trips.Get)
			itineraries.DELETE("/:id", h.Trips.Delete)
		}

		nb := protected.Group("/notebook")
		{
			nb.GET("", h.Notebook.GetState)
			nb.DELETE("", h.Notebook.Clear)
			nb.POST("/load/:id", h.Notebook.LoadItinerary)
			nb.PUT("/editor-data", h.Notebook.UpdateEditorData)
			nb.PUT("/directions", h.Notebook.SetDirections)
			nb.PUT("/metadata", h.Notebook.SetMetadata)
			nb.POST("/select-place", h.Notebook.SelectPlace)
			nb.POST("/save", h.Notebook.Save)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		log.Debug("Route not found",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method))
		c.JSON(404, gin.H{"error": "not found"})
	})
}
