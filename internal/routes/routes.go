package routes

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baigrayyan/music-recommender/internal/config"
	"github.com/baigrayyan/music-recommender/internal/handlers"
	"github.com/baigrayyan/music-recommender/internal/logger"
	"github.com/baigrayyan/music-recommender/internal/middleware"
	"github.com/baigrayyan/music-recommender/internal/services"
	"github.com/baigrayyan/music-recommender/internal/web"
)

var devOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3001",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:3001",
	"http://127.0.0.1:5173",
}

func corsConfig(cfg *config.Config) (cors.Config, error) {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if cfg.IsProduction() {
		if cfg.CORSOrigin == "" {
			return corsCfg, errors.New("CORS_ORIGIN must be set in production")
		}
		corsCfg.AllowOrigins = []string{cfg.CORSOrigin}
		logger.Info().Str("origin", cfg.CORSOrigin).Msg("CORS configured for production")
		return corsCfg, nil
	}

	allowed := append([]string(nil), devOrigins...)
	if cfg.CORSOrigin != "" {
		allowed = append(allowed, cfg.CORSOrigin)
	}
	corsCfg.AllowOriginFunc = func(origin string) bool {
		for _, a := range allowed {
			if origin == a {
				return true
			}
		}
		// local network during development
		return strings.HasPrefix(origin, "http://192.168.") || strings.HasPrefix(origin, "http://10.")
	}
	logger.Info().Int("origins", len(allowed)).Msg("CORS configured for development")
	return corsCfg, nil
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		// the page carries its stylesheet inline
		c.Header("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'")
		c.Next()
	}
}

func SetupRoutes(
	cfg *config.Config,
	recommendationHandler *handlers.RecommendationHandler,
	songHandler *handlers.SongHandler,
	adminHandler *handlers.AdminHandler,
	authService services.AuthService,
	limiter *middleware.RateLimiter,
) (*gin.Engine, error) {
	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())

	corsCfg, err := corsConfig(cfg)
	if err != nil {
		return nil, err
	}
	router.Use(cors.New(corsCfg))
	router.Use(securityHeaders())

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	// =========================
	// PAGE
	// =========================
	router.GET("/", recommendationHandler.Index)
	router.POST("/recommend", limiter.Middleware(), recommendationHandler.RecommendForm)

	// =========================
	// API ROUTES
	// =========================
	api := router.Group("/api")
	api.Use(limiter.Middleware())
	{
		api.GET("/recommendations", recommendationHandler.GetRecommendations)
		api.GET("/songs/search", songHandler.SearchSongs)
		api.GET("/clusters/:cluster", songHandler.GetClusterSongs)
		api.GET("/dataset", songHandler.GetDatasetInfo)

		auth := api.Group("/auth")
		{
			auth.POST("/login", adminHandler.Login)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.JWTMiddleware(authService))
		{
			admin.POST("/dataset/reload", adminHandler.ReloadDataset)
			admin.POST("/dataset/import", adminHandler.ImportDataset)
		}
	}

	// =========================
	// HEALTH & METRICS
	// =========================
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": "Server is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router, nil
}
