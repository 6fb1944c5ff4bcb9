package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

type ServerOptions struct {
	APIAccessKey   string
	AllowedOrigins []string
	UploadsDir     string
	Version        string
}

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler, opts ServerOptions) *gin.Engine {
	// Set Gin mode (can be controlled via GIN_MODE environment variable)
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Middleware
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\" %s\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
				param.Request.Header.Get(RequestIDHeader),
			)
		},
	}))

	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	if opts.UploadsDir != "" {
		r.Static("/uploads", opts.UploadsDir)
	}

	// Routes
	setupRoutes(r, handler, opts)

	return r
}

func corsConfig(allowedOrigins []string) cors.Config {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-Key", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	if len(allowedOrigins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = allowedOrigins
	}

	return config
}

// setupRoutes configures all the application routes
func setupRoutes(r *gin.Engine, handler *Handler, opts ServerOptions) {
	r.GET("/health", handler.GetHealth)
	r.GET("/feed.xml", handler.GetFeed)

	r.GET("/home", handler.GetHome)
	r.GET("/news", handler.ListNews)
	r.GET("/news/:slug", handler.GetNews)
	r.GET("/categories", handler.ListCategories)
	r.GET("/banners", handler.ListActiveBanners)
	r.GET("/banners/:position", handler.GetBannerForPosition)
	r.GET("/site", handler.GetSite)

	// API endpoints (conditionally enabled with authentication)
	if opts.APIAccessKey != "" {
		api := r.Group("/api")
		api.Use(authMiddleware(opts.APIAccessKey))
		{
			api.GET("/news", handler.ListNews)
			api.GET("/news/:id", handler.APIGetNews)
			api.POST("/news", handler.APICreateNews)
			api.PUT("/news/:id", handler.APIUpdateNews)
			api.DELETE("/news/:id", handler.APIDeleteNews)
			api.POST("/news/import", handler.APIImportNews)

			api.GET("/banners", handler.APIListBanners)
			api.GET("/banners/:id", handler.APIGetBanner)
			api.POST("/banners", handler.APICreateBanner)
			api.PUT("/banners/:id", handler.APIUpdateBanner)
			api.PATCH("/banners/:id/toggle", handler.APIToggleBanner)
			api.DELETE("/banners/:id", handler.APIDeleteBanner)
			api.POST("/banners/refresh", handler.APIRefreshBanners)
			api.GET("/banner-slots", handler.APIListBannerSlots)

			api.POST("/assets", handler.APIUploadAsset)
			api.DELETE("/assets", handler.APIDeleteAsset)

			api.GET("/stats/views", handler.APIGetViewStats)
			api.GET("/stats/most-viewed", handler.APIGetMostViewed)
			api.GET("/stats/daily", handler.APIGetDailyViews)
			api.GET("/stats/news/:id/views", handler.APIGetArticleViews)

			api.GET("/settings", handler.APIGetSettings)
			api.PUT("/settings", handler.APIUpdateSettings)
		}
		slog.Info("API endpoints enabled with authentication")
	} else {
		slog.Info("API endpoints disabled (API_ACCESS_KEY not set)")
	}

	// Root endpoint with basic information
	r.GET("/", func(c *gin.Context) {
		endpoints := map[string]string{
			"home":       "/home",
			"news":       "/news",
			"article":    "/news/<slug>",
			"categories": "/categories",
			"banners":    "/banners",
			"site":       "/site",
			"feed":       "/feed.xml",
			"health":     "/health",
		}

		if opts.APIAccessKey != "" {
			endpoints["admin"] = "/api/* (requires X-API-Key header)"
		}

		c.JSON(http.StatusOK, gin.H{
			"service":     "Impacto Diário",
			"version":     opts.Version,
			"description": "News portal backend: articles, banners, view statistics",
			"endpoints":   endpoints,
			"api_status": map[string]interface{}{
				"enabled":       opts.APIAccessKey != "",
				"auth_required": opts.APIAccessKey != "",
				"header":        "X-API-Key",
			},
		})
	})

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}

// requestIDMiddleware echoes the caller's request id, or assigns one, so
// clients can match responses to the requests they still care about.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
			c.Request.Header.Set(RequestIDHeader, requestID)
		}

		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// authMiddleware creates authentication middleware for API endpoints
func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedKey := c.GetHeader("X-API-Key")

		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "API key required",
				"message": "Provide API key in X-API-Key header or Authorization: Bearer <key>",
			})
			c.Abort()
			return
		}

		if providedKey != apiAccessKey {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid API key",
				"message": "The provided API key is not valid",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
