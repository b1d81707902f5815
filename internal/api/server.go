// Package api serves the trait feed and tour programs as JSON over HTTP.
package api

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/abelbrown/tourfeed/internal/logging"
	"github.com/gin-gonic/gin"
)

// ServerConfig holds server configuration options.
type ServerConfig struct {
	Addr         string
	APIKey       string // empty disables auth
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         ":8080",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// NewServer creates the gin engine with all routes configured.
func NewServer(handler *Handler, apiKey string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output: logging.Writer(),
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))
	r.Use(gin.Recovery())
	r.Use(cors())

	r.GET("/health", handler.HealthCheck)

	api := r.Group("/api")
	if apiKey != "" {
		api.Use(requireKey(apiKey))
	}
	{
		api.GET("/profiles", handler.ListProfiles)
		api.GET("/feed", handler.GetFeed)
		api.GET("/tours/:id", handler.GetTour)
		api.GET("/tours/:id/quote", handler.GetQuote)
		api.GET("/questions", handler.ListQuestions)
		api.POST("/recommend", handler.Recommend)
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "tourfeed",
			"version": logging.Version,
			"endpoints": map[string]string{
				"health":    "/health",
				"profiles":  "/api/profiles",
				"feed":      "/api/feed?mbti=<type>&region=<region>&sort=<recency|popularity|commentCount>&limit=<n>",
				"tour":      "/api/tours/<id>",
				"quote":     "/api/tours/<id>/quote?people=<n>&date=<YYYY-MM-DD>",
				"questions": "/api/questions?language=<ko|en>",
				"recommend": "POST /api/recommend?language=<ko|en> {\"answers\": [...]}",
			},
		})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	return r
}

// NewHTTPServer wraps the engine with the configured timeouts.
func NewHTTPServer(cfg ServerConfig, engine http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-API-Key")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requireKey accepts the key in X-API-Key or as a bearer token.
func requireKey(apiKey string) gin.HandlerFunc {
	want := []byte(apiKey)
	return func(c *gin.Context) {
		got := c.GetHeader("X-API-Key")
		if got == "" {
			got, _ = strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
