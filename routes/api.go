package api

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/DanielMusau/WatchWave/catalog"
	"github.com/DanielMusau/WatchWave/config"
	"github.com/DanielMusau/WatchWave/db"
)

// API holds every collaborator the handlers need. It is built once in
// main and injected everywhere; there is no package-level state.
type API struct {
	DB      db.DBService
	Config  config.ConfigService
	Catalog catalog.CatalogService
	Metrics *Metrics

	logger *logrus.Logger
}

func New(dbService db.DBService, cfg config.ConfigService, cat catalog.CatalogService, metrics *Metrics) *API {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	return &API{
		DB:      dbService,
		Config:  cfg,
		Catalog: cat,
		Metrics: metrics,
		logger:  logger,
	}
}

func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Next()
	}
}

// requestLoggingMiddleware logs every request with its duration and warns
// when one takes longer than 2 seconds.
func (api *API) requestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		fields := logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  duration,
			"remote_ip": c.ClientIP(),
		}
		if duration > 2*time.Second {
			api.logger.WithFields(fields).Warn("Slow request detected")
		} else {
			api.logger.WithFields(fields).Info("Request completed")
		}
	}
}

func (api *API) setupCORS() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = api.Config.GetAllowedOrigins()
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{
		"Origin",
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"X-CSRF-Token",
		"Authorization",
	}
	cfg.ExposeHeaders = []string{"Content-Length"}
	cfg.AllowCredentials = true
	cfg.MaxAge = 12 * time.Hour
	return cfg
}

// Router builds the gin engine with all routes attached. Kept separate
// from ExposeAPI so tests can exercise it with httptest.
func (api *API) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(api.requestLoggingMiddleware())
	router.Use(securityHeadersMiddleware())
	router.Use(cors.New(api.setupCORS()))

	if api.Metrics != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(api.Metrics.registry, promhttp.HandlerOpts{})))
	}

	router.POST("/api/signup", api.handleSignup)
	router.POST("/api/login", api.handleLogin)

	protected := router.Group("/api")
	protected.Use(api.authMiddleware())
	{
		protected.GET("/home/latest-movies", api.handleLatestMovies)
		protected.GET("/home/latest-series", api.handleLatestSeries)
		protected.GET("/home/search", api.handleSearch)

		protected.POST("/add-to-watchlist", api.handleAddToWatchlist)
		protected.PUT("/update-watchlist/:id", api.handleUpdateWatchlist)
		protected.GET("/watchlist", api.handleGetWatchlist)
		protected.DELETE("/remove-from-watchlist/:id", api.handleRemoveFromWatchlist)
	}

	return router
}

// ExposeAPI starts the HTTP server and blocks until SIGINT/SIGTERM, then
// drains in-flight requests for up to 5 seconds.
func (api *API) ExposeAPI() {
	srv := &http.Server{
		Addr:         ":" + api.Config.GetServerPort(),
		Handler:      api.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		api.logger.WithField("addr", srv.Addr).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			api.logger.WithError(err).Fatal("Failed to initialize server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	api.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		api.logger.WithError(err).Fatal("Server forced to shutdown")
	}

	api.logger.Info("Server exiting")
}
