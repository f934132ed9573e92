package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/birthchart/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        newEngine(cfg, handler, handler.logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func newEngine(cfg *config.Config, handler *Handler, logger *slog.Logger) http.Handler {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(logger),
		errorHandlingMiddleware(logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
	)

	limit := rateLimitMiddleware(cfg.HTTP.RateLimit, logger)

	router.GET("/", handler.ShowForm)
	router.POST("/", limit, handler.SubmitForm)
	router.GET("/healthz", handler.Health)

	api := router.Group("/api/v1")
	{
		api.POST("/charts", limit, handler.CreateChart)
		api.GET("/charts/current", handler.CurrentChart)
	}

	return withCSRF(router, cfg.CSRF)
}
