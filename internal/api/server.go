package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"metrics-orchestrator/internal/config"
	"metrics-orchestrator/internal/orchestrator"
)

type Server struct {
	log     *slog.Logger
	orc     *orchestrator.Orchestrator
	cfg     config.Config
	router  *gin.Engine
	limiter *LimiterStore
}

func NewServer(log *slog.Logger, orc *orchestrator.Orchestrator, cfg config.Config) *Server {
	s := &Server{
		log:     log,
		orc:     orc,
		cfg:     cfg,
		router:  gin.New(),
		limiter: NewLimiterStore(rate.Limit(5), 20, 10*time.Minute),
	}

	r := s.router
	r.Use(gin.CustomRecovery(s.recoveryHandler))
	r.Use(s.corsMiddleware())
	r.Use(s.loggingMiddleware())
	r.Use(s.rateLimitMiddleware())

	r.GET("/", s.root)

	api := r.Group("/api")
	{
		api.GET("/dashboard/consolidated", s.consolidated)
		api.GET("/dashboard/summary", s.summary)
		api.GET("/health/services", s.servicesHealth)
	}

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// recoveryHandler maps anything unexpected to a generic server error with the
// message attached; foreseeable per-branch failures never reach this point.
func (s *Server) recoveryHandler(c *gin.Context, recovered any) {
	s.log.Error("handler_panic", "path", c.Request.URL.Path, "panic", recovered)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{
			"code":    "internal_error",
			"message": recoveredMessage(recovered),
		},
	})
}

func recoveredMessage(recovered any) string {
	if err, ok := recovered.(error); ok {
		return err.Error()
	}
	if msg, ok := recovered.(string); ok {
		return msg
	}
	return "internal server error"
}
