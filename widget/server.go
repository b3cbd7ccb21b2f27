package widget

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"properati-pricer/artifact"
	"properati-pricer/observability"
	"properati-pricer/utils"
)

// Server hosts the interactive prediction page on top of a trained model
// artifact.
type Server struct {
	predictor *artifact.Predictor
	metrics   *observability.Metrics
	logger    *utils.Logger
	router    *gin.Engine
	server    *http.Server
	host      string
	port      int
}

// NewServer wires the routes around a loaded predictor.
func NewServer(predictor *artifact.Predictor, metrics *observability.Metrics, logger *utils.Logger, host string, port int) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		predictor: predictor,
		metrics:   metrics,
		logger:    logger,
		router:    router,
		host:      host,
		port:      port,
	}

	router.Use(s.observe)
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.page)
	s.router.GET("/healthz", s.health)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := s.router.Group("/api")
	{
		api.GET("/model", s.modelInfo)
		api.GET("/predict", s.predict)
	}
}

// observe records the latency of every request under its route pattern.
func (s *Server) observe(c *gin.Context) {
	start := time.Now()
	c.Next()

	path := c.FullPath()
	if path == "" {
		path = "unmatched"
	}
	s.metrics.RequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
}

// Start runs the HTTP server until Stop is called or the listener fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	s.logger.Info("[widget] Serving predictions on http://%s", addr)
	return s.server.ListenAndServe()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
