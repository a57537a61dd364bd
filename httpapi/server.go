// Package httpapi is the HTTP boundary of the producer: the library event
// routes, health and metrics.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/loipv/library-events-producer/config"
)

// Controller registers its routes on the router
type Controller interface {
	RegisterRoutes(r *gin.Engine)
}

// Server is the HTTP server and its controllers
type Server struct {
	cfg    config.ServerConfig
	logger *zap.Logger
	engine *gin.Engine
	srv    *http.Server
}

// NewServer builds the router with recovery, CORS, request logging and
// metrics middleware in that order. metrics may be nil.
func NewServer(cfg config.ServerConfig, logger *zap.Logger, metrics *HTTPMetrics, controllers ...Controller) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
	}
	if len(cfg.AllowOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))
	r.Use(RequestLogger(logger))
	if metrics != nil {
		r.Use(metrics.Middleware())
	}
	for _, c := range controllers {
		c.RegisterRoutes(r)
	}

	return &Server{
		cfg:    cfg,
		logger: logger,
		engine: r,
		srv: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      r,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start binds the listener and serves in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.srv.Addr, err)
	}
	s.logger.Info("http server started", zap.String("addr", ln.Addr().String()))

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server failed", zap.Error(err))
		}
	}()
	return nil
}

// Stop shuts the server down gracefully, bounded by ShutdownTimeout
func (s *Server) Stop(ctx context.Context) error {
	if s.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}
