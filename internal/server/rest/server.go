package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options collects what the REST server needs.
type Options struct {
	Address         string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
	Users           UserService
	Codec           *auth.Codec
	Metrics         *metrics.Metrics
	Gatherer        prometheus.Gatherer
	Logger          logging.Logger
}

type Server struct {
	address         string
	shutdownTimeout time.Duration
	engine          *gin.Engine
	logger          logging.Logger
}

func NewServer(o Options) *Server {
	logger := o.Logger.With("module", "rest_server")

	r := gin.New()
	r.Use(gin.Recovery(), requestLogging(logger))

	if len(o.AllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = o.AllowedOrigins
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", common.AuthorizationHeaderName}
		r.Use(cors.New(corsConfig))
	}

	h := NewHandler(o.Users, o.Logger)
	gate := NewGate(o.Codec, o.Metrics, o.Logger)

	r.GET("/health", h.Health)
	if o.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(o.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", h.Register)
			authRoutes.POST("/login", h.Login)
			authRoutes.GET("/me", gate.Authenticate(), gate.RequireAuth(), h.Me)
		}
	}

	return &Server{
		address:         o.Address,
		shutdownTimeout: o.ShutdownTimeout,
		engine:          r,
		logger:          logger,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	select {
	case <-ctx.Done():
		s.logger.Info(ctx, "Stopping HTTP server...")
	case err := <-errCh:
		return err
	}

	timeout := s.shutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
