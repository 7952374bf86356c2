// Package server exposes the aggregator over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"meta-swap/pkg/metrics"
	"meta-swap/pkg/provider"
	"meta-swap/pkg/types"
)

// Service is the quoting surface served over HTTP
type Service interface {
	AllTransactionRequests(ctx context.Context, req *types.SwapRequest) ([]*types.TransactionRequestWithEstimate, error)
	TransactionRequest(ctx context.Context, req *types.SwapRequest) (*types.TransactionRequestWithEstimate, error)
	CallData(ctx context.Context, req *types.SwapRequest) (string, error)
	Status(ctx context.Context, q types.StatusQuery) (*types.StatusResponse, error)
}

// Server routes API requests to a Service
type Server struct {
	engine   *gin.Engine
	svc      Service
	registry *provider.Registry
	log      *logrus.Entry
}

// New creates the API server
func New(svc Service, registry *provider.Registry, log *logrus.Entry) *Server {
	if log == nil {
		log = logrus.WithField("component", "server")
	}
	s := &Server{
		engine:   gin.New(),
		svc:      svc,
		registry: registry,
		log:      log,
	}
	s.engine.Use(gin.Recovery(), s.observe())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/api/v1")
	api.POST("/transaction-request", s.transactionRequest)
	api.POST("/transaction-requests", s.transactionRequests)
	api.POST("/calldata", s.callData)
	api.POST("/status", s.status)
	api.GET("/routers/:provider", s.routers)
	api.GET("/providers", s.providers)
}

// Handler returns the HTTP handler of the API
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// observe records request metrics and logs every request
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status/100)+"xx").Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(elapsed.Seconds())
		s.log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   status,
			"duration": elapsed.String(),
		}).Debug("request served")
	}
}
