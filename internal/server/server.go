// Package server is the optional HTTP mirror of the CrimeSense repository:
// the same data shapes over REST, served by either the SQLite store or an
// in-memory backend.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Server wraps the gin engine and its http.Server.
type Server struct {
	httpServer *http.Server
	log        *logrus.Logger
}

// New builds a ready-to-start server for the given handler.
func New(host string, port int, handler *Handler, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler.RegisterRoutes(router)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Start serves until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	s.log.WithField("addr", s.httpServer.Addr).Info("http server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
