// Package server runs the featured image HTTP surface.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/AtRiskMedia/tractstack-featured/internal/application/container"
	"github.com/AtRiskMedia/tractstack-featured/internal/presentation/http/routes"
	"github.com/AtRiskMedia/tractstack-featured/pkg/config"
)

// Options are the listener and timeout settings of the HTTP server
type Options struct {
	Host              string
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
}

// DefaultOptions reads the server settings from configuration
func DefaultOptions() Options {
	return Options{
		Host:              config.BindHost,
		Port:              config.Port,
		ReadTimeout:       config.ServerReadTimeout,
		ReadHeaderTimeout: config.ServerReadHeaderTimeout,
		WriteTimeout:      config.ServerWriteTimeout,
		IdleTimeout:       config.ServerIdleTimeout,
		MaxHeaderBytes:    config.ServerMaxHeaderBytes,
	}
}

// Server serves the routes of one container
type Server struct {
	httpServer *http.Server
	container  *container.Container
	listener   net.Listener
}

func New(opts Options, container *container.Container) *Server {
	httpServer := &http.Server{
		Addr:              net.JoinHostPort(opts.Host, opts.Port),
		Handler:           routes.SetupRoutes(container),
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		MaxHeaderBytes:    opts.MaxHeaderBytes,
	}
	return &Server{httpServer: httpServer, container: container}
}

// Listen binds the configured address. Port "0" picks a free port.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.listener = ln
	return nil
}

// Addr is the bound address once Listen has succeeded
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.httpServer.Addr
	}
	return s.listener.Addr().String()
}

// Serve blocks until the server stops. A clean Stop returns nil.
func (s *Server) Serve() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	s.container.Logger.System().Info("HTTP server listening", "address", s.Addr())

	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

// Stop drains in-flight requests until ctx expires
func (s *Server) Stop(ctx context.Context) error {
	s.container.Logger.Shutdown().Info("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
