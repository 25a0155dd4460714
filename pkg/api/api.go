// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/telekom/pathprobe/internal/logger"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Config is the configuration of the api server
type Config struct {
	// Address is the listening address, e.g. ":8080". The api is disabled if empty.
	Address string `yaml:"address" mapstructure:"address"`
}

// Enabled reports whether the api server should be started
func (c Config) Enabled() bool {
	return c.Address != ""
}

// Validate checks the listening address
func (c Config) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.Address); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidAddress, c.Address, err)
	}
	return nil
}

// Route is a handler served by the api
type Route struct {
	Path    string
	Method  string
	Handler http.HandlerFunc
}

// API serves the routes of a run over HTTP
type API struct {
	router chi.Router
	server *http.Server
}

// New creates the api with the logging and recovery middlewares installed
func New(ctx context.Context, cfg Config) *API {
	r := chi.NewRouter()
	r.Use(logger.Middleware(ctx))
	r.Use(middleware.Recoverer)

	return &API{
		router: r,
		server: &http.Server{
			Addr:              cfg.Address,
			Handler:           r,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

// RegisterRoutes mounts the given routes on the router
func (a *API) RegisterRoutes(ctx context.Context, routes ...Route) error {
	log := logger.FromContext(ctx)
	for _, rt := range routes {
		switch rt.Method {
		case http.MethodGet:
			a.router.Get(rt.Path, rt.Handler)
		case http.MethodHead:
			a.router.Head(rt.Path, rt.Handler)
		default:
			log.ErrorContext(ctx, "Unsupported method for route", "method", rt.Method, "path", rt.Path)
			return fmt.Errorf("unsupported method %q for route %s", rt.Method, rt.Path)
		}
		log.DebugContext(ctx, "Registered route", "method", rt.Method, "path", rt.Path)
	}
	return nil
}

// Handler returns the router serving the registered routes
func (a *API) Handler() http.Handler {
	return a.router
}

// Run serves the api until the context is done.
// It returns nil after a graceful shutdown.
func (a *API) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	cErr := make(chan error, 1)

	go func() {
		log.InfoContext(ctx, "Serving api", "address", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cErr <- err
		}
		close(cErr)
	}()

	select {
	case <-ctx.Done():
		return a.shutdown(context.WithoutCancel(ctx))
	case err, ok := <-cErr:
		if !ok {
			return nil
		}
		log.ErrorContext(ctx, "Failed to serve api", "error", err)
		return fmt.Errorf("%w: %w", ErrServerStop, err)
	}
}

func (a *API) shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil {
		logger.FromContext(ctx).ErrorContext(ctx, "Failed to shutdown api server", "error", err)
		return fmt.Errorf("failed to shutdown api server: %w", err)
	}
	return nil
}
