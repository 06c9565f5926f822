// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package srv implements an HTTP service computing Gittins indices
package srv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cpmech/gogi/cache"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config holds configuration of the service
type Config struct {
	Addr            string        // address to listen to; e.g. ":8080"
	Workers         int           // max number of goroutines computing one table; 0 means no limit
	Timeout         time.Duration // max time computing one request; 0 means no limit
	ShutdownTimeout time.Duration // max time waiting for requests when stopping
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		Workers:         4,
		Timeout:         time.Minute,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server computes indices upon request
type Server struct {
	Cfg    Config
	Cache  *cache.Store // optional store of computed indices
	Logger *slog.Logger
}

// requestValidate validates request bodies
var requestValidate = newRequestValidate()

func newRequestValidate() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateGaussianGrid, GaussianRequest{})
	return v
}

// NewServer returns a new server
func NewServer(cfg Config, store *cache.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{Cfg: cfg, Cache: store, Logger: logger}
}

// Router returns the HTTP handler with all routes
func (o *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/healthz", o.HandleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	RegisterRoutes(router.Group("/v1"), o)
	return router
}

// RegisterRoutes registers the index routes
func RegisterRoutes(rg *gin.RouterGroup, o *Server) {
	g := rg.Group("/gittins")
	g.POST("/bernoulli", o.HandleBernoulli)
	g.POST("/bernoulli/table", o.HandleTable)
	g.POST("/gaussian", o.HandleGaussian)
	g.POST("/discrete", o.HandleDiscrete)
	g.POST("/select", o.HandleSelect)
}

// ListenAndServe serves requests until ctx is cancelled
func (o *Server) ListenAndServe(ctx context.Context) error {
	hs := &http.Server{
		Addr:              o.Cfg.Addr,
		Handler:           o.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		o.Logger.Info("server listening", "addr", o.Cfg.Addr)
		errc <- hs.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return fmt.Errorf("listen on %s: %w", o.Cfg.Addr, err)
	case <-ctx.Done():
	}
	sctx, cancel := context.WithTimeout(context.Background(), o.Cfg.ShutdownTimeout)
	defer cancel()
	o.Logger.Info("server stopping")
	if err := hs.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
