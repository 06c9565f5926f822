// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package srv

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/cpmech/gogi/cache"
	"github.com/cpmech/gogi/gi"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HandleHealth handles GET /healthz
func (o *Server) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Models: gi.Models()})
}

// HandleBernoulli handles POST /v1/gittins/bernoulli
func (o *Server) HandleBernoulli(c *gin.Context) {
	logger := o.requestLogger(c, "HandleBernoulli")
	var req BernoulliRequest
	if !o.bind(c, logger, "bernoulli", &req) {
		return
	}
	prms := dbf.Params{
		&dbf.P{N: "alpha", V: req.Alpha},
		&dbf.P{N: "beta", V: req.Beta},
		&dbf.P{N: "gamma", V: req.Gamma},
	}
	prms = appendIfSet(prms, "N", float64(req.N))
	prms = appendIfSet(prms, "tol", req.Tol)
	o.respondModel(c, logger, "bernoulli", prms)
}

// HandleGaussian handles POST /v1/gittins/gaussian
func (o *Server) HandleGaussian(c *gin.Context) {
	logger := o.requestLogger(c, "HandleGaussian")
	var req GaussianRequest
	if !o.bind(c, logger, "gaussian", &req) {
		return
	}
	prms := dbf.Params{
		&dbf.P{N: "mu", V: req.Mu},
		&dbf.P{N: "tau", V: req.Tau},
		&dbf.P{N: "gamma", V: req.Gamma},
	}
	prms = appendIfSet(prms, "n", float64(req.N))
	prms = appendIfSet(prms, "xi", req.Xi)
	prms = appendIfSet(prms, "delta", req.Delta)
	prms = appendIfSet(prms, "N", float64(req.Nh))
	prms = appendIfSet(prms, "tol", req.Tol)
	o.respondModel(c, logger, "gaussian", prms)
}

// HandleTable handles POST /v1/gittins/bernoulli/table
func (o *Server) HandleTable(c *gin.Context) {
	logger := o.requestLogger(c, "HandleTable")
	var req TableRequest
	if !o.bind(c, logger, "table", &req) {
		return
	}
	opts := new(gi.BernoulliOpts)
	opts.SetDefault()
	if req.N > 0 {
		opts.N = req.N
	}
	if req.Tol > 0 {
		opts.Tol = req.Tol
	}
	ctx, cancel := o.computeContext(c)
	defer cancel()
	t0 := time.Now()
	T, err := gi.BernoulliTable(ctx, req.Alpha, req.Beta, req.Gamma, req.Pulls, opts, o.Cfg.Workers)
	if err != nil {
		o.fail(c, logger, "table", err)
		return
	}
	computeDuration.WithLabelValues("table").Observe(time.Since(t0).Seconds())
	requestsTotal.WithLabelValues("table", "ok").Inc()
	resp := TableResponse{Alpha: req.Alpha, Beta: req.Beta, Table: make([][]float64, len(T))}
	for i := range T {
		resp.Table[i] = T[i][:len(T)-i]
	}
	logger.Info("table computed", "pulls", req.Pulls, "elapsed", time.Since(t0))
	c.JSON(http.StatusOK, resp)
}

// HandleDiscrete handles POST /v1/gittins/discrete
func (o *Server) HandleDiscrete(c *gin.Context) {
	logger := o.requestLogger(c, "HandleDiscrete")
	var req DiscreteRequest
	if !o.bind(c, logger, "discrete", &req) {
		return
	}
	chain, err := gi.NewChain(len(req.R), req.P, req.R)
	if err != nil {
		o.fail(c, logger, "discrete", err)
		return
	}
	if req.Initial >= chain.M() {
		o.badRequest(c, logger, "discrete", "initial state must be smaller than the number of states", "INVALID_REQUEST")
		return
	}
	ctx, cancel := o.computeContext(c)
	defer cancel()
	t0 := time.Now()
	indices, order, err := gi.DiscreteAllContext(ctx, chain, req.Gamma)
	if err != nil {
		o.fail(c, logger, "discrete", err)
		return
	}
	computeDuration.WithLabelValues("discrete").Observe(time.Since(t0).Seconds())
	requestsTotal.WithLabelValues("discrete", "ok").Inc()
	c.JSON(http.StatusOK, DiscreteResponse{Index: indices[req.Initial], Indices: indices, Order: order})
}

// HandleSelect handles POST /v1/gittins/select
func (o *Server) HandleSelect(c *gin.Context) {
	logger := o.requestLogger(c, "HandleSelect")
	var req SelectRequest
	if !o.bind(c, logger, "select", &req) {
		return
	}
	for _, v := range req.Indices {
		if math.IsNaN(v) {
			o.badRequest(c, logger, "select", "indices must not be NaN", "INVALID_REQUEST")
			return
		}
	}
	requestsTotal.WithLabelValues("select", "ok").Inc()
	c.JSON(http.StatusOK, SelectResponse{Arm: gi.Select(req.Indices)})
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// getOrCreateRequestID returns the request id given by the client or a new one
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}

func (o *Server) requestLogger(c *gin.Context, handler string) *slog.Logger {
	return o.Logger.With("request_id", getOrCreateRequestID(c), "handler", handler)
}

// bind decodes and validates the request body. returns false if a response has been written
func (o *Server) bind(c *gin.Context, logger *slog.Logger, model string, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.Warn("invalid request body", "error", err)
		o.badRequest(c, logger, model, "invalid request body", "INVALID_REQUEST")
		return false
	}
	if err := requestValidate.Struct(req); err != nil {
		logger.Warn("invalid request", "error", err)
		o.badRequest(c, logger, model, err.Error(), "INVALID_REQUEST")
		return false
	}
	return true
}

func (o *Server) badRequest(c *gin.Context, logger *slog.Logger, model, msg, code string) {
	requestsTotal.WithLabelValues(model, "invalid").Inc()
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: code})
}

// fail responds to an error returned by a computation
func (o *Server) fail(c *gin.Context, logger *slog.Logger, model string, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		logger.Error("computation interrupted", "error", err)
		requestsTotal.WithLabelValues(model, "timeout").Inc()
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error(), Code: "INTERRUPTED"})
		return
	}
	logger.Warn("computation failed", "error", err)
	o.badRequest(c, logger, model, err.Error(), "INVALID_INPUT")
}

func (o *Server) computeContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if o.Cfg.Timeout > 0 {
		return context.WithTimeout(c.Request.Context(), o.Cfg.Timeout)
	}
	return context.WithCancel(c.Request.Context())
}

// respondModel computes the index of a model, using the cache if available
func (o *Server) respondModel(c *gin.Context, logger *slog.Logger, model string, prms dbf.Params) {
	mdl, err := gi.New(model)
	if err != nil {
		o.fail(c, logger, model, err)
		return
	}
	if err = mdl.Init(prms); err != nil {
		o.fail(c, logger, model, err)
		return
	}
	ctx, cancel := o.computeContext(c)
	defer cancel()
	resp := IndexResponse{Mean: mdl.Mean()}
	sig := mdl.Signature()
	if o.Cache != nil {
		e, found, err := o.Cache.Lookup(ctx, model, sig)
		if err != nil {
			logger.Error("cache get failed", "error", err)
		} else if found {
			cacheHits.WithLabelValues(model).Inc()
			requestsTotal.WithLabelValues(model, "ok").Inc()
			resp.Index, resp.Cached = e.Value, true
			c.JSON(http.StatusOK, resp)
			return
		}
	}
	t0 := time.Now()
	resp.Index, err = mdl.Calc(ctx)
	if err != nil {
		o.fail(c, logger, model, err)
		return
	}
	elapsed := time.Since(t0)
	computeDuration.WithLabelValues(model).Observe(elapsed.Seconds())
	requestsTotal.WithLabelValues(model, "ok").Inc()
	logger.Info("index computed", "model", model, "index", resp.Index, "elapsed", elapsed)
	if o.Cache != nil {
		err = o.Cache.Put(ctx, cache.Key(model, sig...), &cache.Entry{Model: model, Prms: sig, Value: resp.Index, Elapsed: elapsed, Created: t0})
		if err != nil {
			logger.Error("cache put failed", "error", err)
		}
	}
	c.JSON(http.StatusOK, resp)
}

// appendIfSet appends parameter if value is not zero
func appendIfSet(prms dbf.Params, name string, value float64) dbf.Params {
	if value != 0 {
		prms = append(prms, &dbf.P{N: name, V: value})
	}
	return prms
}
