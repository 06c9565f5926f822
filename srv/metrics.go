// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package srv

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal counts requests by model and result
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gogi_requests_total",
		Help: "Total index requests by model and result",
	}, []string{"model", "result"})

	// computeDuration tracks computing time of indices
	computeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gogi_compute_duration_seconds",
		Help:    "Time spent computing indices in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
	}, []string{"model"})

	// cacheHits counts indices found in cache
	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gogi_cache_hits_total",
		Help: "Total indices found in cache by model",
	}, []string{"model"})
)
