// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package srv

import (
	"github.com/cpmech/gogi/gi"
	"github.com/go-playground/validator/v10"
)

// maxGaussianGrid is the maximum number of points of the grid of a Gaussian request
const maxGaussianGrid = 2001

// BernoulliRequest is the body of POST /v1/gittins/bernoulli
//  Note: zero N or Tol means default value
type BernoulliRequest struct {
	Alpha float64 `json:"alpha" validate:"gt=0"`
	Beta  float64 `json:"beta" validate:"gt=0"`
	Gamma float64 `json:"gamma" validate:"gt=0,lt=1"`
	N     int     `json:"N" validate:"gte=0,lte=5000"`
	Tol   float64 `json:"tol" validate:"gte=0"`
}

// TableRequest is the body of POST /v1/gittins/bernoulli/table
type TableRequest struct {
	BernoulliRequest
	Pulls int `json:"pulls" validate:"gte=2,lte=100"`
}

// GaussianRequest is the body of POST /v1/gittins/gaussian
//  Note: zero N means one pull; zero Xi, Delta, Nh or Tol means default value.
//        the grid 2*Xi/Delta+1 must not exceed maxGaussianGrid points
type GaussianRequest struct {
	Mu    float64 `json:"mu"`
	Tau   float64 `json:"tau" validate:"gt=0"`
	N     int     `json:"n" validate:"gte=0"`
	Gamma float64 `json:"gamma" validate:"gt=0,lt=1"`
	Xi    float64 `json:"xi" validate:"gte=0,lte=10"`
	Delta float64 `json:"delta" validate:"gte=0,lte=1"`
	Nh    int     `json:"N" validate:"gte=0,lte=1000"`
	Tol   float64 `json:"tol" validate:"gte=0"`
}

// validateGaussianGrid checks the size of the grid of a GaussianRequest
func validateGaussianGrid(sl validator.StructLevel) {
	req := sl.Current().Interface().(GaussianRequest)
	var opts gi.GaussianOpts
	opts.SetDefault()
	xi, delta := opts.Xi, opts.Delta
	if req.Xi > 0 {
		xi = req.Xi
	}
	if req.Delta > 0 {
		delta = req.Delta
	}
	if 2.0*xi/delta+1 > maxGaussianGrid {
		sl.ReportError(req.Delta, "delta", "Delta", "grid", "")
	}
}

// DiscreteRequest is the body of POST /v1/gittins/discrete
type DiscreteRequest struct {
	P       [][]float64 `json:"P" validate:"required,min=1,max=2000"`
	R       []float64   `json:"r" validate:"required,min=1,max=2000"`
	Initial int         `json:"initial" validate:"gte=0"`
	Gamma   float64     `json:"gamma" validate:"gt=0,lt=1"`
}

// SelectRequest is the body of POST /v1/gittins/select
type SelectRequest struct {
	Indices []float64 `json:"indices" validate:"required,min=1"`
}

// IndexResponse holds the index of one arm
type IndexResponse struct {
	Index  float64 `json:"index"`
	Mean   float64 `json:"mean"`
	Cached bool    `json:"cached"`
}

// TableResponse holds a triangular table of Bernoulli indices
//  Table[i][j] is the index of Beta(alpha+i, beta+j) for i+j <= pulls-2; row i has pulls-1-i entries
type TableResponse struct {
	Alpha float64     `json:"alpha"`
	Beta  float64     `json:"beta"`
	Table [][]float64 `json:"table"`
}

// DiscreteResponse holds the indices of all states of a Markov chain
type DiscreteResponse struct {
	Index   float64   `json:"index"`   // index of initial state
	Indices []float64 `json:"indices"` // index of each state
	Order   []int     `json:"order"`   // states sorted by decreasing index
}

// SelectResponse holds the arm to be played
type SelectResponse struct {
	Arm int `json:"arm"`
}

// HealthResponse is returned by GET /healthz
type HealthResponse struct {
	Status string   `json:"status"`
	Models []string `json:"models"`
}

// ErrorResponse is returned on failure
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
