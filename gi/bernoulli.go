// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gi

import (
	"context"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// BernoulliOpts holds the parameters controlling the accuracy of Bernoulli indices
type BernoulliOpts struct {
	N   int     `json:"N"`   // how many pulls to look into the future
	Tol float64 `json:"tol"` // width of the final bracket around the index
}

// SetDefault sets default values
func (o *BernoulliOpts) SetDefault() {
	o.N = 300
	o.Tol = 5e-4
}

// check checks values
func (o *BernoulliOpts) check() error {
	if o.N < 1 {
		return chk.Err("bernoulli: horizon N must be at least 1. N = %d is invalid", o.N)
	}
	if !(o.Tol > 0) {
		return chk.Err("bernoulli: tolerance must be positive. tol = %g is invalid", o.Tol)
	}
	return nil
}

// Bernoulli computes the Gittins index of a Bernoulli arm with prior Beta(α, β)
//  Input:
//   α    -- current successes (> 0)
//   β    -- current failures (> 0)
//   γ    -- discount factor
//   opts -- accuracy controls. use nil for defaults
//  Note: the index is found by calibration. For each retirement reward λ, the value of the arm is
//        computed by backward induction over all Beta states reachable within N pulls. At the
//        horizon, learning stops and the value is max(λ, μ)/(1-γ).
func Bernoulli(α, β, γ float64, opts *BernoulliOpts) (float64, error) {
	return BernoulliContext(context.Background(), α, β, γ, opts)
}

// BernoulliContext computes the Gittins index of a Bernoulli arm and stops early if ctx is done
func BernoulliContext(ctx context.Context, α, β, γ float64, opts *BernoulliOpts) (float64, error) {
	if opts == nil {
		opts = new(BernoulliOpts)
		opts.SetDefault()
	}
	if err := opts.check(); err != nil {
		return 0, err
	}
	if !(α > 0 && β > 0) {
		return 0, chk.Err("bernoulli: alpha and beta must be positive. alpha = %g, beta = %g are invalid", α, β)
	}
	if err := checkGamma(γ); err != nil {
		return 0, err
	}
	sol := bernoulliSolver{ctx: ctx, α: α, β: β, γ: γ, N: opts.N, v: make([]float64, opts.N+1)}
	return calibrate(ctx, α/(α+β), 1, opts.Tol, sol.gap)
}

// bernoulliSolver holds the data for the backward induction
type bernoulliSolver struct {
	ctx     context.Context
	α, β, γ float64
	N       int
	v       []float64 // values along one level of the Beta-state triangle
}

// gap returns the value of playing minus the value of retiring with reward λ at the root
//  v[i] holds the value at the state with i extra successes of the current level
func (o *bernoulliSolver) gap(λ float64) float64 {
	retire := λ / (1.0 - o.γ)
	k := o.N
	for i := 0; i <= k; i++ {
		μ := (o.α + float64(i)) / (o.α + o.β + float64(k))
		o.v[i] = math.Max(λ, μ) / (1.0 - o.γ)
	}
	for k = o.N - 1; k > 0; k-- {
		if o.ctx.Err() != nil {
			return 0
		}
		for i := 0; i <= k; i++ {
			μ := (o.α + float64(i)) / (o.α + o.β + float64(k))
			cont := μ + o.γ*(μ*o.v[i+1]+(1.0-μ)*o.v[i])
			o.v[i] = math.Max(retire, cont)
		}
	}
	μ := o.α / (o.α + o.β)
	cont := μ + o.γ*(μ*o.v[1]+(1.0-μ)*o.v[0])
	return cont - retire
}

// Bern implements the Bernoulli arm model
type Bern struct {
	Alpha float64       // current successes
	Beta  float64       // current failures
	Gamma float64       // discount factor
	Opts  BernoulliOpts // accuracy controls
}

// add model to factory
func init() {
	allocators["bernoulli"] = func() Model { return new(Bern) }
}

// Init initialises model
func (o *Bern) Init(prms dbf.Params) (err error) {
	o.Opts.SetDefault()
	for _, p := range prms {
		switch p.N {
		case "alpha":
			o.Alpha = p.V
		case "beta":
			o.Beta = p.V
		case "gamma":
			o.Gamma = p.V
		case "N":
			o.Opts.N = int(p.V)
		case "tol":
			o.Opts.Tol = p.V
		default:
			return chk.Err("bernoulli: parameter named %q is incorrect\n", p.N)
		}
	}
	if !(o.Alpha > 0 && o.Beta > 0) {
		return chk.Err("bernoulli: alpha and beta must be given and positive\n")
	}
	return
}

// GetPrms gets (an example) of parameters
func (o Bern) GetPrms(example bool) dbf.Params {
	if example {
		return dbf.Params{
			&dbf.P{N: "alpha", V: 1},
			&dbf.P{N: "beta", V: 1},
			&dbf.P{N: "gamma", V: 0.9},
			&dbf.P{N: "N", V: 300},
			&dbf.P{N: "tol", V: 5e-4},
		}
	}
	return dbf.Params{
		&dbf.P{N: "alpha", V: o.Alpha},
		&dbf.P{N: "beta", V: o.Beta},
		&dbf.P{N: "gamma", V: o.Gamma},
		&dbf.P{N: "N", V: float64(o.Opts.N)},
		&dbf.P{N: "tol", V: o.Opts.Tol},
	}
}

// Mean returns the posterior mean α/(α+β)
func (o Bern) Mean() float64 {
	return o.Alpha / (o.Alpha + o.Beta)
}

// Signature returns all values that determine the index
func (o Bern) Signature() []float64 {
	return []float64{o.Alpha, o.Beta, o.Gamma, float64(o.Opts.N), o.Opts.Tol}
}

// Calc computes the Gittins index
func (o *Bern) Calc(ctx context.Context) (float64, error) {
	return BernoulliContext(ctx, o.Alpha, o.Beta, o.Gamma, &o.Opts)
}
