// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gi

import (
	"context"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/utl"
)

// GaussianOpts holds the parameters controlling the accuracy of Gaussian indices
type GaussianOpts struct {
	Xi    float64 `json:"xi"`    // half range of the discretisation in number of standard deviations of the mean
	Delta float64 `json:"delta"` // step size of the discretisation in number of standard deviations of the mean
	N     int     `json:"N"`     // how many pulls to look into the future
	Tol   float64 `json:"tol"`   // width of the final bracket around the index
}

// SetDefault sets default values
func (o *GaussianOpts) SetDefault() {
	o.Xi = 3.0
	o.Delta = 0.02
	o.N = 30
	o.Tol = 5e-4
}

// maximum number of grid points
const gaussianMaxGrid = 20001

// check checks values
func (o *GaussianOpts) check() error {
	if !(o.Xi > 0) {
		return chk.Err("gaussian: xi must be positive. xi = %g is invalid", o.Xi)
	}
	if !(o.Delta > 0 && o.Delta < o.Xi) {
		return chk.Err("gaussian: delta must satisfy 0 < delta < xi. delta = %g is invalid", o.Delta)
	}
	if 2.0*o.Xi/o.Delta+1 > gaussianMaxGrid {
		return chk.Err("gaussian: xi/delta = %g yields more than %d grid points", o.Xi/o.Delta, gaussianMaxGrid)
	}
	if o.N < 1 {
		return chk.Err("gaussian: horizon N must be at least 1. N = %d is invalid", o.N)
	}
	if !(o.Tol > 0) {
		return chk.Err("gaussian: tolerance must be positive. tol = %g is invalid", o.Tol)
	}
	return nil
}

// Gaussian computes the Gittins index of an arm with Gaussian rewards of known precision
//  Input:
//   μ    -- posterior mean of the arm
//   τ    -- precision (inverse of variance) of each observation
//   n    -- number of times the arm has been pulled; i.e. the mean has precision n⋅τ
//   γ    -- discount factor
//   opts -- accuracy controls. use nil for defaults
//  Note: GI(μ, n, τ) = μ + GI(0, n, 1) / sqrt(τ). GI(0, n, 1) is found by calibration with
//        backward induction over a grid of posterior means
func Gaussian(μ, τ float64, n int, γ float64, opts *GaussianOpts) (float64, error) {
	return GaussianContext(context.Background(), μ, τ, n, γ, opts)
}

// GaussianContext computes the Gittins index of a Gaussian arm and stops early if ctx is done
func GaussianContext(ctx context.Context, μ, τ float64, n int, γ float64, opts *GaussianOpts) (float64, error) {
	if opts == nil {
		opts = new(GaussianOpts)
		opts.SetDefault()
	}
	if err := opts.check(); err != nil {
		return 0, err
	}
	if !(τ > 0) {
		return 0, chk.Err("gaussian: precision must be positive. tau = %g is invalid", τ)
	}
	if n < 1 {
		return 0, chk.Err("gaussian: number of pulls must be at least 1. n = %d is invalid", n)
	}
	if math.IsNaN(μ) || math.IsInf(μ, 0) {
		return 0, chk.Err("gaussian: mean must be finite. mu = %g is invalid", μ)
	}
	if err := checkGamma(γ); err != nil {
		return 0, err
	}
	sol := newGaussianSolver(ctx, n, γ, opts)
	sq := math.Sqrt(τ)
	gi0, err := calibrate(ctx, 0, sol.x[sol.M-1], opts.Tol*sq, sol.gap)
	if err != nil {
		return 0, err
	}
	return μ + gi0/sq, nil
}

// gaussianSolver holds the grid and transition data for the backward induction with τ = 1
type gaussianSolver struct {
	ctx context.Context
	γ   float64
	N   int
	M   int         // number of grid points (odd)
	x   []float64   // [M] grid of posterior means; x[(M-1)/2] = 0
	cdf [][]float64 // [N][2M+1] cdf[k][M+d] = Φ((d+½)h/σk) with σk the std dev of the next mean at stage k
	v   []float64   // [M] values at stage k+1
	w   []float64   // [M] values at stage k
}

// newGaussianSolver allocates and initialises the grid
func newGaussianSolver(ctx context.Context, n int, γ float64, opts *GaussianOpts) (o *gaussianSolver) {
	o = &gaussianSolver{ctx: ctx, γ: γ, N: opts.N}
	half := int(math.Round(opts.Xi / opts.Delta))
	if half < 1 {
		half = 1
	}
	o.M = 2*half + 1
	s0 := 1.0 / math.Sqrt(float64(n))
	xmax := opts.Xi * s0
	o.x = utl.LinSpace(-xmax, xmax, o.M)
	o.x[half] = 0
	h := xmax / float64(half)
	o.cdf = make([][]float64, o.N)
	for k := 0; k < o.N; k++ {
		nk := float64(n + k)
		σ := math.Sqrt(1.0/nk - 1.0/(nk+1.0))
		o.cdf[k] = make([]float64, 2*o.M+1)
		for e := 0; e <= 2*o.M; e++ {
			d := float64(e - o.M)
			o.cdf[k][e] = stdNormalCdf((d + 0.5) * h / σ)
		}
	}
	o.v = make([]float64, o.M)
	o.w = make([]float64, o.M)
	return
}

// expect computes E[V(next mean) | current mean = x[i]] at stage k
//  Probabilities of the tails are lumped into the first and last grid points
func (o *gaussianSolver) expect(k, i int, V []float64) (res float64) {
	c := o.cdf[k]
	off := o.M - i // c[off+j] = P(next mean < upper edge of bin j)
	res = c[off] * V[0]
	for j := 1; j < o.M-1; j++ {
		res += (c[off+j] - c[off+j-1]) * V[j]
	}
	res += (1.0 - c[off+o.M-2]) * V[o.M-1]
	return
}

// gap returns the value of playing minus the value of retiring with reward λ at the root
func (o *gaussianSolver) gap(λ float64) float64 {
	retire := λ / (1.0 - o.γ)
	for j := 0; j < o.M; j++ {
		o.v[j] = math.Max(λ, o.x[j]) / (1.0 - o.γ)
	}
	for k := o.N - 1; k > 0; k-- {
		if o.ctx.Err() != nil {
			return 0
		}
		for i := 0; i < o.M; i++ {
			cont := o.x[i] + o.γ*o.expect(k, i, o.v)
			o.w[i] = math.Max(retire, cont)
		}
		o.v, o.w = o.w, o.v
	}
	i0 := (o.M - 1) / 2
	cont := o.x[i0] + o.γ*o.expect(0, i0, o.v)
	return cont - retire
}

// stdNormalCdf computes Φ(z)
func stdNormalCdf(z float64) float64 {
	return 0.5 * math.Erfc(-z/math.Sqrt2)
}

// Gauss implements the Gaussian arm model
type Gauss struct {
	Mu    float64      // posterior mean
	Tau   float64      // observation precision
	Npull int          // number of pulls so far
	Gamma float64      // discount factor
	Opts  GaussianOpts // accuracy controls
}

// add model to factory
func init() {
	allocators["gaussian"] = func() Model { return new(Gauss) }
}

// Init initialises model
//  Note: parameter names are case sensitive: "n" is the number of pulls and "N" the horizon
func (o *Gauss) Init(prms dbf.Params) (err error) {
	o.Opts.SetDefault()
	o.Tau, o.Npull = 1, 1
	for _, p := range prms {
		switch p.N {
		case "mu":
			o.Mu = p.V
		case "tau":
			o.Tau = p.V
		case "n":
			o.Npull = int(p.V)
		case "gamma":
			o.Gamma = p.V
		case "xi":
			o.Opts.Xi = p.V
		case "delta":
			o.Opts.Delta = p.V
		case "N":
			o.Opts.N = int(p.V)
		case "tol":
			o.Opts.Tol = p.V
		default:
			return chk.Err("gaussian: parameter named %q is incorrect\n", p.N)
		}
	}
	return
}

// GetPrms gets (an example) of parameters
func (o Gauss) GetPrms(example bool) dbf.Params {
	if example {
		return dbf.Params{
			&dbf.P{N: "mu", V: 0},
			&dbf.P{N: "tau", V: 1},
			&dbf.P{N: "n", V: 1},
			&dbf.P{N: "gamma", V: 0.9},
			&dbf.P{N: "xi", V: 3},
			&dbf.P{N: "delta", V: 0.02},
			&dbf.P{N: "N", V: 30},
			&dbf.P{N: "tol", V: 5e-4},
		}
	}
	return dbf.Params{
		&dbf.P{N: "mu", V: o.Mu},
		&dbf.P{N: "tau", V: o.Tau},
		&dbf.P{N: "n", V: float64(o.Npull)},
		&dbf.P{N: "gamma", V: o.Gamma},
		&dbf.P{N: "xi", V: o.Opts.Xi},
		&dbf.P{N: "delta", V: o.Opts.Delta},
		&dbf.P{N: "N", V: float64(o.Opts.N)},
		&dbf.P{N: "tol", V: o.Opts.Tol},
	}
}

// Mean returns the posterior mean
func (o Gauss) Mean() float64 {
	return o.Mu
}

// Signature returns all values that determine the index
func (o Gauss) Signature() []float64 {
	return []float64{o.Mu, o.Tau, float64(o.Npull), o.Gamma, o.Opts.Xi, o.Opts.Delta, float64(o.Opts.N), o.Opts.Tol}
}

// Calc computes the Gittins index
func (o *Gauss) Calc(ctx context.Context) (float64, error) {
	return GaussianContext(ctx, o.Mu, o.Tau, o.Npull, o.Gamma, &o.Opts)
}
