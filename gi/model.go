// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package gi implements Gittins index calculators for Bernoulli, Gaussian and discrete Markov arms
//  All indices are given in per-step reward units; i.e. the constant retirement reward λ that makes
//  playing the arm and retiring equally attractive.
//  References:
//   [1] Gittins J, Glazebrook K and Weber R (2011) Multi-armed Bandit Allocation Indices. 2nd Edition,
//       Wiley, http://dx.doi.org/10.1002/9780470980033
//   [2] Sonin IM (2008) A generalized Gittins index for a Markov chain and its recursive calculation.
//       Statistics & Probability Letters, 78(12), 1526-1533, http://dx.doi.org/10.1016/j.spl.2008.01.049
package gi

import (
	"context"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/num"
)

// Model implements an arm whose Gittins index can be computed from a set of parameters
type Model interface {
	Init(prms dbf.Params) error     // initialises model
	GetPrms(example bool) dbf.Params // gets (an example) of parameters
	Mean() float64                  // expected reward of the next pull
	Signature() []float64           // all values that determine the index; e.g. for caching
	Calc(ctx context.Context) (float64, error) // computes the Gittins index; stops early if ctx is done
}

// New returns new arm model
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'gi' database", name)
	}
	return allocator(), nil
}

// Models returns the names of all available models
func Models() (names []string) {
	for _, name := range []string{"bernoulli", "gaussian", "discrete"} {
		if _, ok := allocators[name]; ok {
			names = append(names, name)
		}
	}
	return
}

// allocators holds all available models
var allocators = map[string]func() Model{}

// Select returns the arm with the largest index; the first one wins ties
//  Note: returns -1 if indices is empty
func Select(indices []float64) (arm int) {
	arm = -1
	for i, v := range indices {
		if arm < 0 || v > indices[arm] {
			arm = i
		}
	}
	return
}

// checkGamma checks the discount factor
func checkGamma(γ float64) error {
	if !(γ > 0 && γ < 1) {
		return chk.Err("discount factor must satisfy 0 < gamma < 1. gamma = %g is invalid", γ)
	}
	return nil
}

// calibrate finds the retirement reward λ in [lo, hi] at which playing and retiring are equally good
//  gap(λ) is the value of playing minus the value of retiring. It decreases with slope at most -1,
//  hence the root lies within |gap| of each end. gap may return any value once ctx is done.
//  Note: returns lo if gap(lo) <= 0 and hi if gap(hi) >= 0
func calibrate(ctx context.Context, lo, hi, tol float64, gap fun.Ss) (λ float64, err error) {

	// ends of interval
	glo := gap(lo)
	if err = ctx.Err(); err != nil {
		return
	}
	if glo <= 0 {
		return lo, nil
	}
	if glo <= tol {
		return lo + glo/2.0, nil
	}
	ghi := gap(hi)
	if err = ctx.Err(); err != nil {
		return
	}
	if ghi >= 0 {
		return hi, nil
	}
	if -ghi <= tol {
		return hi + ghi/2.0, nil
	}

	// root of gap/tol, so that |f(lo) f(hi)| > 1. a zero value stops the solver after cancellation
	defer func() {
		if r := recover(); r != nil {
			err = chk.Err("calibration failed in [%g, %g]: %v", lo, hi, r)
		}
	}()
	solver := num.NewBrent(func(x float64) float64 {
		switch {
		case x == lo:
			return glo / tol
		case x == hi:
			return ghi / tol
		case ctx.Err() != nil:
			return 0
		}
		return gap(x) / tol
	}, nil)
	solver.Tol = tol
	solver.MaxIt = calibrateMaxIt
	λ = solver.Root(lo, hi)
	err = ctx.Err()
	return
}

// calibrateMaxIt is the maximum number of iterations of the root finder
const calibrateMaxIt = 500
