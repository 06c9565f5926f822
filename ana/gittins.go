// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements analytical solutions and bounds for Gittins indices
package ana

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/num"
)

// Deterministic computes the index of a deterministic reward path
//
//   r[0] → r[1] → ... → r[L-1] ↺
//
//  The last state is absorbing. The index is the largest discounted mean reward
//  Σ γᵗ r[t] / Σ γᵗ over all stopping times k >= 1, including never stopping
func Deterministic(rewards []float64, γ float64) (index float64) {
	L := len(rewards)
	if L == 0 {
		chk.Panic("rewards must not be empty")
	}
	num, den, disc := 0.0, 0.0, 1.0
	index = math.Inf(-1)
	for t := 0; t < L; t++ {
		num += disc * rewards[t]
		den += disc
		disc *= γ
		index = math.Max(index, num/den)
	}
	num += disc * rewards[L-1] / (1.0 - γ)
	den += disc / (1.0 - γ)
	return math.Max(index, num/den)
}

// KnownMean returns the index of an arm whose mean reward is known
func KnownMean(μ float64) float64 {
	return μ
}

// BernoulliBounds computes lower and upper bounds of the index of a Bernoulli arm with prior Beta(α,β)
//  lo = α/(α+β)
//  hi = index of an arm whose success probability p is revealed after the first pull:
//       hi = μ + γ/(1-γ) E[(p - hi)⁺]
//  Note: hi = 1 if α < 1 or β < 1 because the Beta density is singular
func BernoulliBounds(α, β, γ float64) (lo, hi float64) {
	lo = α / (α + β)
	if α < 1 || β < 1 {
		return lo, 1
	}
	lnB, _ := math.Lgamma(α)
	lb, _ := math.Lgamma(β)
	lab, _ := math.Lgamma(α + β)
	lnB += lb - lab
	density := func(p float64) float64 {
		switch {
		case p <= 0:
			if α == 1 {
				return math.Exp(-lnB)
			}
			return 0
		case p >= 1:
			if β == 1 {
				return math.Exp(-lnB)
			}
			return 0
		}
		return math.Exp((α-1)*math.Log(p) + (β-1)*math.Log1p(-p) - lnB)
	}
	positivePart := func(u float64) float64 {
		return num.QuadDiscreteSimpsonRF(u, 1, nsimpson, func(p float64) float64 {
			return (p - u) * density(p)
		})
	}
	hi = fixedPoint(lo, 1, lo, γ, positivePart)
	return
}

// GaussianBounds computes lower and upper bounds of the index of a Gaussian arm
//  The mean θ has a normal prior with mean μ and precision n⋅τ
//  lo = μ
//  hi = index of an arm whose mean θ is revealed after the first pull:
//       hi = μ + γ/(1-γ) E[(θ - hi)⁺]  with  E[(θ-u)⁺] = s φ(z) + (μ-u)(1-Φ(z)), z = (u-μ)/s
func GaussianBounds(μ, τ float64, n int, γ float64) (lo, hi float64) {
	s := 1.0 / math.Sqrt(float64(n)*τ)
	positivePart := func(u float64) float64 {
		z := (u - μ) / s
		φ := math.Exp(-z*z/2.0) / math.Sqrt(2.0*math.Pi)
		Φ := 0.5 * math.Erfc(-z/math.Sqrt2)
		return s*φ + (μ-u)*(1.0-Φ)
	}
	top := μ + γ/(1.0-γ)*s/math.Sqrt(2.0*math.Pi)
	return μ, fixedPoint(μ, top, μ, γ, positivePart)
}

// number of intervals for Simpson's rule (even)
const nsimpson = 2000

// fixedPoint solves u = μ + γ/(1-γ) E(u) in [a, b] with Brent's method
//  E(u) must be non-increasing with slope not below -1, so that the residual decreases with slope
//  at most -1 and the root lies within |residual| of each end
func fixedPoint(a, b, μ, γ float64, E fun.Ss) float64 {
	c := γ / (1.0 - γ)
	res := func(u float64) float64 { return μ + c*E(u) - u }
	ra, rb := res(a), res(b)
	switch {
	case ra <= fixedPointTol:
		return a + math.Max(ra, 0)/2.0
	case -rb <= fixedPointTol:
		return b + math.Min(rb, 0)/2.0
	}
	solver := num.NewBrent(func(u float64) float64 { return res(u) / fixedPointTol }, nil)
	solver.Tol = fixedPointTol
	return solver.Root(a, b)
}

// tolerance of fixedPoint
const fixedPointTol = 1e-13
