// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gi

import (
	"context"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/la"
)

// tolerance to check that rows of transition matrices sum up to one
const rowSumTol = 1e-8

// Chain holds a discrete Markov reward process
//  States are numbered from 0 to m-1
type Chain struct {
	P *la.Matrix // [m][m] transition matrix. P[i][j] = probability of moving from i to j
	R la.Vector  // [m] reward collected when the arm is played in each state
}

// NewChain returns a new (checked) Markov reward process
//  Input:
//   m -- number of states
//   P -- [m][m] transition matrix
//   r -- [m] rewards
func NewChain(m int, P [][]float64, r []float64) (o *Chain, err error) {
	if m < 1 {
		return nil, chk.Err("chain: number of states must be at least 1. m = %d is invalid", m)
	}
	if len(P) != m {
		return nil, chk.Err("chain: transition matrix must have %d rows. %d is invalid", m, len(P))
	}
	if len(r) != m {
		return nil, chk.Err("chain: reward vector must have %d entries. %d is invalid", m, len(r))
	}
	o = &Chain{P: la.NewMatrix(m, m), R: la.NewVector(m)}
	for i := 0; i < m; i++ {
		if len(P[i]) != m {
			return nil, chk.Err("chain: row %d of transition matrix must have %d columns. %d is invalid", i, m, len(P[i]))
		}
		if math.IsNaN(r[i]) || math.IsInf(r[i], 0) {
			return nil, chk.Err("chain: reward of state %d must be finite. r = %g is invalid", i, r[i])
		}
		sum := 0.0
		for j := 0; j < m; j++ {
			if !(P[i][j] >= 0) {
				return nil, chk.Err("chain: transition probability P[%d][%d] = %g must be non-negative", i, j, P[i][j])
			}
			sum += P[i][j]
			o.P.Set(i, j, P[i][j])
		}
		if math.Abs(sum-1.0) > rowSumTol {
			return nil, chk.Err("chain: row %d of transition matrix sums to %g instead of 1", i, sum)
		}
		o.R[i] = r[i]
	}
	return
}

// M returns the number of states
func (o *Chain) M() int {
	return len(o.R)
}

// DiscreteAll computes the Gittins indices of all states of a Markov reward process
//  Output:
//   indices -- [m] index of each state
//   order   -- [m] states sorted by decreasing index, in the order they were found
func DiscreteAll(c *Chain, γ float64) (indices []float64, order []int, err error) {
	return DiscreteAllContext(context.Background(), c, γ)
}

// DiscreteAllContext computes the Gittins indices of all states and stops early if ctx is done
func DiscreteAllContext(ctx context.Context, c *Chain, γ float64) (indices []float64, order []int, err error) {
	if c == nil || c.M() < 1 {
		return nil, nil, chk.Err("discrete: chain is empty")
	}
	if err = checkGamma(γ); err != nil {
		return
	}
	return eliminate(ctx, c, γ, -1)
}

// Discrete computes the Gittins index of the initial state of a Markov reward process
//  Input:
//   m       -- number of states
//   P       -- [m][m] transition matrix between states
//   r       -- [m] reward of each state
//   initial -- starting state (0-based) whose index is returned
//   γ       -- discount factor
func Discrete(m int, P [][]float64, r []float64, initial int, γ float64) (float64, error) {
	c, err := NewChain(m, P, r)
	if err != nil {
		return 0, err
	}
	if initial < 0 || initial >= m {
		return 0, chk.Err("discrete: initial state must be in [0, %d). initial = %d is invalid", m, initial)
	}
	if err = checkGamma(γ); err != nil {
		return 0, err
	}
	indices, _, err := eliminate(context.Background(), c, γ, initial)
	if err != nil {
		return 0, err
	}
	return indices[initial], nil
}

// eliminate runs the state elimination algorithm (see [2])
//  The remaining state with largest ratio R/D has the largest index among the remaining states.
//  It is then removed and the chain is "censored": a visit to the removed state is replaced by the
//  excursion until the chain returns to the remaining states. R and D accumulate discounted rewards
//  and discounted times along such excursions.
//  Note: stops after 'stop' is found, unless stop < 0. Indices not computed are NaN
func eliminate(ctx context.Context, c *Chain, γ float64, stop int) (indices []float64, order []int, err error) {

	// discounted transition matrix, rewards and durations
	m := c.M()
	Q := la.NewMatrix(m, m)
	R := la.NewVector(m)
	D := la.NewVector(m)
	alive := make([]bool, m)
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			Q.Set(i, j, γ*c.P.Get(i, j))
		}
		R[i] = c.R[i]
		D[i] = 1
		alive[i] = true
	}
	indices = make([]float64, m)
	for i := 0; i < m; i++ {
		indices[i] = math.NaN()
	}

	// find states in decreasing order of index
	for step := 0; step < m; step++ {
		if err = ctx.Err(); err != nil {
			return nil, nil, err
		}

		// largest ratio
		s := -1
		for x := 0; x < m; x++ {
			if alive[x] && (s < 0 || R[x]/D[x] > R[s]/D[s]) {
				s = x
			}
		}
		indices[s] = R[s] / D[s]
		order = append(order, s)
		alive[s] = false
		if s == stop {
			return
		}

		// eliminate s
		f := 1.0 / (1.0 - Q.Get(s, s))
		for x := 0; x < m; x++ {
			if !alive[x] {
				continue
			}
			qxs := Q.Get(x, s)
			if qxs == 0 {
				continue
			}
			a := qxs * f
			R[x] += a * R[s]
			D[x] += a * D[s]
			for y := 0; y < m; y++ {
				if alive[y] {
					Q.Set(x, y, Q.Get(x, y)+a*Q.Get(s, y))
				}
			}
		}
	}
	return
}

// BernoulliChain builds the Markov reward process of a Bernoulli arm truncated at a given depth
//  Input:
//   α, β  -- prior Beta(α, β)
//   depth -- number of pulls. states at this depth are absorbing with reward equal to their mean
//  Output:
//   c   -- chain with (depth+1)(depth+2)/2 states; state 0 corresponds to Beta(α, β)
//   ids -- maps {extra successes, extra failures} to state number
func BernoulliChain(α, β float64, depth int) (c *Chain, ids map[[2]int]int) {
	if depth < 0 {
		chk.Panic("depth must be non-negative. depth = %d is invalid", depth)
	}
	ids = make(map[[2]int]int)
	for k := 0; k <= depth; k++ {
		for i := 0; i <= k; i++ {
			ids[[2]int{i, k - i}] = len(ids)
		}
	}
	m := len(ids)
	c = &Chain{P: la.NewMatrix(m, m), R: la.NewVector(m)}
	for key, id := range ids {
		i, j := key[0], key[1]
		μ := (α + float64(i)) / (α + β + float64(i+j))
		c.R[id] = μ
		if i+j == depth {
			c.P.Set(id, id, 1)
			continue
		}
		c.P.Set(id, ids[[2]int{i + 1, j}], μ)
		c.P.Set(id, ids[[2]int{i, j + 1}], 1.0-μ)
	}
	return
}

// Disc implements the discrete Markov arm model
//  Note: the chain must be set with SetChain after Init
type Disc struct {
	Initial int     // current state
	Gamma   float64 // discount factor
	Chain   *Chain  // Markov reward process
}

// add model to factory
func init() {
	allocators["discrete"] = func() Model { return new(Disc) }
}

// Init initialises model
func (o *Disc) Init(prms dbf.Params) (err error) {
	for _, p := range prms {
		switch p.N {
		case "initial":
			o.Initial = int(p.V)
		case "gamma":
			o.Gamma = p.V
		default:
			return chk.Err("discrete: parameter named %q is incorrect\n", p.N)
		}
	}
	return
}

// SetChain sets the Markov reward process
func (o *Disc) SetChain(c *Chain) {
	o.Chain = c
}

// GetPrms gets (an example) of parameters
func (o Disc) GetPrms(example bool) dbf.Params {
	if example {
		return dbf.Params{
			&dbf.P{N: "initial", V: 0},
			&dbf.P{N: "gamma", V: 0.9},
		}
	}
	return dbf.Params{
		&dbf.P{N: "initial", V: float64(o.Initial)},
		&dbf.P{N: "gamma", V: o.Gamma},
	}
}

// Mean returns the reward of the current state
func (o Disc) Mean() float64 {
	if o.Chain == nil || o.Initial < 0 || o.Initial >= o.Chain.M() {
		return math.NaN()
	}
	return o.Chain.R[o.Initial]
}

// Signature returns all values that determine the index
func (o Disc) Signature() (res []float64) {
	res = []float64{float64(o.Initial), o.Gamma}
	if o.Chain == nil {
		return
	}
	m := o.Chain.M()
	res = append(res, float64(m))
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			res = append(res, o.Chain.P.Get(i, j))
		}
	}
	return append(res, o.Chain.R...)
}

// Calc computes the Gittins index
func (o *Disc) Calc(ctx context.Context) (float64, error) {
	if o.Chain == nil {
		return 0, chk.Err("discrete: chain has not been set")
	}
	if o.Initial < 0 || o.Initial >= o.Chain.M() {
		return 0, chk.Err("discrete: initial state must be in [0, %d). initial = %d is invalid", o.Chain.M(), o.Initial)
	}
	if err := checkGamma(o.Gamma); err != nil {
		return 0, err
	}
	indices, _, err := eliminate(ctx, o.Chain, o.Gamma, o.Initial)
	if err != nil {
		return 0, err
	}
	return indices[o.Initial], nil
}
