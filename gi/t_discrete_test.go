// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gi

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

func Test_discrete01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("discrete01. deterministic path")

	// 0 → 1 → 2 ↺
	P := [][]float64{
		{0, 1, 0},
		{0, 0, 1},
		{0, 0, 1},
	}
	r := []float64{0, 1, 0.5}
	γ := 0.9

	// state 2 is absorbing                => 0.5
	// state 1: max(1, (1 + 0.9⋅0.5/0.1)/10) => 1
	// state 0: never stop; (0.9 + 0.81⋅0.5/0.1)/10 => 0.495
	c, err := NewChain(3, P, r)
	if err != nil {
		tst.Errorf("NewChain failed:\n%v", err)
		return
	}
	indices, order, err := DiscreteAll(c, γ)
	if err != nil {
		tst.Errorf("DiscreteAll failed:\n%v", err)
		return
	}
	io.Pforan("indices = %v\n", indices)
	chk.Array(tst, "indices", 1e-14, indices, []float64{0.495, 1, 0.5})
	chk.Ints(tst, "order", order, []int{1, 2, 0})

	res, err := Discrete(3, P, r, 0, γ)
	if err != nil {
		tst.Errorf("Discrete failed:\n%v", err)
		return
	}
	chk.Float64(tst, "GI(0)", 1e-14, res, 0.495)
}

func Test_discrete02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("discrete02. stopping is optimal")

	// 0 → 1 ↺ with a poor absorbing state
	P := [][]float64{
		{0, 1},
		{0, 1},
	}
	r := []float64{1, 0}
	res, err := Discrete(2, P, r, 0, 0.8)
	if err != nil {
		tst.Errorf("Discrete failed:\n%v", err)
		return
	}
	chk.Float64(tst, "GI(0)", 1e-14, res, 1)

	// stochastic: 0 goes to the good state 1 with probability ½
	P = [][]float64{
		{0, 0.5, 0.5},
		{0, 1, 0},
		{0, 0, 1},
	}
	r = []float64{0, 1, 0}
	γ := 0.5
	res, err = Discrete(3, P, r, 0, γ)
	if err != nil {
		tst.Errorf("Discrete failed:\n%v", err)
		return
	}

	// stop when reaching 2: reward = ½⋅γ/(1-γ) = 0.5; time = 1 + ½⋅γ/(1-γ) = 1.5
	io.Pforan("GI(0) = %v\n", res)
	chk.Float64(tst, "GI(0)", 1e-14, res, 1.0/3.0)
}

func Test_discrete03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("discrete03. random chains")

	// indices are found in non-increasing order and each state's index is at least its reward
	P := [][]float64{
		{0.1, 0.2, 0.3, 0.4},
		{0.5, 0.0, 0.25, 0.25},
		{0.3, 0.3, 0.3, 0.1},
		{0.0, 0.0, 0.9, 0.1},
	}
	r := []float64{0.3, -1, 2, 0.7}
	c, err := NewChain(4, P, r)
	if err != nil {
		tst.Errorf("NewChain failed:\n%v", err)
		return
	}
	indices, order, err := DiscreteAll(c, 0.95)
	if err != nil {
		tst.Errorf("DiscreteAll failed:\n%v", err)
		return
	}
	io.Pforan("indices = %v\n", indices)
	io.Pforan("order   = %v\n", order)
	chk.Int(tst, "first", order[0], 2)
	chk.Float64(tst, "largest index", 1e-14, indices[2], 2)
	for k := 1; k < len(order); k++ {
		if indices[order[k]] > indices[order[k-1]]+1e-14 {
			tst.Errorf("indices are not sorted: %v\n", order)
		}
	}
	for i := range r {
		if indices[i] < r[i]-1e-14 {
			tst.Errorf("index of state %d = %g must not be smaller than its reward %g\n", i, indices[i], r[i])
		}
		res, _ := Discrete(4, P, r, i, 0.95)
		chk.Float64(tst, io.Sf("GI(%d)", i), 1e-14, res, indices[i])
	}
}

func Test_discrete04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("discrete04. invalid input")

	good := [][]float64{{0.5, 0.5}, {0, 1}}
	r := []float64{1, 0}
	for _, c := range []struct {
		m       int
		P       [][]float64
		r       []float64
		initial int
		γ       float64
	}{
		{0, nil, nil, 0, 0.9},
		{2, good[:1], r, 0, 0.9},
		{2, good, r[:1], 0, 0.9},
		{2, [][]float64{{0.5, 0.4}, {0, 1}}, r, 0, 0.9},
		{2, [][]float64{{1.5, -0.5}, {0, 1}}, r, 0, 0.9},
		{2, [][]float64{{1}, {0, 1}}, r, 0, 0.9},
		{2, good, []float64{math.NaN(), 0}, 0, 0.9},
		{2, good, r, 2, 0.9},
		{2, good, r, -1, 0.9},
		{2, good, r, 0, 1.0},
	} {
		_, err := Discrete(c.m, c.P, c.r, c.initial, c.γ)
		if err == nil {
			tst.Errorf("Discrete(%d, %v, %v, %d, %g) must fail\n", c.m, c.P, c.r, c.initial, c.γ)
			continue
		}
		io.Pforan("%v\n", err)
	}
	if _, _, err := DiscreteAll(nil, 0.9); err == nil {
		tst.Errorf("nil chain must fail\n")
	}
}

func Test_discrete05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("discrete05. model")

	mdl, err := New("discrete")
	if err != nil {
		tst.Errorf("New failed:\n%v", err)
		return
	}
	err = mdl.Init(dbf.Params{
		&dbf.P{N: "initial", V: 0},
		&dbf.P{N: "gamma", V: 0.9},
	})
	if err != nil {
		tst.Errorf("Init failed:\n%v", err)
		return
	}
	if _, err = mdl.Calc(context.Background()); err == nil {
		tst.Errorf("Calc without chain must fail\n")
	}
	c, err := NewChain(3, [][]float64{{0, 1, 0}, {0, 0, 1}, {0, 0, 1}}, []float64{0, 1, 0.5})
	if err != nil {
		tst.Errorf("NewChain failed:\n%v", err)
		return
	}
	mdl.(*Disc).SetChain(c)
	res, err := mdl.Calc(context.Background())
	if err != nil {
		tst.Errorf("Calc failed:\n%v", err)
		return
	}
	chk.Float64(tst, "GI", 1e-14, res, 0.495)
	chk.Float64(tst, "mean", 1e-14, mdl.Mean(), 0)
	chk.Int(tst, "len(signature)", len(mdl.Signature()), 2+1+9+3)
}

func Test_discrete06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("discrete06. cancellation")

	c, _ := BernoulliChain(1, 1, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := DiscreteAllContext(ctx, c, 0.9); !errors.Is(err, context.Canceled) {
		tst.Errorf("cancelled context must yield context.Canceled. err = %v\n", err)
	}
	mdl := &Disc{Initial: 0, Gamma: 0.9, Chain: c}
	if _, err := mdl.Calc(ctx); !errors.Is(err, context.Canceled) {
		tst.Errorf("cancelled context must yield context.Canceled. err = %v\n", err)
	}
	res, err := mdl.Calc(context.Background())
	if err != nil {
		tst.Errorf("Calc failed:\n%v", err)
		return
	}
	indices, _, _ := DiscreteAll(c, 0.9)
	chk.Float64(tst, "GI", 1e-15, res, indices[0])
}
