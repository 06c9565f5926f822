// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gi

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_bernoulli01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bernoulli01. uniform prior")

	// reference value from tables in [1]: γ = 0.9, Beta(1,1) => 0.7029
	res, err := Bernoulli(1, 1, 0.9, &BernoulliOpts{N: 300, Tol: 1e-6})
	if err != nil {
		tst.Errorf("Bernoulli failed:\n%v", err)
		return
	}
	io.Pforan("GI(1,1,0.9) = %v\n", res)
	chk.Float64(tst, "GI(1,1,0.9)", 1e-3, res, 0.7029)
}

func Test_bernoulli02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bernoulli02. bounds and monotonicity")

	opts := &BernoulliOpts{N: 100, Tol: 1e-6}
	γ := 0.95
	prev := 0.0
	for a := 1; a <= 5; a++ {
		res, err := Bernoulli(float64(a), 2, γ, opts)
		if err != nil {
			tst.Errorf("Bernoulli failed:\n%v", err)
			return
		}
		μ := float64(a) / float64(a+2)
		io.Pforan("a = %d  μ = %.6f  GI = %.6f\n", a, μ, res)
		if res < μ {
			tst.Errorf("index %g must not be smaller than the mean %g\n", res, μ)
		}
		if res > 1 {
			tst.Errorf("index %g must not exceed 1\n", res)
		}
		if res <= prev {
			tst.Errorf("index must increase with the number of successes. %g <= %g\n", res, prev)
		}
		prev = res
	}

	// more patience => larger exploration bonus
	lo, _ := Bernoulli(1, 1, 0.5, opts)
	hi, _ := Bernoulli(1, 1, 0.99, &BernoulliOpts{N: 400, Tol: 1e-6})
	io.Pforan("GI(γ=0.5) = %v  GI(γ=0.99) = %v\n", lo, hi)
	if lo >= hi {
		tst.Errorf("index must increase with the discount factor\n")
	}
}

func Test_bernoulli03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bernoulli03. calibration versus state elimination")

	// both methods solve the same truncated problem
	α, β, γ := 2.0, 3.0, 0.9
	depth := 20
	res, err := Bernoulli(α, β, γ, &BernoulliOpts{N: depth, Tol: 1e-10})
	if err != nil {
		tst.Errorf("Bernoulli failed:\n%v", err)
		return
	}
	c, ids := BernoulliChain(α, β, depth)
	chk.Int(tst, "number of states", c.M(), (depth+1)*(depth+2)/2)
	chk.Int(tst, "root id", ids[[2]int{0, 0}], 0)
	indices, _, err := DiscreteAll(c, γ)
	if err != nil {
		tst.Errorf("DiscreteAll failed:\n%v", err)
		return
	}
	io.Pforan("calibration = %v  elimination = %v\n", res, indices[0])
	chk.Float64(tst, "GI", 1e-8, res, indices[0])

	// indices of other states agree too
	for _, key := range [][2]int{{1, 0}, {0, 1}, {3, 4}} {
		res, _ = Bernoulli(α+float64(key[0]), β+float64(key[1]), γ, &BernoulliOpts{N: depth - key[0] - key[1], Tol: 1e-10})
		chk.Float64(tst, io.Sf("GI%v", key), 1e-8, res, indices[ids[key]])
	}
}

func Test_bernoulli04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bernoulli04. table")

	α, β, γ := 1.0, 1.0, 0.9
	opts := &BernoulliOpts{N: 50, Tol: 1e-6}
	pulls := 4
	T, err := BernoulliTable(context.Background(), α, β, γ, pulls, opts, 2)
	if err != nil {
		tst.Errorf("BernoulliTable failed:\n%v", err)
		return
	}

	// T[i][j] = GI(α+i, β+j) for i+j <= pulls-2
	n := pulls - 1
	chk.Int(tst, "rows", len(T), n)
	for i := 0; i < n; i++ {
		chk.Int(tst, "cols", len(T[i]), n)
		for j := 0; j < n; j++ {
			if i+j > pulls-2 {
				if !math.IsNaN(T[i][j]) {
					tst.Errorf("T[%d][%d] = %g must be NaN\n", i, j, T[i][j])
				}
				continue
			}
			res, _ := Bernoulli(α+float64(i), β+float64(j), γ, opts)
			chk.Float64(tst, io.Sf("T[%d][%d]", i, j), 1e-15, T[i][j], res)
		}
	}

	// two pulls => prior only
	T, err = BernoulliTable(context.Background(), α, β, γ, 2, opts, 0)
	if err != nil {
		tst.Errorf("BernoulliTable failed:\n%v", err)
		return
	}
	chk.Int(tst, "rows", len(T), 1)
	res, _ := Bernoulli(α, β, γ, opts)
	chk.Float64(tst, "T[0][0]", 1e-15, T[0][0], res)
	T, _ = BernoulliTable(context.Background(), α, β, γ, pulls, opts, 2)

	// more successes => larger index; more failures => smaller index
	if !(T[1][0] > T[0][0] && T[0][1] < T[0][0]) {
		tst.Errorf("table is not monotonic: %v\n", T)
	}

	// cancellation
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = BernoulliTable(ctx, α, β, γ, pulls, opts, 1)
	if err == nil {
		tst.Errorf("cancelled context must yield an error\n")
	}
}

func Test_bernoulli05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bernoulli05. invalid input")

	for _, c := range []struct {
		α, β, γ float64
		opts    *BernoulliOpts
	}{
		{0, 1, 0.9, nil},
		{1, -1, 0.9, nil},
		{1, 1, 0, nil},
		{1, 1, 1, nil},
		{1, 1, 0.9, &BernoulliOpts{N: 0, Tol: 1e-3}},
		{1, 1, 0.9, &BernoulliOpts{N: 10, Tol: 0}},
	} {
		_, err := Bernoulli(c.α, c.β, c.γ, c.opts)
		if err == nil {
			tst.Errorf("Bernoulli(%g, %g, %g) must fail\n", c.α, c.β, c.γ)
		}
		io.Pforan("%v\n", err)
	}
	for _, pulls := range []int{0, 1} {
		if _, err := BernoulliTable(context.Background(), 1, 1, 0.9, pulls, nil, 1); err == nil {
			tst.Errorf("BernoulliTable with %d pulls must fail\n", pulls)
		}
	}
}

func Test_bernoulli06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bernoulli06. model")

	mdl, err := New("bernoulli")
	if err != nil {
		tst.Errorf("New failed:\n%v", err)
		return
	}
	err = mdl.Init(mdl.GetPrms(true))
	if err != nil {
		tst.Errorf("Init failed:\n%v", err)
		return
	}
	m := mdl.(*Bern)
	chk.Float64(tst, "alpha", 1e-15, m.Alpha, 1)
	chk.Float64(tst, "beta", 1e-15, m.Beta, 1)
	chk.Float64(tst, "gamma", 1e-15, m.Gamma, 0.9)
	chk.Int(tst, "N", m.Opts.N, 300)
	chk.Float64(tst, "mean", 1e-15, mdl.Mean(), 0.5)
	chk.Array(tst, "signature", 1e-15, mdl.Signature(), []float64{1, 1, 0.9, 300, 5e-4})

	res, err := mdl.Calc(context.Background())
	if err != nil {
		tst.Errorf("Calc failed:\n%v", err)
		return
	}
	chk.Float64(tst, "GI", 1e-3, res, 0.7029)

	// wrong parameter
	err = mdl.Init(dbf.Params{&dbf.P{N: "alp", V: 1}, &dbf.P{N: "beta", V: 1}})
	if err == nil {
		tst.Errorf("unknown parameter must fail\n")
	}
	if _, err = New("beta"); err == nil {
		tst.Errorf("unknown model must fail\n")
	}
	chk.Strings(tst, "models", Models(), []string{"bernoulli", "gaussian", "discrete"})
	chk.Int(tst, "select", Select([]float64{0.3, 0.7, 0.7, 0.1}), 1)
	chk.Int(tst, "select empty", Select(nil), -1)
}

func Test_bernoulli07(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bernoulli07. cancellation")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := BernoulliContext(ctx, 1, 1, 0.9, &BernoulliOpts{N: 2000, Tol: 1e-8})
	if !errors.Is(err, context.Canceled) {
		tst.Errorf("cancelled context must yield context.Canceled. err = %v\n", err)
	}

	// deadline reached during the backward induction
	ctx, cancel = context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	t0 := time.Now()
	_, err = BernoulliContext(ctx, 1, 1, 0.999, &BernoulliOpts{N: 5000, Tol: 1e-12})
	elapsed := time.Since(t0)
	io.Pforan("err = %v  elapsed = %v\n", err, elapsed)
	if !errors.Is(err, context.DeadlineExceeded) {
		tst.Errorf("deadline must yield context.DeadlineExceeded. err = %v\n", err)
	}
	if elapsed > 5*time.Second {
		tst.Errorf("computation must stop soon after the deadline. elapsed = %v\n", elapsed)
	}
}

func Test_calibrate01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("calibrate01")

	// piecewise linear gap with slope -1 and -2
	ctx := context.Background()
	gap := func(λ float64) float64 {
		if λ < 0.2 {
			return 0.5 - 2*λ
		}
		return 0.3 - λ
	}
	λ, err := calibrate(ctx, 0, 1, 1e-10, gap)
	if err != nil {
		tst.Errorf("calibrate failed:\n%v", err)
		return
	}
	chk.Float64(tst, "root", 2e-10, λ, 0.3)

	// root at the ends or very close to them
	λ, _ = calibrate(ctx, 0.3, 1, 1e-6, gap)
	chk.Float64(tst, "lo", 1e-15, λ, 0.3)
	λ, _ = calibrate(ctx, 0, 0.3, 1e-6, gap)
	chk.Float64(tst, "hi", 1e-15, λ, 0.3)
	λ, _ = calibrate(ctx, 0.3-1e-9, 1, 1e-6, gap)
	chk.Float64(tst, "close to lo", 1e-6, λ, 0.3)
	λ, _ = calibrate(ctx, 0, 0.3+1e-9, 1e-6, gap)
	chk.Float64(tst, "close to hi", 1e-6, λ, 0.3)

	// tiny tolerance
	λ, err = calibrate(ctx, 0, 1, 1e-14, gap)
	if err != nil {
		tst.Errorf("calibrate failed:\n%v", err)
		return
	}
	chk.Float64(tst, "root", 1e-13, λ, 0.3)

	// cancelled
	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if _, err = calibrate(cctx, 0, 1, 1e-10, gap); !errors.Is(err, context.Canceled) {
		tst.Errorf("cancelled context must yield context.Canceled. err = %v\n", err)
	}
}
