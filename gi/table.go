// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gi

import (
	"context"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
	"golang.org/x/sync/errgroup"
)

// BernoulliTable computes the indices of all Beta states reachable from Beta(α, β) within pulls-2 pulls
//  Output:
//   T -- [pulls-1][pulls-1] triangular table with T[i][j] = GI(α+i, β+j) for i+j <= pulls-2.
//        Entries with i+j > pulls-2 are NaN
//  Note: entries are computed concurrently by at most 'workers' goroutines. workers <= 0 means no limit
func BernoulliTable(ctx context.Context, α, β, γ float64, pulls int, opts *BernoulliOpts, workers int) (T [][]float64, err error) {
	if pulls < 2 {
		return nil, chk.Err("bernoulli table: number of pulls must be at least 2. pulls = %d is invalid", pulls)
	}
	if opts == nil {
		opts = new(BernoulliOpts)
		opts.SetDefault()
	}

	// check input once, so that the goroutines only fail on cancellation
	if _, err = Bernoulli(α, β, γ, &BernoulliOpts{N: 1, Tol: 1}); err != nil {
		return
	}
	if err = opts.check(); err != nil {
		return
	}

	// table
	n := pulls - 1
	T = utl.Alloc(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			T[i][j] = math.NaN()
		}
	}

	// compute
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := 0; i < n; i++ {
		for j := 0; i+j < n; j++ {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				v, err := BernoulliContext(ctx, α+float64(i), β+float64(j), γ, opts)
				if err != nil {
					return err
				}
				T[i][j] = v
				return nil
			})
		}
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}
	return
}
