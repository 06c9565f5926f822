// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package run implements the driver that computes the indices of all arms given in a (.gi) file
package run

import (
	"context"
	"os"
	"time"

	"github.com/cpmech/gogi/cache"
	"github.com/cpmech/gogi/gi"
	"github.com/cpmech/gogi/inp"
	"github.com/cpmech/gogi/out"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"golang.org/x/sync/errgroup"
)

// Main holds all data for a run
type Main struct {
	Inp     *inp.Run     // input data
	Cache   *cache.Store // store of computed indices; nil means compute everything
	ShowMsg bool         // show messages

	ownCache bool // cache was opened by NewMain
}

// NewMain returns a new Main structure
//  Input:
//   runfilepath -- run (.gi, .yaml or .yml) filename including full path
//   verbose     -- show messages
//  Note: call Close when done
func NewMain(runfilepath string, verbose bool) (o *Main, err error) {

	// read input data
	o = &Main{ShowMsg: verbose}
	o.Inp, err = inp.ReadRun(runfilepath)
	if err != nil {
		return nil, err
	}
	if o.ShowMsg {
		io.Pf("> Run file read\n")
	}

	// cache
	if o.Inp.Data.NoCache {
		return
	}
	cfg := cache.InMemoryConfig()
	if o.Inp.Data.CacheDir != "" {
		cfg = cache.DefaultConfig(os.ExpandEnv(o.Inp.Data.CacheDir))
	}
	o.Cache, err = cache.Open(cfg)
	if err != nil {
		return nil, chk.Err("cannot open cache:\n%v", err)
	}
	o.ownCache = true
	if o.ShowMsg {
		io.Pf("> Cache opened\n")
	}
	return
}

// Close releases resources
func (o *Main) Close() (err error) {
	if o.ownCache && o.Cache != nil {
		err = o.Cache.Close()
		o.Cache = nil
	}
	return
}

// Run computes the indices of all arms, selects the best one and saves the results
//  Note: arms are computed concurrently by at most Data.Workers goroutines
func (o *Main) Run(ctx context.Context) (res *out.Results, err error) {

	// exit commands
	cputime := time.Now()
	defer func() { err = o.onexit(cputime, err) }()

	// models
	arms := o.Inp.Arms
	models := make([]gi.Model, len(arms))
	for i, arm := range arms {
		models[i], err = arm.GetModel()
		if err != nil {
			return
		}
	}

	// message
	if o.ShowMsg {
		io.Pf("> Computing indices of %d arms\n", len(arms))
	}

	// compute
	res = &out.Results{Desc: o.Inp.Data.Desc, Gamma: o.Inp.Gamma, Arms: make([]*out.ArmResult, len(arms))}
	g, gctx := errgroup.WithContext(ctx)
	if o.Inp.Data.Workers > 0 {
		g.SetLimit(o.Inp.Data.Workers)
	}
	for i, arm := range arms {
		g.Go(func() error {
			r, err := o.compute(gctx, arm, models[i])
			if err != nil {
				return err
			}
			res.Arms[i] = r
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	// best arm
	res.Best = res.Arms[gi.Select(res.Indices())].Name
	if o.ShowMsg {
		io.Pf("%v", res)
	}

	// save results
	fn, err := res.Save(o.Inp.Data.DirOut, o.Inp.Key, o.Inp.EncType)
	if err != nil {
		return nil, err
	}
	if o.ShowMsg {
		io.Pf("> Results saved in %q\n", fn)
	}
	return
}

// compute computes the index of one arm, unless it is found in the cache
//  Note: failing to store the index in the cache does not fail the run
func (o *Main) compute(ctx context.Context, arm *inp.ArmData, mdl gi.Model) (r *out.ArmResult, err error) {
	r = &out.ArmResult{Name: arm.Name, Model: arm.Model, Mean: mdl.Mean()}
	sig := mdl.Signature()
	if o.Cache != nil {
		e, found, err := o.Cache.Lookup(ctx, arm.Model, sig)
		if err != nil {
			return nil, err
		}
		if found {
			r.Index, r.Elapsed, r.Cached = e.Value, e.Elapsed, true
			if o.ShowMsg {
				io.Pfgreen("> %-12s index = %g (cached)\n", arm.Name, r.Index)
			}
			return r, nil
		}
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	t0 := time.Now()
	r.Index, err = mdl.Calc(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, chk.Err("arm %q:\n%v", arm.Name, err)
	}
	r.Elapsed = time.Since(t0)
	if o.ShowMsg {
		io.Pfcyan("> %-12s index = %g (%v)\n", arm.Name, r.Index, r.Elapsed)
	}
	if o.Cache != nil {
		e := &cache.Entry{Model: arm.Model, Prms: sig, Value: r.Index, Elapsed: r.Elapsed, Created: t0}
		if perr := o.Cache.Put(ctx, cache.Key(arm.Model, sig...), e); perr != nil && o.ShowMsg {
			io.PfRed("> %-12s index cannot be cached: %v\n", arm.Name, perr)
		}
	}
	return
}

// onexit prints final message with cpu time
func (o *Main) onexit(cputime time.Time, prevErr error) error {
	if o.ShowMsg {
		if prevErr == nil {
			io.PfGreen("> Success\n")
			io.Pf("> CPU time = %v\n", time.Since(cputime))
		} else {
			io.PfRed("> Failed\n")
		}
	}
	return prevErr
}
