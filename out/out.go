// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements output handling of Gittins index runs: results, tables and plots
package out

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// ArmResult holds the results of one arm
type ArmResult struct {
	Name    string        `json:"name" msgpack:"name"`       // name of arm
	Model   string        `json:"model" msgpack:"model"`     // model name
	Index   float64       `json:"index" msgpack:"index"`     // Gittins index
	Mean    float64       `json:"mean" msgpack:"mean"`       // expected reward of the next pull
	Cached  bool          `json:"cached" msgpack:"cached"`   // index was found in cache
	Elapsed time.Duration `json:"elapsed" msgpack:"elapsed"` // computing time
}

// Results holds the results of a run
type Results struct {
	Desc  string       `json:"desc" msgpack:"desc"`   // description of run
	Gamma float64      `json:"gamma" msgpack:"gamma"` // discount factor
	Arms  []*ArmResult `json:"arms" msgpack:"arms"`   // results of all arms, in input order
	Best  string       `json:"best" msgpack:"best"`   // name of the arm to be played next
}

// Indices returns the indices of all arms
func (o *Results) Indices() (res []float64) {
	res = make([]float64, len(o.Arms))
	for i, a := range o.Arms {
		res[i] = a.Index
	}
	return
}

// Get returns the results of an arm
//  Note: returns nil if not found
func (o *Results) Get(name string) *ArmResult {
	for _, a := range o.Arms {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Save saves results into dirout/fnkey.<enctype>
func (o *Results) Save(dirout, fnkey, enctype string) (fnpath string, err error) {
	if err = os.MkdirAll(dirout, 0777); err != nil {
		return "", chk.Err("cannot create directory for output results (%s): %v", dirout, err)
	}
	fnpath = filepath.Join(dirout, fnkey+"."+enctype)
	f, err := os.Create(fnpath)
	if err != nil {
		return "", chk.Err("cannot create file %q: %v", fnpath, err)
	}
	defer func() {
		if e := f.Close(); e != nil && err == nil {
			err = e
		}
	}()
	enc, err := GetEncoder(f, enctype)
	if err != nil {
		return
	}
	if err = enc.Encode(o); err != nil {
		return "", chk.Err("cannot encode results:\n%v", err)
	}
	return
}

// Load loads results saved with Save
func Load(fnpath, enctype string) (o *Results, err error) {
	f, err := os.Open(fnpath)
	if err != nil {
		return nil, chk.Err("cannot open results file %q: %v", fnpath, err)
	}
	defer f.Close()
	dec, err := GetDecoder(f, enctype)
	if err != nil {
		return
	}
	o = new(Results)
	if err = dec.Decode(o); err != nil {
		return nil, chk.Err("cannot decode results file %q:\n%v", fnpath, err)
	}
	return
}

// String returns a summary of results
func (o *Results) String() (l string) {
	if o.Desc != "" {
		l += io.Sf("%s\n", o.Desc)
	}
	l += io.Sf("%-12s %-10s %12s %12s %8s\n", "arm", "model", "index", "mean", "cached")
	for _, a := range o.Arms {
		mark := ""
		if a.Name == o.Best {
			mark = " <= best"
		}
		l += io.Sf("%-12s %-10s %12.6f %12.6f %8v%s\n", a.Name, a.Model, a.Index, a.Mean, a.Cached, mark)
	}
	return
}
