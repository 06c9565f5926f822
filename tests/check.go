// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package tests implements structures and functions to compare runs against reference results
package tests

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/cpmech/gogi/out"
	"github.com/cpmech/gogi/run"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Reference holds reference results of one arm
type Reference struct {
	Name  string  `json:"name"`  // name of arm
	Index float64 `json:"index"` // reference index
	Tol   float64 `json:"tol"`   // tolerance; zero means use the one given to CompareResults
	Note  string  `json:"note"`  // source of reference value
}

// ReferenceSet holds reference results of a run
type ReferenceSet struct {
	Best string       `json:"best"` // name of best arm; empty means do not check
	Arms []*Reference `json:"arms"` // arms to be checked; other arms are ignored
}

// CompareResults performs comparison of results (gogi versus .cmp files)
//  Note: results are saved into a temporary directory
func CompareResults(tst *testing.T, runfilepath, cmpfname string, tol float64, verbose bool) (res *out.Results) {

	// driver
	main, err := run.NewMain(runfilepath, verbose)
	if err != nil {
		tst.Errorf("CompareResults: NewMain failed:\n%v", err)
		return
	}
	defer main.Close()
	main.Inp.Data.DirOut = tst.TempDir()

	// run
	res, err = main.Run(context.Background())
	if err != nil {
		tst.Errorf("CompareResults: Run failed:\n%v", err)
		return
	}

	// read file with comparison results
	buf, err := os.ReadFile(cmpfname)
	if err != nil {
		tst.Errorf("CompareResults: ReadFile failed:%v\n", err)
		return
	}
	var cmp ReferenceSet
	err = json.Unmarshal(buf, &cmp)
	if err != nil {
		tst.Errorf("CompareResults: Unmarshal failed:%v\n", err)
		return
	}

	// check
	for _, ref := range cmp.Arms {
		r := res.Get(ref.Name)
		if r == nil {
			tst.Errorf("CompareResults: arm %q is not in results\n", ref.Name)
			continue
		}
		t := tol
		if ref.Tol > 0 {
			t = ref.Tol
		}
		if verbose {
			io.Pf("%-12s index = %12.8f  reference = %12.8f  (%s)\n", ref.Name, r.Index, ref.Index, ref.Note)
		}
		chk.Float64(tst, ref.Name, t, r.Index, ref.Index)
	}
	if cmp.Best != "" {
		chk.String(tst, res.Best, cmp.Best)
	}
	return
}
