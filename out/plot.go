// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"math"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/plt"
)

// PlotTable plots each row of a table of Bernoulli indices against the number of extra failures
//  Note: the figure is saved as dirout/fnkey.png
func PlotTable(T [][]float64, α, β float64, dirout, fnkey string) {
	plt.Reset(false, nil)
	for i, row := range T {
		var x, y []float64
		for j, v := range row {
			if !math.IsNaN(v) {
				x = append(x, β+float64(j))
				y = append(y, v)
			}
		}
		if len(x) > 0 {
			plt.Plot(x, y, &plt.A{M: ".", L: io.Sf("α=%g", α+float64(i))})
		}
	}
	plt.Gll("β", "index", nil)
	plt.Save(dirout, fnkey)
}

// PlotCurve plots the index as a function of one input; e.g. the number of pulls of a Gaussian arm
//  Note: the figure is saved as dirout/fnkey.png
func PlotCurve(x, y []float64, xlabel, label, dirout, fnkey string) {
	plt.Reset(false, nil)
	plt.Plot(x, y, &plt.A{C: "b", M: "o", L: label})
	plt.Gll(xlabel, "index", nil)
	plt.Save(dirout, fnkey)
}
