// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/io"
)

// TableRows formats a table of Bernoulli indices computed from Beta(α, β)
//  Output:
//   header -- labels of columns: "α\β" followed by β+j
//   rows   -- one row per i: α+i followed by T[i][j]. NaN entries are left blank
func TableRows(T [][]float64, α, β float64) (header []string, rows [][]string) {
	header = []string{"α\\β"}
	if len(T) > 0 {
		for j := range T[0] {
			header = append(header, io.Sf("%g", β+float64(j)))
		}
	}
	rows = make([][]string, len(T))
	for i, row := range T {
		rows[i] = append(rows[i], io.Sf("%g", α+float64(i)))
		for _, v := range row {
			if math.IsNaN(v) {
				rows[i] = append(rows[i], "")
				continue
			}
			rows[i] = append(rows[i], io.Sf("%.4f", v))
		}
	}
	return
}

// TableString returns a text rendering of a table of Bernoulli indices
func TableString(T [][]float64, α, β float64) string {
	header, rows := TableRows(T, α, β)
	var sb strings.Builder
	line := func(cells []string) {
		for k, c := range cells {
			if k == 0 {
				sb.WriteString(io.Sf("%6s", c))
				continue
			}
			sb.WriteString(io.Sf(" %8s", c))
		}
		sb.WriteString("\n")
	}
	line(header)
	for _, r := range rows {
		line(r)
	}
	return sb.String()
}
