// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/cpmech/gogi/out"
	"github.com/cpmech/gogi/run"
	"github.com/cpmech/gosl/io"
	"github.com/spf13/cobra"
)

func newRunCmd(verbose *bool) *cobra.Command {
	var dirout string
	cmd := &cobra.Command{
		Use:   "run <file.gi>",
		Short: "Compute the indices of all arms in a run file and select the best one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			main, err := run.NewMain(args[0], *verbose)
			if err != nil {
				return err
			}
			defer main.Close()
			if dirout != "" {
				main.Inp.Data.DirOut = dirout
			}
			res, err := main.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderResults(res))
			return nil
		},
	}
	cmd.Flags().StringVar(&dirout, "dirout", "", "directory for output results; overrides the run file")
	return cmd
}

// renderResults renders the results of a run
func renderResults(res *out.Results) string {
	header := []string{"arm", "model", "index", "mean", "time"}
	rows := make([][]string, len(res.Arms))
	best := -1
	for i, a := range res.Arms {
		elapsed := a.Elapsed.String()
		if a.Cached {
			elapsed = "cached"
		}
		rows[i] = []string{a.Name, a.Model, io.Sf("%.6f", a.Index), io.Sf("%.6f", a.Mean), elapsed}
		if a.Name == res.Best {
			best = i
		}
	}
	l := ""
	if res.Desc != "" {
		l += titleStyle.Render(res.Desc) + "\n"
	}
	l += renderTable(header, rows, best)
	if best >= 0 {
		l += mutedStyle.Render(io.Sf("play %q next", res.Best)) + "\n"
	}
	return l
}
