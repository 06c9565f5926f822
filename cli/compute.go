// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gogi/gi"
	"github.com/cpmech/gogi/out"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newBernoulliCmd() *cobra.Command {
	var α, β, γ float64
	opts := new(gi.BernoulliOpts)
	opts.SetDefault()
	cmd := &cobra.Command{
		Use:   "bernoulli",
		Short: "Compute the index of a Bernoulli arm with prior Beta(alpha, beta)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := gi.BernoulliContext(cmd.Context(), α, β, γ, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %.6f\n", titleStyle.Render("index"), v)
			return nil
		},
	}
	cmd.Flags().Float64Var(&α, "alpha", 1, "successes")
	cmd.Flags().Float64Var(&β, "beta", 1, "failures")
	cmd.Flags().Float64Var(&γ, "gamma", 0.9, "discount factor")
	cmd.Flags().IntVar(&opts.N, "horizon", opts.N, "how many pulls to look into the future")
	cmd.Flags().Float64Var(&opts.Tol, "tol", opts.Tol, "tolerance")
	return cmd
}

func newTableCmd() *cobra.Command {
	var α, β, γ float64
	var pulls, workers int
	var plot string
	opts := new(gi.BernoulliOpts)
	opts.SetDefault()
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Compute the indices of all Beta states reachable from Beta(alpha, beta)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			T, err := gi.BernoulliTable(cmd.Context(), α, β, γ, pulls, opts, workers)
			if err != nil {
				return err
			}
			header, rows := out.TableRows(T, α, β)
			fmt.Fprint(cmd.OutOrStdout(), renderTable(header, rows, -1))
			if plot != "" {
				out.PlotTable(T, α, β, filepath.Dir(plot), io.FnKey(filepath.Base(plot)))
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&α, "alpha", 1, "initial successes")
	cmd.Flags().Float64Var(&β, "beta", 1, "initial failures")
	cmd.Flags().Float64Var(&γ, "gamma", 0.9, "discount factor")
	cmd.Flags().IntVar(&pulls, "pulls", 6, "number of pulls; the table holds the states with i+j <= pulls-2")
	cmd.Flags().IntVar(&workers, "workers", 0, "max number of goroutines; 0 means no limit")
	cmd.Flags().IntVar(&opts.N, "horizon", opts.N, "how many pulls to look into the future")
	cmd.Flags().Float64Var(&opts.Tol, "tol", opts.Tol, "tolerance")
	cmd.Flags().StringVar(&plot, "plot", "", "save figure to this path; e.g. /tmp/gogi/table.png")
	return cmd
}

func newGaussianCmd() *cobra.Command {
	var μ, τ, γ float64
	var n int
	var plot string
	opts := new(gi.GaussianOpts)
	opts.SetDefault()
	cmd := &cobra.Command{
		Use:   "gaussian",
		Short: "Compute the index of an arm with Gaussian rewards of known precision",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := gi.GaussianContext(cmd.Context(), μ, τ, n, γ, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %.6f\n", titleStyle.Render("index"), v)
			if plot == "" {
				return nil
			}

			// index versus number of pulls
			var x, y []float64
			for k := 1; k <= 2*n+8; k++ {
				v, err = gi.GaussianContext(cmd.Context(), μ, τ, k, γ, opts)
				if err != nil {
					return err
				}
				x = append(x, float64(k))
				y = append(y, v)
			}
			out.PlotCurve(x, y, "n", io.Sf("μ=%g τ=%g γ=%g", μ, τ, γ), filepath.Dir(plot), io.FnKey(filepath.Base(plot)))
			return nil
		},
	}
	cmd.Flags().Float64Var(&μ, "mu", 0, "posterior mean")
	cmd.Flags().Float64Var(&τ, "tau", 1, "observation precision")
	cmd.Flags().IntVar(&n, "n", 1, "number of pulls so far")
	cmd.Flags().Float64Var(&γ, "gamma", 0.9, "discount factor")
	cmd.Flags().Float64Var(&opts.Xi, "xi", opts.Xi, "half range of discretisation in standard deviations")
	cmd.Flags().Float64Var(&opts.Delta, "delta", opts.Delta, "step of discretisation in standard deviations")
	cmd.Flags().IntVar(&opts.N, "horizon", opts.N, "how many pulls to look into the future")
	cmd.Flags().Float64Var(&opts.Tol, "tol", opts.Tol, "tolerance")
	cmd.Flags().StringVar(&plot, "plot", "", "save figure of index versus number of pulls to this path; e.g. /tmp/gogi/gaussian.png")
	return cmd
}

// chainFile holds a Markov reward process read from a JSON or YAML file
type chainFile struct {
	P       [][]float64 `json:"P" yaml:"P"`
	R       []float64   `json:"r" yaml:"r"`
	Initial int         `json:"initial" yaml:"initial"`
	Gamma   float64     `json:"gamma" yaml:"gamma"`
}

// readChainFile reads a chain file
func readChainFile(fnpath string) (o *chainFile, err error) {
	b, err := os.ReadFile(fnpath)
	if err != nil {
		return nil, chk.Err("cannot read chain file %q:\n%v", fnpath, err)
	}
	o = new(chainFile)
	switch strings.ToLower(filepath.Ext(fnpath)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, o)
	default:
		err = json.Unmarshal(b, o)
	}
	if err != nil {
		return nil, chk.Err("cannot parse chain file %q:\n%v", fnpath, err)
	}
	return
}

func newDiscreteCmd() *cobra.Command {
	var fnpath string
	var γ float64
	cmd := &cobra.Command{
		Use:   "discrete",
		Short: "Compute the indices of all states of a Markov reward process",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cf, err := readChainFile(fnpath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("gamma") || cf.Gamma == 0 {
				cf.Gamma = γ
			}
			c, err := gi.NewChain(len(cf.R), cf.P, cf.R)
			if err != nil {
				return err
			}
			indices, order, err := gi.DiscreteAllContext(cmd.Context(), c, cf.Gamma)
			if err != nil {
				return err
			}
			rows := make([][]string, len(order))
			for k, s := range order {
				rows[k] = []string{io.Sf("%d", s), io.Sf("%g", cf.R[s]), io.Sf("%.6f", indices[s])}
			}
			highlight := -1
			for k, s := range order {
				if s == cf.Initial {
					highlight = k
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"state", "reward", "index"}, rows, highlight))
			return nil
		},
	}
	cmd.Flags().StringVarP(&fnpath, "file", "f", "", "chain file (.json, .yaml or .yml) with P, r, initial and gamma")
	cmd.Flags().Float64Var(&γ, "gamma", 0.9, "discount factor; overrides the chain file")
	cmd.MarkFlagRequired("file")
	return cmd
}
