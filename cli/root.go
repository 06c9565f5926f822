// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package cli implements the gogi command line
package cli

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/spf13/cobra"
)

// Version of gogi
const Version = "1.0"

// NewRootCmd returns the root command with all subcommands
func NewRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   "gogi",
		Short: "Gogi computes Gittins indices of bandit arms",
		Long: `Gogi computes Gittins indices of Bernoulli, Gaussian and discrete Markov arms.

The index of an arm is the constant reward that makes playing the arm and
retiring equally attractive. Playing the arm with the largest index is optimal.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			io.Verbose = verbose
			chk.Verbose = verbose
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show messages")
	root.AddCommand(
		newRunCmd(&verbose),
		newBernoulliCmd(),
		newTableCmd(),
		newGaussianCmd(),
		newDiscreteCmd(),
		newServeCmd(),
		newDocindexCmd(),
	)
	return root
}

// Execute runs the command line
func Execute() error {
	return NewRootCmd().Execute()
}
