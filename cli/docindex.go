// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/cpmech/gogi/docindex"
	"github.com/cpmech/gosl/chk"
	"github.com/spf13/cobra"
)

func newDocindexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docindex",
		Short: "Inspect documentation search indices",
	}

	var roundtrip bool
	check := &cobra.Command{
		Use:   "check <search_index.js>",
		Short: "Check the structure and categories of a search index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return chk.Err("cannot read search index file %q:\n%v", args[0], err)
			}
			idx, err := docindex.Parse(b)
			if err != nil {
				return err
			}
			if err = idx.Validate(); err != nil {
				return err
			}
			if roundtrip && !bytes.Equal(idx.Bytes(), b) {
				return chk.Err("search index %q is not written in canonical layout", args[0])
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %d records\n", titleStyle.Render(args[0]), len(idx.Docs))
			fmt.Fprintf(w, "%s\n", mutedStyle.Render(idx.CountString()))
			return nil
		},
	}
	check.Flags().BoolVar(&roundtrip, "roundtrip", false, "also check that re-encoding reproduces the file byte by byte")

	format := &cobra.Command{
		Use:   "format <in> <out>",
		Short: "Re-encode a search index in canonical layout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := docindex.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err = os.WriteFile(args[1], idx.Bytes(), 0644); err != nil {
				return chk.Err("cannot write %q:\n%v", args[1], err)
			}
			return nil
		},
	}

	cmd.AddCommand(check, format)
	return cmd
}
