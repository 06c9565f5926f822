// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cpmech/gogi/cache"
	"github.com/cpmech/gogi/srv"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cfg := srv.DefaultConfig()
	var cachedir string
	var nocache bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve index computations over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
			var store *cache.Store
			if !nocache {
				ccfg := cache.InMemoryConfig()
				if cachedir != "" {
					ccfg = cache.DefaultConfig(cachedir)
				}
				ccfg.Logger = logger
				var err error
				store, err = cache.Open(ccfg)
				if err != nil {
					return err
				}
				defer store.Close()
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.NewServer(cfg, store, logger).ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "address to listen to")
	cmd.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "max number of goroutines computing one table; 0 means no limit")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "max time computing one request; 0 means no limit")
	cmd.Flags().StringVar(&cachedir, "cachedir", "", "directory of persistent cache; empty means in-memory")
	cmd.Flags().BoolVar(&nocache, "nocache", false, "do not cache indices")
	return cmd
}
