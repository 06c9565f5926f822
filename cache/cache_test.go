// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cache

import (
	"context"
	"log/slog"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	k1 := Key("bernoulli", 1, 1, 0.9)
	assert.True(t, strings.HasPrefix(k1, "gi/bernoulli/"))
	assert.Len(t, k1, len("gi/bernoulli/")+64)
	assert.Equal(t, k1, Key("bernoulli", 1, 1, 0.9))
	assert.NotEqual(t, k1, Key("bernoulli", 1, 1, math.Nextafter(0.9, 1)))
	assert.NotEqual(t, k1, Key("bernoulli", 1, 0.9, 1))
	assert.NotEqual(t, k1, Key("gaussian", 1, 1, 0.9))
	assert.NotEqual(t, Key("gaussian", 0), Key("gaussian", math.Copysign(0, -1)))

	// keys of large models have the same length
	big := make([]float64, 50000)
	for i := range big {
		big[i] = float64(i) / 7
	}
	assert.Len(t, Key("discrete", big...), len("gi/discrete/")+64)
	assert.Len(t, Key("discrete"), len("gi/discrete/")+64)
}

func TestStoreLookup(t *testing.T) {
	ctx := context.Background()
	s, err := Open(InMemoryConfig())
	require.NoError(t, err)
	defer s.Close()

	// signature of a large discrete model
	sig := make([]float64, 50000)
	for i := range sig {
		sig[i] = float64(i%97) / 97
	}
	_, found, err := s.Lookup(ctx, "discrete", sig)
	require.NoError(t, err)
	assert.False(t, found)

	in := &Entry{Model: "discrete", Prms: sig, Value: 0.42}
	require.NoError(t, s.Put(ctx, Key("discrete", sig...), in))
	out, found, err := s.Lookup(ctx, "discrete", sig)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 0.42, out.Value)
	assert.Len(t, out.Prms, len(sig))

	// an entry stored under a key that does not match its signature is ignored
	other := []float64{1, 2, 3}
	require.NoError(t, s.Put(ctx, Key("discrete", other...), &Entry{Model: "discrete", Prms: []float64{1, 2, 4}, Value: 1}))
	_, found, err = s.Lookup(ctx, "discrete", other)
	require.NoError(t, err)
	assert.False(t, found)
	require.NoError(t, s.Put(ctx, Key("discrete", other...), &Entry{Model: "bernoulli", Prms: other, Value: 1}))
	_, found, err = s.Lookup(ctx, "discrete", other)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStoreInMemory(t *testing.T) {
	ctx := context.Background()
	s, err := Open(InMemoryConfig())
	require.NoError(t, err)
	defer s.Close()

	key := Key("bernoulli", 1, 1, 0.9)
	_, found, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	now := time.Now()
	in := &Entry{Model: "bernoulli", Prms: []float64{1, 1, 0.9}, Value: 0.7029, Elapsed: 5 * time.Millisecond, Created: now}
	require.NoError(t, s.Put(ctx, key, in))

	out, found, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "bernoulli", out.Model)
	assert.Equal(t, []float64{1, 1, 0.9}, out.Prms)
	assert.Equal(t, 0.7029, out.Value)
	assert.Equal(t, 5*time.Millisecond, out.Elapsed)
	assert.WithinDuration(t, now, out.Created, time.Millisecond)

	// replace
	in.Value = 0.7
	require.NoError(t, s.Put(ctx, key, in))
	require.NoError(t, s.Put(ctx, Key("gaussian", 0, 1), &Entry{Model: "gaussian", Value: 1.2}))
	out, _, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 0.7, out.Value)

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Error(t, s.Put(ctx, key, nil))
}

func TestStorePersistent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg := DefaultConfig(dir)
	cfg.Logger = logger
	s, err := Open(cfg)
	require.NoError(t, err)
	key := Key("gaussian", 0, 1, 1, 0.9)
	require.NoError(t, s.Put(ctx, key, &Entry{Model: "gaussian", Value: 0.5}))
	require.NoError(t, s.Close())

	s, err = Open(cfg)
	require.NoError(t, err)
	defer s.Close()
	out, found, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 0.5, out.Value)
}

func TestStoreErrors(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)

	s, err := Open(InMemoryConfig())
	require.NoError(t, err)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = s.Get(ctx, Key("bernoulli"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Put(ctx, Key("bernoulli"), &Entry{}), context.Canceled)
}
