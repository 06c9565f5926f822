// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package cache implements a persistent store of computed Gittins indices
//  Indices are expensive to compute and fully determined by the model signature; therefore they
//  are kept in a BadgerDB database with msgpack-encoded entries.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// keyPrefix is the prefix of all keys holding indices
const keyPrefix = "gi/"

// Config holds configuration of the store
type Config struct {
	Path       string       // directory of database files. ignored if InMemory
	InMemory   bool         // do not persist to disk
	SyncWrites bool         // synchronous writes
	Logger     *slog.Logger // logger of database operations; nil disables logging
}

// DefaultConfig returns the configuration of a persistent store at path
func DefaultConfig(path string) Config {
	return Config{Path: path, SyncWrites: true}
}

// InMemoryConfig returns the configuration of a store that is lost when closed
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// Entry holds one computed index
type Entry struct {
	Model   string        `msgpack:"model"`   // model name
	Prms    []float64     `msgpack:"prms"`    // model signature
	Value   float64       `msgpack:"value"`   // Gittins index
	Elapsed time.Duration `msgpack:"elapsed"` // computing time
	Created time.Time     `msgpack:"created"` // when the index was computed
}

// Store holds computed indices
//  Note: Store is safe for concurrent use
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLogger adapts slog.Logger to the badger.Logger interface
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Open opens a store
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent cache")
	}
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create cache directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	logger := cfg.Logger
	if logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: logger})
	} else {
		opts = opts.WithLogger(nil)
		logger = slog.New(slog.DiscardHandler)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close closes the store
func (o *Store) Close() error {
	return o.db.Close()
}

// Key returns the key of an index given the model name and its signature
//  Note: the signature is hashed with SHA-256 over the exact bit patterns of its values, so keys
//        have a fixed length whatever the size of the model. Lookup compares the full signature.
func Key(model string, signature ...float64) string {
	h := sha256.New()
	var buf [8]byte
	for _, v := range signature {
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	return keyPrefix + model + "/" + hex.EncodeToString(h.Sum(nil))
}

// sameSignature tells whether a and b hold the same bit patterns
func sameSignature(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			return false
		}
	}
	return true
}

// Lookup gets the entry of a model with the given signature
//  Note: an entry stored under the same key with a different signature is reported as not found
func (o *Store) Lookup(ctx context.Context, model string, signature []float64) (e *Entry, found bool, err error) {
	key := Key(model, signature...)
	e, found, err = o.Get(ctx, key)
	if err != nil || !found {
		return
	}
	if e.Model != model || !sameSignature(e.Prms, signature) {
		o.logger.Warn("cache key collision", slog.String("key", key), slog.String("model", e.Model))
		return nil, false, nil
	}
	return
}

// Get gets an entry
//  Output:
//   found -- false if the key is not in the store
func (o *Store) Get(ctx context.Context, key string) (e *Entry, found bool, err error) {
	if err = ctx.Err(); err != nil {
		return
	}
	err = o.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			e = new(Entry)
			return msgpack.Unmarshal(val, e)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	o.logger.Debug("cache hit", slog.String("key", key), slog.Float64("value", e.Value))
	return e, true, nil
}

// Put puts an entry, replacing any previous one
func (o *Store) Put(ctx context.Context, key string, e *Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e == nil {
		return errors.New("entry must not be nil")
	}
	val, err := msgpack.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	err = o.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), val)
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	o.logger.Debug("cache put", slog.String("key", key), slog.Float64("value", e.Value))
	return nil
}

// Len returns the number of entries
func (o *Store) Len(ctx context.Context) (n int, err error) {
	err = o.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	return
}
