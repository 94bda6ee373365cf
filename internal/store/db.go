// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/mesto/internal/logging"
	"github.com/tomtom215/mesto/internal/metrics"
	"github.com/tomtom215/mesto/internal/validation"
)

// maxTxnAttempts bounds how often a read-modify-write transaction is retried
// after losing a conflict to a concurrent writer.
const maxTxnAttempts = 5

// Options configures the underlying BadgerDB instance.
type Options struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps everything in RAM. Used by tests and throwaway instances.
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool

	// BcryptCost is used for the dummy comparison FindByCredentials performs
	// for unknown emails. Defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// Store is a BadgerDB document store holding the users and cards collections.
// All methods are safe for concurrent use.
type Store struct {
	db         *badger.DB
	bcryptCost int
	now        func() time.Time
	logger     zerolog.Logger

	users *Users
	cards *Cards
}

// Open opens (or creates) the store described by opts.
func Open(opts Options) (*Store, error) {
	logger := logging.WithComponent("store")

	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Path == "" {
			return nil, fmt.Errorf("store path is required")
		}
		bopts = badger.DefaultOptions(opts.Path)
	}
	bopts.SyncWrites = opts.SyncWrites
	bopts.Logger = badgerLogger{logger: logger}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	s := &Store{
		db:         db,
		bcryptCost: cost,
		now:        time.Now,
		logger:     logger,
	}
	s.users = &Users{s: s}
	s.cards = &Cards{s: s}

	logger.Info().
		Str("path", opts.Path).
		Bool("in_memory", opts.InMemory).
		Msg("Document store opened")

	return s, nil
}

// Users returns the users collection.
func (s *Store) Users() *Users { return s.users }

// Cards returns the cards collection.
func (s *Store) Cards() *Cards { return s.cards }

// Close flushes and closes the database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close badger: %w", err)
	}
	return nil
}

// InMemory reports whether the store has no on-disk value log.
func (s *Store) InMemory() bool {
	return s.db.Opts().InMemory
}

// RunGC runs value log garbage collection until nothing is left to rewrite.
// It reports whether at least one file was rewritten.
func (s *Store) RunGC(ctx context.Context, discardRatio float64) (bool, error) {
	rewritten := false
	for {
		if err := ctx.Err(); err != nil {
			return rewritten, err
		}
		err := s.db.RunValueLogGC(discardRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			return rewritten, nil
		}
		if err != nil {
			return rewritten, fmt.Errorf("value log gc: %w", err)
		}
		rewritten = true
	}
}

// view runs fn in a read-only transaction.
func (s *Store) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(fn)
}

// update runs fn in a read-write transaction. Each call is one atomic
// mutation: fn either commits entirely or not at all. Serializable conflicts
// are retried, re-running fn against fresh reads.
func (s *Store) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 1; attempt <= maxTxnAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		metrics.RecordTxnConflict()
		s.logger.Debug().Int("attempt", attempt).Msg("Transaction conflict, retrying")
	}
	return err
}

// observe records the outcome of one collection operation.
func (s *Store) observe(operation, collection string, start time.Time, err error) {
	metrics.RecordStoreOperation(operation, collection, time.Since(start), err, classifyError)
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return id.String(), nil
}

func checkID(id string) error {
	if !validation.IsStoreID(id) {
		return ErrInvalidID
	}
	return nil
}

func getJSON(txn *badger.Txn, key []byte, dst interface{}) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dst)
	})
}

func setJSON(txn *badger.Txn, key []byte, src interface{}) error {
	data, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := txn.Set(key, data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// scanPrefix decodes every value under prefix, in key order, through decode.
func scanPrefix(txn *badger.Txn, prefix []byte, decode func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		if err := it.Item().Value(decode); err != nil {
			return err
		}
	}
	return nil
}

// validateDocument applies the document's validate tags and converts failures
// into a *SchemaError.
func validateDocument(collection string, doc interface{}) error {
	err := validation.ValidateStruct(doc)
	if err == nil {
		return nil
	}
	se := &SchemaError{Collection: collection}
	for _, fe := range err.Errors() {
		se.Fields = append(se.Fields, FieldViolation{Field: fe.Field(), Tag: fe.Tag()})
	}
	return se
}

// badgerLogger forwards BadgerDB's internal logging to zerolog. Info and
// debug chatter is demoted to debug.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), args...)
}
