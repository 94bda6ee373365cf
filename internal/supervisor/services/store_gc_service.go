// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

package services

import (
	"context"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/mesto/internal/logging"
	"github.com/tomtom215/mesto/internal/metrics"
)

// GC results recorded per pass.
const (
	GCResultRewritten = "rewritten"
	GCResultNoop      = "noop"
	GCResultError     = "error"
)

// GarbageCollector is satisfied by *store.Store.
type GarbageCollector interface {
	RunGC(ctx context.Context, discardRatio float64) (bool, error)
	InMemory() bool
}

// StoreGCService periodically reclaims BadgerDB value log space.
type StoreGCService struct {
	store        GarbageCollector
	interval     time.Duration
	discardRatio float64
	name         string
}

// NewStoreGCService creates the service. A ratio outside (0, 1) means 0.5.
func NewStoreGCService(store GarbageCollector, interval time.Duration, discardRatio float64) *StoreGCService {
	if discardRatio <= 0 || discardRatio >= 1 {
		discardRatio = 0.5
	}
	return &StoreGCService{
		store:        store,
		interval:     interval,
		discardRatio: discardRatio,
		name:         "store-gc",
	}
}

// Serve implements suture.Service. In-memory stores and a non-positive
// interval return suture.ErrDoNotRestart straight away.
func (s *StoreGCService) Serve(ctx context.Context) error {
	logger := logging.WithComponent(s.name)

	if s.store.InMemory() || s.interval <= 0 {
		logger.Debug().Msg("Value log GC disabled")
		return suture.ErrDoNotRestart
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *StoreGCService) runOnce(ctx context.Context) {
	start := time.Now()
	rewritten, err := s.store.RunGC(ctx, s.discardRatio)

	switch {
	case err != nil && ctx.Err() != nil:
		return
	case err != nil:
		metrics.RecordGCRun(GCResultError)
		logging.Warn().Err(err).Str("component", s.name).Msg("Value log GC failed")
	case rewritten:
		metrics.RecordGCRun(GCResultRewritten)
		logging.Debug().Str("component", s.name).Dur("duration", time.Since(start)).Msg("Value log GC rewrote files")
	default:
		metrics.RecordGCRun(GCResultNoop)
	}
}

// String names the service in supervisor events.
func (s *StoreGCService) String() string {
	return s.name
}
