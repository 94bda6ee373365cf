// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/mesto/internal/metrics"
)

type fakeGC struct {
	inMemory  bool
	rewritten bool
	err       error
	runs      atomic.Int32
	ratio     atomic.Value
}

func (f *fakeGC) RunGC(_ context.Context, ratio float64) (bool, error) {
	f.runs.Add(1)
	f.ratio.Store(ratio)
	return f.rewritten, f.err
}

func (f *fakeGC) InMemory() bool { return f.inMemory }

var _ suture.Service = (*StoreGCService)(nil)

func TestStoreGCService_DisabledDoesNotRestart(t *testing.T) {
	tests := []struct {
		name     string
		gc       *fakeGC
		interval time.Duration
	}{
		{"in-memory store", &fakeGC{inMemory: true}, time.Millisecond},
		{"zero interval", &fakeGC{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewStoreGCService(tt.gc, tt.interval, 0.5)
			if err := svc.Serve(context.Background()); !errors.Is(err, suture.ErrDoNotRestart) {
				t.Errorf("Serve() = %v, want ErrDoNotRestart", err)
			}
			if tt.gc.runs.Load() != 0 {
				t.Error("GC ran while disabled")
			}
		})
	}
}

func TestStoreGCService_RunsOnInterval(t *testing.T) {
	gc := &fakeGC{rewritten: true}
	svc := NewStoreGCService(gc, 5*time.Millisecond, 0)

	before := testutil.ToFloat64(metrics.StoreGCRuns.WithLabelValues(GCResultRewritten))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for gc.runs.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if gc.runs.Load() < 2 {
		t.Fatalf("GC ran %d times, want at least 2", gc.runs.Load())
	}
	if ratio, _ := gc.ratio.Load().(float64); ratio != 0.5 {
		t.Errorf("discard ratio = %v, want default 0.5", ratio)
	}
	if got := testutil.ToFloat64(metrics.StoreGCRuns.WithLabelValues(GCResultRewritten)) - before; got < 2 {
		t.Errorf("rewritten runs recorded = %v, want >= 2", got)
	}
}

func TestStoreGCService_RunOnceResults(t *testing.T) {
	tests := []struct {
		name   string
		gc     *fakeGC
		result string
	}{
		{"rewritten", &fakeGC{rewritten: true}, GCResultRewritten},
		{"nothing to do", &fakeGC{}, GCResultNoop},
		{"failure", &fakeGC{err: errors.New("disk gone")}, GCResultError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := metrics.StoreGCRuns.WithLabelValues(tt.result)
			before := testutil.ToFloat64(counter)

			NewStoreGCService(tt.gc, time.Minute, 0.7).runOnce(context.Background())

			if got := testutil.ToFloat64(counter) - before; got != 1 {
				t.Errorf("%s runs recorded = %v, want 1", tt.result, got)
			}
		})
	}
}
