// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

// Package metrics declares the Prometheus collectors of the Mesto server.
//
// Collectors are registered with the default registry through promauto and
// exposed by the /metrics route. Label values are always bounded: endpoints
// are chi route patterns, never raw paths.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
	)

	APIErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_errors_total",
			Help: "Total number of failed requests by error kind",
		},
		[]string{"kind"},
	)

	// Store Metrics (BadgerDB)
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Duration of document store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "collection"},
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operation_errors_total",
			Help: "Total number of failed document store operations",
		},
		[]string{"operation", "collection", "error_type"},
	)

	StoreTxnConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "store_txn_conflicts_total",
			Help: "Total number of BadgerDB transaction conflicts that were retried",
		},
	)

	StoreGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_gc_runs_total",
			Help: "Total number of value log GC passes by outcome",
		},
		[]string{"result"},
	)

	// Authentication Metrics
	AuthLoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Total number of login attempts by result",
		},
		[]string{"result"},
	)

	AuthTokenValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_validations_total",
			Help: "Total number of bearer token checks by result",
		},
		[]string{"result"},
	)

	// Domain Metrics
	UsersRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mesto_users_registered_total",
			Help: "Total number of registered users",
		},
	)

	CardOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mesto_card_operations_total",
			Help: "Total number of successful card mutations",
		},
		[]string{"operation"}, // "create", "delete", "like", "unlike"
	)
)

// Store error classes used as the error_type label.
const (
	ErrTypeNotFound  = "not_found"
	ErrTypeConflict  = "conflict"
	ErrTypeCanceled  = "canceled"
	ErrTypeDuplicate = "duplicate"
	ErrTypeInvalid   = "invalid"
	ErrTypeOther     = "other"
)

// Classifier lets the store label its own sentinel errors without this
// package importing it.
type Classifier func(err error) string

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts a request rejected by the rate limiter.
func RecordRateLimitHit() {
	APIRateLimitHits.Inc()
}

// RecordAPIError counts a failed request by error kind name.
func RecordAPIError(kind string) {
	APIErrorsTotal.WithLabelValues(kind).Inc()
}

// RecordStoreOperation records a document store operation. classify may be
// nil; unknown errors are labelled "other".
func RecordStoreOperation(operation, collection string, duration time.Duration, err error, classify Classifier) {
	StoreOperationDuration.WithLabelValues(operation, collection).Observe(duration.Seconds())
	if err == nil {
		return
	}
	errType := ""
	if classify != nil {
		errType = classify(err)
	}
	if errType == "" {
		errType = classifyBadgerError(err)
	}
	StoreOperationErrors.WithLabelValues(operation, collection, errType).Inc()
}

func classifyBadgerError(err error) string {
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return ErrTypeNotFound
	case errors.Is(err, badger.ErrConflict):
		return ErrTypeConflict
	case errors.Is(err, badger.ErrTxnTooBig):
		return "txn_too_big"
	default:
		return ErrTypeOther
	}
}

// RecordTxnConflict counts a retried BadgerDB transaction conflict.
func RecordTxnConflict() {
	StoreTxnConflicts.Inc()
}

// RecordGCRun counts a value log GC pass. result is "rewritten", "noop" or "error".
func RecordGCRun(result string) {
	StoreGCRuns.WithLabelValues(result).Inc()
}

// RecordLogin counts a login attempt.
func RecordLogin(success bool) {
	if success {
		AuthLoginAttempts.WithLabelValues("success").Inc()
	} else {
		AuthLoginAttempts.WithLabelValues("failure").Inc()
	}
}

// RecordTokenValidation counts a bearer token check. result is "valid",
// "missing" or "invalid".
func RecordTokenValidation(result string) {
	AuthTokenValidations.WithLabelValues(result).Inc()
}

// RecordUserRegistered counts a successful registration.
func RecordUserRegistered() {
	UsersRegistered.Inc()
}

// RecordCardOperation counts a successful card mutation.
func RecordCardOperation(operation string) {
	CardOperations.WithLabelValues(operation).Inc()
}
