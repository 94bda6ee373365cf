// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

/*
Package middleware provides the infrastructure HTTP middleware of the API.

Key Components:

  - RequestID: echoes or generates X-Request-ID and puts it in the logging context
  - RequestLogger: one structured log line per completed request
  - PrometheusMetrics: request count, latency and in-flight gauge per route

All three are chi-compatible (func(http.Handler) http.Handler) and are
installed globally by the router:

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.PrometheusMetrics)

The metrics and logs are labelled with the chi route pattern
("/cards/{cardId}/likes") rather than the raw path, which keeps label
cardinality bounded. Requests that match no route are labelled "unmatched".
*/
package middleware
