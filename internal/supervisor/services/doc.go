// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

// Package services adapts Mesto components to suture.Service.
//
//   - HTTPServerService: ListenAndServe plus graceful Shutdown on cancel
//   - StoreGCService: periodic BadgerDB value log GC with Prometheus results
package services
