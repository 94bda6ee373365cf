// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

/*
Package supervisor runs the long-lived services of the Mesto server under a
suture v4 supervisor tree.

# Tree

	mesto
	├── data-layer
	│   └── store-gc      (on-disk store only)
	└── api-layer
	    └── http-server

A service that returns an error is restarted. Once failures pass
FailureThreshold (decaying over FailureDecay seconds) the supervisor waits
FailureBackoff before the next restart. Returning suture.ErrDoNotRestart
removes a service for good; the GC service does that for in-memory stores.

Supervisor events go through sutureslog into the zerolog logger:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddDataService(services.NewStoreGCService(db, cfg.Database.GCInterval, cfg.Database.GCRatio))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	err = tree.Serve(ctx)

Canceling ctx stops every service. Anything still running after
ShutdownTimeout shows up in UnstoppedServiceReport.
*/
package supervisor
