// Package bootstrap orchestrates application lifecycle for ssekit services.
//
// It provides typed configuration, component registration, startup/shutdown
// hooks, and signal-driven graceful shutdown.
//
// # Quick Start
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	app.RegisterComponent(serverComponent)
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package bootstrap
