// Package app provides application initialization and lifecycle management
// for the dashboard server. It wires configuration, logging, the session
// service and the HTTP router together at startup and handles graceful
// shutdown on SIGINT and SIGTERM.
//
// The typical entry point is:
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// Initialization errors are returned to the caller; the package never
// calls os.Exit() itself.
package app
