// Package services holds the session service that owns the in-memory
// Dataset and drives the ingest, filter, aggregation, export and summary
// pipeline on behalf of the HTTP handlers and the CLI.
package services
