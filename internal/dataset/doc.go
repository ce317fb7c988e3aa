// Package dataset implements the CSV ingestion and filtering engine behind
// the dashboard: normalizing heterogeneous uploads into the TaskRecord
// schema, combining files into one in-memory Dataset, and answering
// filter and aggregation queries against it.
package dataset
