// Package exporter serializes the currently filtered dashboard view back
// to downloadable CSV and XLSX documents.
package exporter
