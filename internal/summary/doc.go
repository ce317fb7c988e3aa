// Package summary turns the aggregated dashboard view into a
// natural-language summary via an external text-generation API.
package summary
