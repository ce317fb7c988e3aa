// Package http contains the chi HTTP handlers for the dashboard API:
// file uploads, record and aggregate queries, dataset exports and the
// summary endpoint. All error responses follow RFC 7807.
package http
