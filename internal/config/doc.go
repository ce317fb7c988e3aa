// Package config provides application configuration loaded from an optional
// YAML file with environment variable overrides (prefix TASKLENS).
//
// Precedence, highest first:
//  1. Environment variables (TASKLENS_SERVER_PORT, TASKLENS_SUMMARY_API_KEY, ...)
//  2. YAML config file (tasklens.yaml next to the binary, or TASKLENS_CONFIG)
//  3. Struct tag defaults
package config
