// Package config loads, merges and validates the configuration of the sync
// server and the sync client.
//
// Configuration is assembled from multiple sources; later sources override
// earlier non-zero fields:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// The entry points are [GetStructuredConfig] for the server and
// [GetClientConfig] for the client.
package config
