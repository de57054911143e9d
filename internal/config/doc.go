// Package config loads, merges and validates configuration for the GeminiMeds
// client daemon and the reference remote store server.
//
// Configuration is assembled from several sources. Earlier sources take
// precedence for fields they set; later sources only fill what is still zero:
//  1. Command-line flags
//  2. Environment variables
//  3. JSON config file (path from -c/-config or CONFIG)
//  4. Built-in defaults
//
// The entry points are [GetClientConfig] and [GetServerConfig]; both return
// a validated, role-specific view of [StructuredConfig].
package config
