// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package server runs the GeminiMeds remote store transports: the REST API
// with its websocket change feed, and the gRPC health endpoint.
//
// Shutdown hooks registered with OnShutdown run before the transports stop,
// so long-lived feed connections are closed before http.Server.Shutdown
// waits for in-flight requests.
package server
