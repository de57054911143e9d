// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// GeminiMeds server handlers and middleware.
//
// All Msg* constants are human-readable message strings written into HTTP
// response bodies when a request is rejected before it reaches a service.
package app

const (
	// MsgInvalidJSON is returned when a record body cannot be decoded.
	MsgInvalidJSON = "Invalid JSON was passed"

	// MsgRecordIDMismatch is returned when the id inside a record body does
	// not match the id in the request path.
	MsgRecordIDMismatch = "record id does not match the path"

	// MsgUnreadableBody is returned when the request body cannot be read.
	MsgUnreadableBody = "failed to read request body"

	// MsgInvalidGzip is returned when a body sent with
	// "Content-Encoding: gzip" is not a valid gzip stream.
	MsgInvalidGzip = "Invalid gzip data"

	// MsgIntegrityCheckFailed is returned when an uploaded photo does not
	// hash to the content hash in its path.
	MsgIntegrityCheckFailed = "Integrity check failed"

	// MsgNotFound is returned for a path that exists but does not serve
	// the requested method.
	MsgNotFound = "not found"

	// MsgFeedUnavailable is returned when the server runs without a change
	// feed.
	MsgFeedUnavailable = "change feed is not available"
)
