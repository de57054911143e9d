// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks the shape of synced records before they reach a
// store: medications, medication logs and user settings.
//
// The same validator runs on the device, before a local write, and on the
// server, before a remote write, so both sides reject the same records.
package validators

import "context"

// Validator checks obj. When fields are given only those fields are
// checked; otherwise the whole record is.
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}
