// Package utils provides helpers shared across the client daemon and the
// server: context keys, identifiers, content hashing, JSON responses, the
// HTTP client wrapper and JWT handling.
package utils

import (
	"context"
)

// contextKey is a private type for context keys, preventing collisions with
// string keys set by other packages.
type contextKey string

// String implements fmt.Stringer.
func (c contextKey) String() string {
	return string(c)
}

// OwnerIDCtxKey is the key under which the authenticated owner id is stored
// by the server auth middleware.
var OwnerIDCtxKey = contextKey("ownerID")

// WithOwnerID returns a copy of ctx carrying ownerID.
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, OwnerIDCtxKey, ownerID)
}

// GetOwnerIDFromContext returns the owner id stored in ctx. ok is false when
// the value is missing, empty or of an unexpected type.
func GetOwnerIDFromContext(ctx context.Context) (string, bool) {
	ownerID, ok := ctx.Value(OwnerIDCtxKey).(string)
	return ownerID, ok && ownerID != ""
}

// DeviceIDHeader names the request header in which a device announces
// itself, so the server can stamp change events with the writing device.
const DeviceIDHeader = "X-Device-ID"

// DeviceIDCtxKey is the key under which the writing device id is stored.
var DeviceIDCtxKey = contextKey("deviceID")

// WithDeviceID returns a copy of ctx carrying deviceID.
func WithDeviceID(ctx context.Context, deviceID string) context.Context {
	return context.WithValue(ctx, DeviceIDCtxKey, deviceID)
}

// GetDeviceIDFromContext returns the device id stored in ctx, or "".
func GetDeviceIDFromContext(ctx context.Context) string {
	deviceID, _ := ctx.Value(DeviceIDCtxKey).(string)
	return deviceID
}
