// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// ContentHash returns the hex-encoded SHA-256 digest of a photo payload.
// The digest doubles as the photo's object key in the remote store.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// VerifyContentHash reports whether data hashes to the given hex digest.
// The comparison is case-insensitive and constant-time.
func VerifyContentHash(data []byte, hash string) bool {
	want := ContentHash(data)
	got := strings.ToLower(hash)
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}
