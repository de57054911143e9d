// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Errors returned while reading the bearer token of a request. Every one of
// them is answered with 401.
var (
	// ErrEmptyAuthorizationHeader means the request carries no
	// "Authorization" header.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidAuthorizationHeader means the header has no token part.
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrEmptyToken means the token part is present but empty.
	ErrEmptyToken = errors.New("empty token in `Authorization` header")

	// ErrUnsupportedAuthScheme means the header uses a scheme other than
	// Bearer.
	ErrUnsupportedAuthScheme = errors.New("`Authorization` scheme must be Bearer")
)
