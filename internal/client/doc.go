// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client runs the GeminiMeds device daemon: the local store, the
// sync core, the periodic sync job and the realtime subscription, tied to
// one process lifecycle.
package client
