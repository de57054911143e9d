// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "fmt"

// NotAvailable stands in for build values that were not injected.
const NotAvailable = "N/A"

// AppBuildInfo carries build-time metadata injected with -ldflags.
type AppBuildInfo struct {
	BuildVersion string `json:"version"`
	BuildDate    string `json:"date"`
	BuildCommit  string `json:"commit"`
}

// NewAppBuildInfo fills unset values with [NotAvailable].
func NewAppBuildInfo(buildVersion, buildDate, buildCommit string) AppBuildInfo {
	return AppBuildInfo{
		BuildVersion: orNA(buildVersion),
		BuildDate:    orNA(buildDate),
		BuildCommit:  orNA(buildCommit),
	}
}

func (a AppBuildInfo) String() string {
	return fmt.Sprintf("Build version: %s\nBuild date: %s\nBuild commit: %s", a.BuildVersion, a.BuildDate, a.BuildCommit)
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}
