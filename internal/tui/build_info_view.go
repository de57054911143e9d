// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/sevenoy/GeminiMeds/models"
)

func renderBuildInfoWindow(info models.AppBuildInfo, deviceID string) string {
	var b strings.Builder

	b.WriteString("Название приложения: GeminiMeds\n")
	b.WriteString("Версия: ")
	b.WriteString(valueOrNA(info.BuildVersion))
	b.WriteString("\n")
	b.WriteString("Дата: ")
	b.WriteString(valueOrNA(info.BuildDate))
	b.WriteString("\n")
	b.WriteString("Коммит: ")
	b.WriteString(valueOrNA(info.BuildCommit))
	b.WriteString("\n")
	b.WriteString("Устройство: ")
	b.WriteString(valueOrNA(deviceID))

	return renderPage("ИНФОРМАЦИЯ О ПРОГРАММЕ", b.String(), "esc: назад")
}

func valueOrNA(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return models.NotAvailable
	}
	return v
}
