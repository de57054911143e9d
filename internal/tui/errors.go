// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"

	"github.com/sevenoy/GeminiMeds/internal/adapter"
	"github.com/sevenoy/GeminiMeds/internal/service"
)

func humanizeError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, adapter.ErrUnauthorized), errors.Is(err, service.ErrUnauthenticated):
		return "Нужно войти: сессия отсутствует или истекла"
	case errors.Is(err, service.ErrInvalidToken):
		return "Токен не распознан"
	case errors.Is(err, service.ErrSnapshotNotFound):
		return "В облаке нет сохранённой копии"
	case errors.Is(err, service.ErrInvalidDataProvided):
		return "Проверьте введённые данные: " + err.Error()
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "context deadline exceeded") {
		return "Отсутствует сеть или Сервер недоступен"
	}

	return err.Error()
}
