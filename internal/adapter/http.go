// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/sevenoy/GeminiMeds/internal/config"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/utils"
	"github.com/sevenoy/GeminiMeds/models"
)

type httpRemoteStore struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPRemoteStore constructs the REST implementation of [RemoteStore]
// against the server at cfg.HTTPAddress. A bare "host:port" is treated as
// plain http.
func NewHTTPRemoteStore(cfg config.ClientAdapter, log *logger.Logger) (RemoteStore, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	h := &httpRemoteStore{
		client: utils.NewHTTPClient(baseURL, cfg.RequestTimeout),
		logger: log,
	}
	h.SetToken(cfg.Token)

	return h, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyAddress
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", ErrInvalidAddress
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpRemoteStore) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpRemoteStore) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// request starts an authorized request. Without a token no request is sent.
// A device id carried by ctx is announced in the X-Device-ID header.
func (h *httpRemoteStore) request(ctx context.Context) (*resty.Request, error) {
	token := h.Token()
	if token == "" {
		return nil, fmt.Errorf("%w: no session token", ErrUnauthorized)
	}

	req := h.client.R().
		SetContext(ctx).
		SetAuthToken(token)
	if deviceID := utils.GetDeviceIDFromContext(ctx); deviceID != "" {
		req.SetHeader(utils.DeviceIDHeader, deviceID)
	}
	return req, nil
}

func (h *httpRemoteStore) ListMedications(ctx context.Context) ([]models.Medication, error) {
	var result []models.Medication
	if err := h.get(ctx, "/api/medications", &result); err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	return result, nil
}

func (h *httpRemoteStore) UpsertMedication(ctx context.Context, medication models.Medication) error {
	if err := h.put(ctx, "/api/medications/"+url.PathEscape(medication.ID), medication, nil); err != nil {
		return fmt.Errorf("upsert medication %s: %w", medication.ID, err)
	}
	return nil
}

func (h *httpRemoteStore) DeleteMedication(ctx context.Context, id string) error {
	req, err := h.request(ctx)
	if err != nil {
		return err
	}

	resp, err := req.Delete("/api/medications/" + url.PathEscape(id))
	if err != nil {
		return fmt.Errorf("delete medication request: %w", err)
	}
	return mapHTTPError(resp)
}

func (h *httpRemoteStore) ListLogs(ctx context.Context) ([]models.MedicationLog, error) {
	var result []models.MedicationLog
	if err := h.get(ctx, "/api/logs", &result); err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return result, nil
}

func (h *httpRemoteStore) UpsertLog(ctx context.Context, log models.MedicationLog) error {
	log.Photo = nil
	log.SyncState = ""

	if err := h.put(ctx, "/api/logs/"+url.PathEscape(log.ID), log, nil); err != nil {
		return fmt.Errorf("upsert log %s: %w", log.ID, err)
	}
	return nil
}

func (h *httpRemoteStore) GetSnapshot(ctx context.Context, key string) (models.AppSnapshot, error) {
	var snapshot models.AppSnapshot
	if err := h.get(ctx, "/api/snapshots/"+url.PathEscape(key), &snapshot); err != nil {
		return models.AppSnapshot{}, fmt.Errorf("get snapshot %s: %w", key, err)
	}
	return snapshot, nil
}

func (h *httpRemoteStore) UpsertSnapshot(ctx context.Context, snapshot models.AppSnapshot) (models.AppSnapshot, error) {
	var stored models.AppSnapshot
	if err := h.put(ctx, "/api/snapshots/"+url.PathEscape(snapshot.Key), snapshot, &stored); err != nil {
		return models.AppSnapshot{}, fmt.Errorf("upsert snapshot %s: %w", snapshot.Key, err)
	}
	return stored, nil
}

func (h *httpRemoteStore) GetSettings(ctx context.Context) (models.UserSettings, error) {
	var settings models.UserSettings
	if err := h.get(ctx, "/api/settings", &settings); err != nil {
		return models.UserSettings{}, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}

func (h *httpRemoteStore) UpsertSettings(ctx context.Context, settings models.UserSettings) error {
	if err := h.put(ctx, "/api/settings", settings, nil); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

func (h *httpRemoteStore) UploadPhoto(ctx context.Context, hash string, data []byte) (models.PhotoRef, error) {
	req, err := h.request(ctx)
	if err != nil {
		return models.PhotoRef{}, err
	}

	var ref models.PhotoRef
	resp, err := req.
		SetHeader("Content-Type", "application/octet-stream").
		SetBody(data).
		SetResult(&ref).
		Put("/api/photos/" + url.PathEscape(hash))
	if err != nil {
		return models.PhotoRef{}, fmt.Errorf("upload photo request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PhotoRef{}, fmt.Errorf("upload photo %s: %w", hash, err)
	}

	return ref, nil
}

func (h *httpRemoteStore) get(ctx context.Context, path string, result any) error {
	req, err := h.request(ctx)
	if err != nil {
		return err
	}

	resp, err := req.SetResult(result).Get(path)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	return mapHTTPError(resp)
}

func (h *httpRemoteStore) put(ctx context.Context, path string, body, result any) error {
	req, err := h.request(ctx)
	if err != nil {
		return err
	}

	req.SetHeader("Content-Type", "application/json").SetBody(body)
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Put(path)
	if err != nil {
		h.logger.Err(err).Str("func", "httpRemoteStore.put").Str("path", path).Msg("request failed")
		return fmt.Errorf("request: %w", err)
	}
	return mapHTTPError(resp)
}
