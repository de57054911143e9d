package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sevenoy/GeminiMeds/internal/store"
	"github.com/sevenoy/GeminiMeds/internal/utils"
)

type deviceIdentity struct {
	meta     store.MetaRepository
	override string
	now      func() time.Time

	mu       sync.Mutex
	deviceID string
}

// NewDeviceIdentity resolves the device id from the meta table. A non-empty
// override wins and is never persisted.
func NewDeviceIdentity(meta store.MetaRepository, override string) DeviceIdentity {
	return &deviceIdentity{meta: meta, override: override, now: time.Now}
}

func (d *deviceIdentity) DeviceID(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.deviceID != "" {
		return d.deviceID, nil
	}
	if d.override != "" {
		d.deviceID = d.override
		return d.deviceID, nil
	}

	id, err := d.meta.Get(ctx, store.MetaDeviceID)
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		id = utils.NewDeviceID(d.now())
		if err := d.meta.Set(ctx, store.MetaDeviceID, id); err != nil {
			return "", fmt.Errorf("persist device id: %w", err)
		}
	case err != nil:
		return "", fmt.Errorf("read device id: %w", err)
	}

	d.deviceID = id
	return id, nil
}
