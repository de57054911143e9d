package store

import (
	"context"
	"sync"

	"github.com/sevenoy/GeminiMeds/internal/echo"
	"github.com/sevenoy/GeminiMeds/models"
)

// observers fans committed user mutations out to registered observers.
// Writes tagged by the sync core through [echo.WithOrigin] are skipped.
type observers struct {
	mu   sync.RWMutex
	list []ChangeObserver
}

func (o *observers) add(fn ChangeObserver) {
	if fn == nil {
		return
	}
	o.mu.Lock()
	o.list = append(o.list, fn)
	o.mu.Unlock()
}

func (o *observers) notify(ctx context.Context, topic models.Topic) {
	if !echo.IsLocal(ctx) {
		return
	}

	o.mu.RLock()
	list := append([]ChangeObserver(nil), o.list...)
	o.mu.RUnlock()

	for _, fn := range list {
		fn(ctx, topic)
	}
}
