package service

import (
	"context"
	"encoding/json"

	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/utils"
	"github.com/sevenoy/GeminiMeds/models"
)

// noopPublisher is used when the server runs without a change feed.
type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, models.ChangeEvent) {}

// publishWrite emits an INSERT or UPDATE event for record.
func publishWrite(ctx context.Context, p ChangePublisher, topic models.Topic, ownerID string, inserted bool, record any) {
	eventType := models.EventUpdate
	if inserted {
		eventType = models.EventInsert
	}

	raw, err := json.Marshal(record)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("topic", string(topic)).Msg("change event not published")
		return
	}

	p.Publish(ctx, models.ChangeEvent{
		Topic:   topic,
		Type:    eventType,
		OwnerID: ownerID,
		Device:  utils.GetDeviceIDFromContext(ctx),
		Record:  raw,
	})
}

// publishDelete emits a DELETE event carrying the removed record. The event
// is stamped with the requesting device, which for cascaded log deletes is
// not the device named in the log.
func publishDelete(ctx context.Context, p ChangePublisher, topic models.Topic, ownerID string, old any) {
	raw, err := json.Marshal(old)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("topic", string(topic)).Msg("change event not published")
		return
	}

	p.Publish(ctx, models.ChangeEvent{
		Topic:     topic,
		Type:      models.EventDelete,
		OwnerID:   ownerID,
		Device:    utils.GetDeviceIDFromContext(ctx),
		OldRecord: raw,
	})
}
