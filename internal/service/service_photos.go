package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/store"
	"github.com/sevenoy/GeminiMeds/internal/utils"
	"github.com/sevenoy/GeminiMeds/internal/validators"
	"github.com/sevenoy/GeminiMeds/models"
)

type photoService struct {
	photoStore store.PhotoStore
	validator  validators.Validator

	logger *logger.Logger
}

func NewPhotoService(photoStore store.PhotoStore, logger *logger.Logger) PhotoService {
	return &photoService{
		photoStore: photoStore,
		validator:  validators.NewRecordValidator(),
		logger:     logger,
	}
}

func (p *photoService) Upload(ctx context.Context, ownerID, hash string, data []byte) (models.PhotoRef, error) {
	hash = strings.ToLower(hash)

	if ownerID == "" || len(data) == 0 {
		return models.PhotoRef{}, ErrInvalidDataProvided
	}
	if len(data) > MaxPhotoSize {
		return models.PhotoRef{}, ErrPhotoTooLarge
	}
	if err := p.validator.Validate(ctx, models.MedicationLog{ImageHash: hash}, validators.FieldImageHash); err != nil {
		return models.PhotoRef{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	if !utils.VerifyContentHash(data, hash) {
		return models.PhotoRef{}, ErrPhotoHashMismatch
	}

	path, err := p.photoStore.Put(ctx, ownerID, hash, data)
	if err != nil {
		return models.PhotoRef{}, fmt.Errorf("store photo: %w", err)
	}

	logger.FromContext(ctx).Debug().Str("owner_id", ownerID).Str("path", path).Int("size", len(data)).Msg("photo stored")
	return models.PhotoRef{Hash: hash, ImagePath: path}, nil
}

func (p *photoService) Download(ctx context.Context, ownerID, hash string) ([]byte, error) {
	data, err := p.photoStore.Get(ctx, ownerID, strings.ToLower(hash))
	if errors.Is(err, store.ErrPhotoNotFound) {
		return nil, ErrPhotoNotFound
	}
	return data, err
}
