package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sevenoy/GeminiMeds/internal/adapter"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/store"
	"github.com/sevenoy/GeminiMeds/internal/utils"
)

type clientSessionService struct {
	meta   store.MetaRepository
	remote adapter.RemoteStore

	mu      sync.RWMutex
	ownerID string

	logger *logger.Logger
}

// NewClientSessionService returns a session bound to the local meta table.
// The remote adapter receives the token on sign-in and restore.
func NewClientSessionService(meta store.MetaRepository, remote adapter.RemoteStore, log *logger.Logger) ClientSessionService {
	return &clientSessionService{meta: meta, remote: remote, logger: log}
}

func (s *clientSessionService) Restore(ctx context.Context) (bool, error) {
	token, err := s.meta.Get(ctx, store.MetaSessionToken)
	if errors.Is(err, store.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read session token: %w", err)
	}

	ownerID, err := utils.ParseOwnerIDFromJWT(token)
	if err != nil {
		s.logger.Warn().Err(err).Str("func", "clientSessionService.Restore").Msg("dropping unreadable session token")
		_ = s.meta.Delete(ctx, store.MetaSessionToken)
		return false, nil
	}

	s.set(ownerID, token)
	return true, nil
}

func (s *clientSessionService) SignIn(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)

	ownerID, err := utils.ParseOwnerIDFromJWT(token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if err := s.meta.Set(ctx, store.MetaSessionToken, token); err != nil {
		return "", fmt.Errorf("persist session token: %w", err)
	}

	s.set(ownerID, token)
	s.logger.Info().Str("owner_id", ownerID).Msg("signed in")

	return ownerID, nil
}

func (s *clientSessionService) SignOut(ctx context.Context) error {
	if err := s.meta.Delete(ctx, store.MetaSessionToken); err != nil {
		return fmt.Errorf("forget session token: %w", err)
	}

	s.set("", "")
	return nil
}

func (s *clientSessionService) OwnerID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ownerID, s.ownerID != ""
}

func (s *clientSessionService) set(ownerID, token string) {
	s.mu.Lock()
	s.ownerID = ownerID
	s.mu.Unlock()

	s.remote.SetToken(token)
}
