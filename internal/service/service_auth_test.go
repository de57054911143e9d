package service

import (
	"context"
	"testing"
	"time"

	"github.com/sevenoy/GeminiMeds/internal/config"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAppConfig() config.App {
	return config.App{TokenSignKey: "secret", TokenIssuer: "geminimeds", TokenDuration: time.Hour}
}

func TestAuthService_CreateAndParse(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(testAppConfig(), logger.Nop())

	token, err := svc.CreateToken(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", token.OwnerID)

	parsed, err := svc.ParseToken(ctx, token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, "u1", parsed.OwnerID)
}

func TestAuthService_CreateToken_EmptyOwner(t *testing.T) {
	_, err := NewAuthService(testAppConfig(), logger.Nop()).CreateToken(context.Background(), " ")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestAuthService_ParseToken_Rejects(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(testAppConfig(), logger.Nop())

	otherKey := testAppConfig()
	otherKey.TokenSignKey = "another"
	foreign, err := NewAuthService(otherKey, logger.Nop()).CreateToken(ctx, "u1")
	require.NoError(t, err)

	otherIssuer := testAppConfig()
	otherIssuer.TokenIssuer = "someone-else"
	wrongIssuer, err := NewAuthService(otherIssuer, logger.Nop()).CreateToken(ctx, "u1")
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"garbage":      "abc.def.ghi",
		"foreign key":  foreign.SignedString,
		"wrong issuer": wrongIssuer.SignedString,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ParseToken(ctx, raw)
			assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
		})
	}
}
