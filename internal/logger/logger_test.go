package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("device")
	l.Logger = l.Output(&buf)

	l.Info().Msg("hello")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "device", entry["role"])
	assert.Contains(t, entry, "time")
	assert.Equal(t, "func", zerolog.CallerFieldName)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestNewClientLogger_WritesToRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	l := NewClientLogger("client", FileOptions{Path: path})
	require.NotNil(t, l)

	l.Info().Msg("written")

	assert.FileExists(t, path)
}

func TestNop_DiscardsOutput(t *testing.T) {
	var buf bytes.Buffer
	l := Nop()
	l.Logger = l.Output(&buf)

	l.Info().Msg("should be discarded")

	assert.Empty(t, buf.String())
}

func TestGetChildLogger_InheritsFields(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger("inherited-role")
	parent.Logger = parent.Output(&buf)

	child := parent.GetChildLogger()
	assert.NotSame(t, parent, child)

	child.Info().Msg("child message")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "inherited-role", entry["role"])
}

func TestFromContext(t *testing.T) {
	t.Run("never nil", func(t *testing.T) {
		require.NotNil(t, FromContext(context.Background()))
	})

	t.Run("returns attached logger", func(t *testing.T) {
		var buf bytes.Buffer
		l := &Logger{zerolog.New(&buf).With().Str("ctx-key", "ctx-value").Logger()}
		ctx := l.WithContext(context.Background())

		FromContext(ctx).Info().Msg("from context")

		assert.Equal(t, "ctx-value", decodeEntry(t, &buf)["ctx-key"])
	})
}

func TestEnsure(t *testing.T) {
	var fallbackBuf, attachedBuf bytes.Buffer
	fallback := &Logger{zerolog.New(&fallbackBuf)}
	attached := &Logger{zerolog.New(&attachedBuf)}

	t.Run("attaches fallback when ctx has none", func(t *testing.T) {
		ctx := Ensure(context.Background(), fallback)
		FromContext(ctx).Info().Msg("fallback")
		assert.NotEmpty(t, fallbackBuf.String())
	})

	t.Run("keeps existing logger", func(t *testing.T) {
		ctx := Ensure(attached.WithContext(context.Background()), fallback)
		fallbackBuf.Reset()
		FromContext(ctx).Info().Msg("attached")
		assert.NotEmpty(t, attachedBuf.String())
		assert.Empty(t, fallbackBuf.String())
	})

	t.Run("nil fallback", func(t *testing.T) {
		ctx := context.Background()
		assert.Equal(t, ctx, Ensure(ctx, nil))
	})
}

func TestFromRequest_ReturnsAttachedLogger(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{zerolog.New(&buf).With().Str("req-key", "req-value").Logger()}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(l.WithContext(req.Context()))

	FromRequest(req).Info().Msg("from request")

	assert.Equal(t, "req-value", decodeEntry(t, &buf)["req-key"])
}
