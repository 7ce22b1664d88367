package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captured(t *testing.T) (*Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	return NewWithHandler(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLogInventoryReconciled(t *testing.T) {
	l, buf := captured(t)

	l.LogInventoryReconciled(context.Background(), "evt-1", 2, 1, 3)

	entry := decode(t, buf)
	assert.Equal(t, "Inventory Reconciled", entry["msg"])
	assert.Equal(t, "evt-1", entry["event_id"])
	assert.EqualValues(t, 2, entry["creates"])
	assert.EqualValues(t, 3, entry["deletes"])
}

func TestLogPaymentVerified_InvalidIsWarning(t *testing.T) {
	l, buf := captured(t)

	l.LogPaymentVerified(context.Background(), "order_1", false)

	entry := decode(t, buf)
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, false, entry["valid"])
}

func TestRequestIDFromContextIsAttached(t *testing.T) {
	l, buf := captured(t)
	ctx := ContextWithRequestID(context.Background(), "req-7")

	l.InfoWithContext(ctx, "Booking Created", map[string]interface{}{"seats": 2})

	entry := decode(t, buf)
	assert.Equal(t, "req-7", entry["request_id"])
	assert.EqualValues(t, 2, entry["seats"])
}

func TestErrorWithContext_NilError(t *testing.T) {
	l, buf := captured(t)

	l.ErrorWithContext(context.Background(), "Consume failed", nil, nil)

	entry := decode(t, buf)
	assert.Equal(t, "ERROR", entry["level"])
	assert.NotContains(t, entry, "error")
}

func TestGetLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, getLogLevel("WARNING"))
	assert.Equal(t, slog.LevelError, getLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, getLogLevel("bogus"))
}
