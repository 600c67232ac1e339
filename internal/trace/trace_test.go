package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestRecorder(t *testing.T) (*Recorder, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	return NewRecorder(zap.New(core)), logs
}

func TestRecorder_OrderAndTypes(t *testing.T) {
	rec, logs := newTestRecorder(t)

	rec.Info("planning")
	rec.BrowserURL("navigating", "https://example.com")
	rec.AI("processing content")
	rec.Error("click failed")

	entries := rec.Entries()
	require.Len(t, entries, 4)

	assert.Equal(t, Entry{Type: TypeInfo, Message: "planning"}, entries[0])
	assert.Equal(t, Entry{Type: TypeBrowser, Message: "navigating", URL: "https://example.com"}, entries[1])
	assert.Equal(t, Entry{Type: TypeAI, Message: "processing content"}, entries[2])
	assert.Equal(t, Entry{Type: TypeError, Message: "click failed"}, entries[3])

	// Every trace entry is mirrored into the structured logger.
	assert.Equal(t, 4, logs.Len())
}

func TestRecorder_EntriesReturnsCopy(t *testing.T) {
	rec, _ := newTestRecorder(t)
	rec.Info("first")

	entries := rec.Entries()
	entries[0].Message = "mutated"

	assert.Equal(t, "first", rec.Entries()[0].Message)
}

func TestRecorder_ResetIsIdempotent(t *testing.T) {
	rec, _ := newTestRecorder(t)
	rec.Info("stale entry from a previous command")

	rec.Reset()
	assert.Zero(t, rec.Len())

	rec.Reset()
	assert.Zero(t, rec.Len())
	assert.Empty(t, rec.Entries())
}
