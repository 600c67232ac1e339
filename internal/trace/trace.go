// internal/trace/trace.go
package trace

import (
	"sync"

	"go.uber.org/zap"
)

// EntryType tags a trace entry with the subsystem that produced it.
type EntryType string

const (
	TypeInfo    EntryType = "info"
	TypeError   EntryType = "error"
	TypeBrowser EntryType = "browser"
	TypeAI      EntryType = "ai"
)

// Entry is one line of the execution trace returned to the caller.
type Entry struct {
	Type    EntryType `json:"type"`
	Message string    `json:"message"`
	URL     string    `json:"url,omitempty"`
}

// Recorder accumulates the ordered, append-only trace for a single command and
// mirrors every entry into the structured logger. It is owned by exactly one
// command execution at a time.
type Recorder struct {
	logger *zap.Logger

	mu      sync.Mutex
	entries []Entry
}

// NewRecorder creates an empty recorder bound to the given logger.
func NewRecorder(logger *zap.Logger) *Recorder {
	return &Recorder{logger: logger}
}

// Info records a general progress step.
func (r *Recorder) Info(msg string) {
	r.logger.Info(msg)
	r.append(Entry{Type: TypeInfo, Message: msg})
}

// Error records a failure. Recording an error never aborts the run.
func (r *Recorder) Error(msg string) {
	r.logger.Error(msg)
	r.append(Entry{Type: TypeError, Message: msg})
}

// Browser records a browsing-device action.
func (r *Recorder) Browser(msg string) {
	r.logger.Info(msg, zap.String("channel", "browser"))
	r.append(Entry{Type: TypeBrowser, Message: msg})
}

// BrowserURL records a browsing-device action tied to a URL.
func (r *Recorder) BrowserURL(msg, url string) {
	r.logger.Info(msg, zap.String("channel", "browser"), zap.String("url", url))
	r.append(Entry{Type: TypeBrowser, Message: msg, URL: url})
}

// AI records a language-model interaction.
func (r *Recorder) AI(msg string) {
	r.logger.Info(msg, zap.String("channel", "ai"))
	r.append(Entry{Type: TypeAI, Message: msg})
}

// Entries returns a copy of the recorded trace in append order.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len reports the number of recorded entries.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Reset discards all recorded entries. The recorder is reused across the
// reset boundary; resetting twice is the same as resetting once.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}

func (r *Recorder) append(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}
