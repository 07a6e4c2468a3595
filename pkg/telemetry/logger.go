package telemetry

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"time"
)

// StructuredLogger emits structured log entries.
type StructuredLogger interface {
	Emit(Entry) error
}

// Severity represents the log severity level.
type Severity string

const (
	// SeverityInfo captures normal operation messages.
	SeverityInfo Severity = "info"
	// SeverityWarn captures recoverable anomalies.
	SeverityWarn Severity = "warn"
	// SeverityError captures unrecoverable or failure states.
	SeverityError Severity = "error"
)

// Category captures the structured log category.
type Category string

const (
	// CategoryDiscovery marks workspace discovery events.
	CategoryDiscovery Category = "discovery"
	// CategoryParse marks schema and profile parsing events.
	CategoryParse Category = "parse"
	// CategoryProject marks flag projection events.
	CategoryProject Category = "project"
)

// Entry describes a structured log entry prior to serialization.
type Entry struct {
	Category Category
	Message  string
	Severity Severity
	Step     string
	Document string
	Metadata map[string]string
	Error    error
}

// Logger emits structured JSON logs.
type Logger struct {
	enc   *json.Encoder
	runID string
	mu    sync.Mutex
}

// NewLogger constructs a logger for one CLI run.
func NewLogger(w io.Writer, runID string) (*Logger, error) {
	if w == nil {
		return nil, errors.New("logger writer is required")
	}
	trimmed := strings.TrimSpace(runID)
	if trimmed == "" {
		return nil, errors.New("run ID is required")
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Logger{enc: enc, runID: trimmed}, nil
}

// Emit writes the provided entry to the underlying writer.
func (l *Logger) Emit(entry Entry) error {
	if l == nil {
		return errors.New("logger is nil")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	severity := entry.Severity
	if severity == "" {
		severity = SeverityInfo
	}

	metadata := map[string]string{}
	if len(entry.Metadata) > 0 {
		metadata = make(map[string]string, len(entry.Metadata))
		for k, v := range entry.Metadata {
			metadata[k] = v
		}
	}

	if entry.Error != nil {
		severity = SeverityError
		metadata["error"] = entry.Error.Error()
	}

	payload := map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"category":  string(entry.Category),
		"message":   entry.Message,
		"severity":  string(severity),
		"runId":     l.runID,
	}

	if entry.Step != "" {
		payload["step"] = entry.Step
	}
	if entry.Document != "" {
		payload["document"] = entry.Document
	}
	if len(metadata) > 0 {
		payload["metadata"] = metadata
	}

	return l.enc.Encode(payload)
}
