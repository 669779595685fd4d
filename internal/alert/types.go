// Package alert dispatches monitoring events to external hook programs.
//
// Hooks are standalone executables discovered under a hooks directory.
// Each hook lives in its own subdirectory with a hook.json manifest and
// receives events as JSON on stdin, replying with JSON on stdout.
package alert

import (
	"encoding/json"
	"time"

	"minewatch/internal/history"
)

// Manifest describes a hook's metadata and the events it subscribes to.
type Manifest struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Executable  string          `json:"executable"`
	Events      []string        `json:"events"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// Event is the payload delivered to a hook on its stdin.
type Event struct {
	Kind      string          `json:"kind"`
	Timestamp time.Time       `json:"timestamp"`
	Record    *history.Record `json:"record,omitempty"`
	Detail    string          `json:"detail,omitempty"`
	Config    json.RawMessage `json:"config,omitempty"`
}

// Response is the reply a hook writes to its stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Hook represents a discovered hook with its manifest and location.
type Hook struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Subscribed reports whether the hook wants events of the given kind.
// A hook with no event list receives everything.
func (h *Hook) Subscribed(kind string) bool {
	if len(h.Manifest.Events) == 0 {
		return true
	}
	for _, e := range h.Manifest.Events {
		if e == kind {
			return true
		}
	}
	return false
}
