// Package main provides an event log alert hook.
// It appends monitoring events to a JSON-lines file.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Event represents the input from the hook executor.
type Event struct {
	Kind      string          `json:"kind"`
	Timestamp time.Time       `json:"timestamp"`
	Record    json.RawMessage `json:"record,omitempty"`
	Detail    string          `json:"detail,omitempty"`
	Config    json.RawMessage `json:"config,omitempty"`
}

// Response represents the output to the hook executor.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Config defines the log file settings carried in the hook manifest.
type Config struct {
	Path string `json:"path"`
}

func main() {
	var event Event
	if err := json.NewDecoder(os.Stdin).Decode(&event); err != nil {
		writeResponse(Response{Success: false, Error: fmt.Sprintf("failed to decode event: %v", err)})
		return
	}

	var cfg Config
	if len(event.Config) > 0 {
		if err := json.Unmarshal(event.Config, &cfg); err != nil {
			writeResponse(Response{Success: false, Error: fmt.Sprintf("failed to parse config: %v", err)})
			return
		}
	}
	if cfg.Path == "" {
		cfg.Path = "events.jsonl"
	}

	if err := appendEvent(cfg.Path, &event); err != nil {
		writeResponse(Response{Success: false, Error: fmt.Sprintf("failed to write event: %v", err)})
		return
	}

	writeResponse(Response{Success: true})
}

// appendEvent appends the event as one JSON line to the log file.
func appendEvent(path string, event *Event) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(event)
}

// writeResponse writes the response to stdout.
func writeResponse(resp Response) {
	json.NewEncoder(os.Stdout).Encode(resp)
}
