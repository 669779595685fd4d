// Package main provides a webhook alert hook.
// It forwards monitoring events as JSON to an HTTP endpoint.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
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
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Config defines the webhook settings carried in the hook manifest.
type Config struct {
	URL       string `json:"url"`
	TimeoutMs int    `json:"timeout_ms"`
}

func main() {
	var event Event
	if err := json.NewDecoder(os.Stdin).Decode(&event); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode event: %v", err))
		return
	}

	var cfg Config
	if len(event.Config) > 0 {
		if err := json.Unmarshal(event.Config, &cfg); err != nil {
			writeErrorResponse(fmt.Sprintf("failed to parse config: %v", err))
			return
		}
	}
	if cfg.URL == "" {
		writeErrorResponse("url is required")
		return
	}
	if cfg.TimeoutMs <= 0 {
		cfg.TimeoutMs = 3000
	}

	if err := post(cfg, &event); err != nil {
		writeErrorResponse(fmt.Sprintf("webhook delivery failed: %v", err))
		return
	}

	writeSuccessResponse()
}

// post sends the event to the configured endpoint.
func post(cfg Config, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	client := &http.Client{Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond}
	resp, err := client.Post(cfg.URL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}

	return nil
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	resp := Response{
		Success: false,
		Error:   errMsg,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	resp := Response{
		Success: true,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
