package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/exec"
	"time"
)

// Executor runs hooks with a per-invocation timeout.
type Executor struct {
	timeoutMs int
}

// NewExecutor creates a new Executor with the specified timeout in milliseconds.
func NewExecutor(timeoutMs int) *Executor {
	return &Executor{
		timeoutMs: timeoutMs,
	}
}

// Execute runs a hook with the given event and returns its response.
// The event is marshaled to JSON on the hook's stdin; stdout is parsed
// as a Response.
func (e *Executor) Execute(hook *Hook, event *Event) (*Response, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(e.timeoutMs)*time.Millisecond)
	defer cancel()

	cmd := exec.CommandContext(ctx, hook.Executable)
	cmd.Dir = hook.Path

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	cmd.Stdin = bytes.NewReader(eventJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("hook execution timeout after %dms", e.timeoutMs)
	}

	if err != nil {
		stderrStr := stderr.String()
		if stderrStr != "" {
			return nil, fmt.Errorf("hook execution failed: %w, stderr: %s", err, stderrStr)
		}
		return nil, fmt.Errorf("hook execution failed: %w", err)
	}

	var response Response
	if err := json.Unmarshal(stdout.Bytes(), &response); err != nil {
		return nil, fmt.Errorf("failed to parse hook response: %w, stdout: %s", err, stdout.String())
	}

	return &response, nil
}

// Dispatch delivers an event to every subscribed hook, merging each
// hook's manifest config into the event payload. Failures are logged
// and do not stop delivery to the remaining hooks.
func (e *Executor) Dispatch(m *Manager, event *Event) {
	for _, hook := range m.Subscribers(event.Kind) {
		ev := *event
		ev.Config = hook.Manifest.Config

		resp, err := e.Execute(hook, &ev)
		if err != nil {
			log.Printf("hook %s failed for event %s: %v", hook.Manifest.Name, event.Kind, err)
			continue
		}
		if !resp.Success {
			log.Printf("hook %s rejected event %s: %s", hook.Manifest.Name, event.Kind, resp.Error)
		}
	}
}
