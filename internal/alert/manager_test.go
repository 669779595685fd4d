package alert

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, hookDir string, manifest Manifest) {
	t.Helper()

	if err := os.MkdirAll(hookDir, 0755); err != nil {
		t.Fatalf("failed to create hook dir: %v", err)
	}

	manifestBytes, err := json.Marshal(manifest)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}

	manifestPath := filepath.Join(hookDir, "hook.json")
	if err := os.WriteFile(manifestPath, manifestBytes, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
}

func TestManager_Discover(t *testing.T) {
	tmpDir := t.TempDir()
	hookDir := filepath.Join(tmpDir, "webhook")

	writeManifest(t, hookDir, Manifest{
		Name:        "webhook",
		Version:     "1.0.0",
		Description: "Posts events to an HTTP endpoint",
		Executable:  "webhook",
		Events:      []string{"no_helmet", "gas_detected"},
	})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	hooks := manager.List()
	if len(hooks) != 1 {
		t.Fatalf("expected 1 hook, got %d", len(hooks))
	}

	hook := hooks[0]
	if hook.Manifest.Name != "webhook" {
		t.Errorf("expected hook name 'webhook', got %q", hook.Manifest.Name)
	}
	if len(hook.Manifest.Events) != 2 {
		t.Errorf("expected 2 events, got %d", len(hook.Manifest.Events))
	}
	if hook.Path != hookDir {
		t.Errorf("expected path %q, got %q", hookDir, hook.Path)
	}
	if hook.Executable != filepath.Join(hookDir, "webhook") {
		t.Errorf("unexpected executable path %q", hook.Executable)
	}
}

func TestManager_Discover_MultipleHooks(t *testing.T) {
	tmpDir := t.TempDir()

	for _, name := range []string{"hook-a", "hook-b"} {
		writeManifest(t, filepath.Join(tmpDir, name), Manifest{
			Name:       name,
			Version:    "1.0.0",
			Executable: name,
		})
	}

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	if got := len(manager.List()); got != 2 {
		t.Fatalf("expected 2 hooks, got %d", got)
	}
}

func TestManager_Discover_MissingDir(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "does-not-exist"))
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed on missing dir: %v", err)
	}
	if got := len(manager.List()); got != 0 {
		t.Fatalf("expected 0 hooks, got %d", got)
	}
}

func TestManager_Discover_SkipsInvalidManifests(t *testing.T) {
	tmpDir := t.TempDir()

	badDir := filepath.Join(tmpDir, "broken")
	if err := os.MkdirAll(badDir, 0755); err != nil {
		t.Fatalf("failed to create hook dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(badDir, "hook.json"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	writeManifest(t, filepath.Join(tmpDir, "good"), Manifest{
		Name:       "good",
		Executable: "good",
	})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	hooks := manager.List()
	if len(hooks) != 1 {
		t.Fatalf("expected 1 hook, got %d", len(hooks))
	}
	if hooks[0].Manifest.Name != "good" {
		t.Errorf("expected hook 'good', got %q", hooks[0].Manifest.Name)
	}
}

func TestManager_Get(t *testing.T) {
	tmpDir := t.TempDir()
	writeManifest(t, filepath.Join(tmpDir, "eventlog"), Manifest{
		Name:       "eventlog",
		Version:    "2.0.0",
		Executable: "eventlog",
	})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	hook, err := manager.Get("eventlog")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if hook.Manifest.Version != "2.0.0" {
		t.Errorf("expected version '2.0.0', got %q", hook.Manifest.Version)
	}

	if _, err := manager.Get("missing"); err != ErrHookNotFound {
		t.Errorf("expected ErrHookNotFound, got %v", err)
	}
}

func TestManager_Subscribers(t *testing.T) {
	tmpDir := t.TempDir()

	writeManifest(t, filepath.Join(tmpDir, "safety-only"), Manifest{
		Name:       "safety-only",
		Executable: "safety-only",
		Events:     []string{"no_helmet"},
	})
	writeManifest(t, filepath.Join(tmpDir, "catch-all"), Manifest{
		Name:       "catch-all",
		Executable: "catch-all",
	})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	subs := manager.Subscribers("no_helmet")
	if len(subs) != 2 {
		t.Fatalf("expected 2 subscribers for no_helmet, got %d", len(subs))
	}

	subs = manager.Subscribers("gas_detected")
	if len(subs) != 1 {
		t.Fatalf("expected 1 subscriber for gas_detected, got %d", len(subs))
	}
	if subs[0].Manifest.Name != "catch-all" {
		t.Errorf("expected catch-all subscriber, got %q", subs[0].Manifest.Name)
	}
}
