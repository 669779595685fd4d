package api

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"minewatch/internal/history"
	"minewatch/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func insertDetection(t *testing.T, s *store.Store, module, label string) {
	t.Helper()

	rec := history.Record{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Module:    module,
		Label:     label,
		Area:      750,
	}
	if err := s.Detections().Insert(rec); err != nil {
		t.Fatalf("failed to insert detection: %v", err)
	}
}

func TestDetectionsHandler_List(t *testing.T) {
	s := newTestStore(t)
	insertDetection(t, s, "ore", "iron")
	insertDetection(t, s, "motion", "motion")

	h := NewDetectionsHandler(s)
	req := httptest.NewRequest(http.MethodGet, "/api/detections", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body struct {
		Detections []history.Record `json:"detections"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Detections) != 2 {
		t.Errorf("expected 2 detections, got %d", len(body.Detections))
	}
}

func TestDetectionsHandler_ModuleFilter(t *testing.T) {
	s := newTestStore(t)
	insertDetection(t, s, "ore", "iron")
	insertDetection(t, s, "ore", "gold")
	insertDetection(t, s, "safety", "no_helmet")

	h := NewDetectionsHandler(s)
	req := httptest.NewRequest(http.MethodGet, "/api/detections?module=ore", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var body struct {
		Detections []history.Record `json:"detections"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Detections) != 2 {
		t.Fatalf("expected 2 ore detections, got %d", len(body.Detections))
	}
	for _, rec := range body.Detections {
		if rec.Module != "ore" {
			t.Errorf("expected module ore, got %q", rec.Module)
		}
	}
}

func TestDetectionsHandler_Limit(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 5; i++ {
		insertDetection(t, s, "ore", "coal")
	}

	h := NewDetectionsHandler(s)
	req := httptest.NewRequest(http.MethodGet, "/api/detections?limit=2", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var body struct {
		Detections []history.Record `json:"detections"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Detections) != 2 {
		t.Errorf("expected 2 detections with limit=2, got %d", len(body.Detections))
	}
}

func TestDetectionsHandler_MethodNotAllowed(t *testing.T) {
	h := NewDetectionsHandler(newTestStore(t))
	req := httptest.NewRequest(http.MethodPost, "/api/detections", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", w.Code)
	}
}

func TestViolationsHandler(t *testing.T) {
	s := newTestStore(t)
	if err := s.Violations().Insert(store.Violation{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Kind:      "no_helmet",
	}); err != nil {
		t.Fatalf("failed to insert violation: %v", err)
	}

	h := NewViolationsHandler(s)
	req := httptest.NewRequest(http.MethodGet, "/api/violations", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body struct {
		Violations []store.Violation `json:"violations"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Violations) != 1 || body.Violations[0].Kind != "no_helmet" {
		t.Errorf("unexpected violations: %+v", body.Violations)
	}
}

func TestAlertsHandler(t *testing.T) {
	s := newTestStore(t)
	if err := s.Alerts().Insert(store.Alert{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Kind:      "rust_detected",
		Value:     0.25,
	}); err != nil {
		t.Fatalf("failed to insert alert: %v", err)
	}

	h := NewAlertsHandler(s)
	req := httptest.NewRequest(http.MethodGet, "/api/alerts", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body struct {
		Alerts []store.Alert `json:"alerts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Alerts) != 1 || body.Alerts[0].Kind != "rust_detected" {
		t.Errorf("unexpected alerts: %+v", body.Alerts)
	}
}

func TestReportHandler(t *testing.T) {
	s := newTestStore(t)
	insertDetection(t, s, "ore", "silver")

	h := NewReportHandler(s)
	req := httptest.NewRequest(http.MethodGet, "/api/report", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body struct {
		TotalDetections int `json:"total_detections"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.TotalDetections != 1 {
		t.Errorf("expected 1 detection in report, got %d", body.TotalDetections)
	}
}

func TestExportHandler(t *testing.T) {
	s := newTestStore(t)
	insertDetection(t, s, "ore", "iron")
	insertDetection(t, s, "ore", "gold")

	h := NewExportHandler(s)
	req := httptest.NewRequest(http.MethodGet, "/api/export", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/x-ndjson" {
		t.Errorf("expected ndjson content type, got %q", ct)
	}

	scanner := bufio.NewScanner(w.Body)
	lines := 0
	for scanner.Scan() {
		var rec history.Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", lines, err)
		}
		lines++
	}
	if lines != 2 {
		t.Errorf("expected 2 JSONL lines, got %d", lines)
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", DefaultListLimit},
		{"limit=5", 5},
		{"limit=abc", DefaultListLimit},
		{"limit=-3", DefaultListLimit},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/detections?"+tt.query, nil)
		if got := parseLimit(req); got != tt.want {
			t.Errorf("parseLimit(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}
