// Package report builds summaries of a monitoring run.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"minewatch/internal/history"
	"minewatch/internal/store"
)

// Report summarizes stored detections, violations and alerts.
type Report struct {
	GeneratedAt       time.Time        `json:"generated_at"`
	TotalDetections   int              `json:"total_detections"`
	DetectionsByLabel map[string]int   `json:"detections_by_label"`
	ModuleCounts      map[string]int   `json:"module_counts"`
	EstimatedOreValue float64          `json:"estimated_ore_value"`
	ViolationCount    int              `json:"violation_count"`
	AlertCount        int              `json:"alert_count"`
	Recent            []history.Record `json:"recent"`
}

// Builder assembles reports from a store.
type Builder struct {
	store *store.Store
}

// NewBuilder creates a report Builder backed by the given store.
func NewBuilder(s *store.Store) *Builder {
	return &Builder{store: s}
}

// Build assembles a report over everything in the store. The recent
// slice is capped at recentLimit records, newest first.
func (b *Builder) Build(recentLimit int) (*Report, error) {
	detections := b.store.Detections()

	all, err := detections.List(0)
	if err != nil {
		return nil, fmt.Errorf("failed to load detections: %w", err)
	}

	moduleCounts, err := detections.CountByModule()
	if err != nil {
		return nil, fmt.Errorf("failed to count detections: %w", err)
	}

	violationCount, err := b.store.Violations().Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count violations: %w", err)
	}

	alertCount, err := b.store.Alerts().Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count alerts: %w", err)
	}

	r := &Report{
		GeneratedAt:       time.Now().UTC(),
		TotalDetections:   len(all),
		DetectionsByLabel: make(map[string]int),
		ModuleCounts:      moduleCounts,
		ViolationCount:    violationCount,
		AlertCount:        alertCount,
	}

	for _, rec := range all {
		r.DetectionsByLabel[rec.Label]++
		if rec.Module == "ore" {
			r.EstimatedOreValue += rec.Value
		}
	}

	if recentLimit > 0 && len(all) > recentLimit {
		r.Recent = all[:recentLimit]
	} else {
		r.Recent = all
	}

	return r, nil
}

// WriteJSON writes the report to w as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// ExportJSONL writes every stored detection to w, one JSON object per
// line, oldest data last (store order, newest first).
func (b *Builder) ExportJSONL(w io.Writer) error {
	records, err := b.store.Detections().List(0)
	if err != nil {
		return fmt.Errorf("failed to load detections: %w", err)
	}

	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}

	return nil
}
