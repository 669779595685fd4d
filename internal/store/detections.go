package store

import (
	"database/sql"

	"minewatch/internal/history"
)

// DetectionRepository provides persistence for detection records.
type DetectionRepository struct {
	db *sql.DB
}

// Detections returns the detection repository for this store.
func (s *Store) Detections() *DetectionRepository {
	return &DetectionRepository{db: s.db}
}

// Insert persists a detection record.
func (r *DetectionRepository) Insert(rec history.Record) error {
	_, err := r.db.Exec(
		`INSERT INTO detections (id, ts, module, label, value, area, x, y, width, height)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Timestamp, rec.Module, rec.Label, rec.Value, rec.Area,
		rec.Box.X, rec.Box.Y, rec.Box.Width, rec.Box.Height,
	)
	return err
}

// List returns the most recent detections, newest first, up to limit.
// A non-positive limit returns all rows.
func (r *DetectionRepository) List(limit int) ([]history.Record, error) {
	return r.query(
		`SELECT id, ts, module, label, value, area, x, y, width, height
		 FROM detections ORDER BY ts DESC, id LIMIT ?`,
		normalizeLimit(limit),
	)
}

// ListByModule returns the most recent detections for one module.
func (r *DetectionRepository) ListByModule(module string, limit int) ([]history.Record, error) {
	return r.query(
		`SELECT id, ts, module, label, value, area, x, y, width, height
		 FROM detections WHERE module = ? ORDER BY ts DESC, id LIMIT ?`,
		module, normalizeLimit(limit),
	)
}

// Count returns the total number of stored detections.
func (r *DetectionRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM detections`).Scan(&n)
	return n, err
}

// CountByModule returns the number of stored detections per module.
func (r *DetectionRepository) CountByModule() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT module, COUNT(*) FROM detections GROUP BY module`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var module string
		var n int
		if err := rows.Scan(&module, &n); err != nil {
			return nil, err
		}
		counts[module] = n
	}

	return counts, rows.Err()
}

func (r *DetectionRepository) query(q string, args ...interface{}) ([]history.Record, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []history.Record
	for rows.Next() {
		var rec history.Record
		err := rows.Scan(
			&rec.ID, &rec.Timestamp, &rec.Module, &rec.Label, &rec.Value, &rec.Area,
			&rec.Box.X, &rec.Box.Y, &rec.Box.Width, &rec.Box.Height,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// normalizeLimit maps non-positive limits to SQLite's "no limit" value.
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
