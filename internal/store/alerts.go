package store

import (
	"database/sql"
	"time"
)

// Alert is a persisted equipment or environment alert.
type Alert struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	Detail    string    `json:"detail"`
	Value     float64   `json:"value"`
}

// AlertRepository provides persistence for alerts.
type AlertRepository struct {
	db *sql.DB
}

// Alerts returns the alert repository for this store.
func (s *Store) Alerts() *AlertRepository {
	return &AlertRepository{db: s.db}
}

// Insert persists an alert.
func (r *AlertRepository) Insert(a Alert) error {
	_, err := r.db.Exec(
		`INSERT INTO alerts (id, ts, kind, detail, value)
		 VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Timestamp, a.Kind, a.Detail, a.Value,
	)
	return err
}

// List returns the most recent alerts, newest first, up to limit.
func (r *AlertRepository) List(limit int) ([]Alert, error) {
	rows, err := r.db.Query(
		`SELECT id, ts, kind, detail, value
		 FROM alerts ORDER BY ts DESC, id LIMIT ?`,
		normalizeLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []Alert
	for rows.Next() {
		var a Alert
		if err := rows.Scan(&a.ID, &a.Timestamp, &a.Kind, &a.Detail, &a.Value); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return alerts, nil
}

// Count returns the total number of stored alerts.
func (r *AlertRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM alerts`).Scan(&n)
	return n, err
}
