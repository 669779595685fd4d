package store

import (
	"database/sql"
	"time"

	"minewatch/internal/history"
)

// Violation is a persisted safety violation.
type Violation struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Kind      string      `json:"kind"`
	Box       history.Box `json:"box"`
}

// ViolationRepository provides persistence for safety violations.
type ViolationRepository struct {
	db *sql.DB
}

// Violations returns the violation repository for this store.
func (s *Store) Violations() *ViolationRepository {
	return &ViolationRepository{db: s.db}
}

// Insert persists a violation.
func (r *ViolationRepository) Insert(v Violation) error {
	_, err := r.db.Exec(
		`INSERT INTO violations (id, ts, kind, x, y, width, height)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.Timestamp, v.Kind, v.Box.X, v.Box.Y, v.Box.Width, v.Box.Height,
	)
	return err
}

// List returns the most recent violations, newest first, up to limit.
func (r *ViolationRepository) List(limit int) ([]Violation, error) {
	rows, err := r.db.Query(
		`SELECT id, ts, kind, x, y, width, height
		 FROM violations ORDER BY ts DESC, id LIMIT ?`,
		normalizeLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var violations []Violation
	for rows.Next() {
		var v Violation
		err := rows.Scan(&v.ID, &v.Timestamp, &v.Kind, &v.Box.X, &v.Box.Y, &v.Box.Width, &v.Box.Height)
		if err != nil {
			return nil, err
		}
		violations = append(violations, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return violations, nil
}

// Count returns the total number of stored violations.
func (r *ViolationRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM violations`).Scan(&n)
	return n, err
}
