package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/sati/internal/models"
)

// SessionRepository caches fetched meditation session records in sqlite.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// ReplaceAll swaps the cached sessions for the given collection, preserving order.
func (r *SessionRepository) ReplaceAll(sessions []models.MeditationSession) error {
	return replaceAll(r.db, "meditation_sessions", func(tx *sql.Tx, cachedAt time.Time) error {
		stmt, err := tx.Prepare(`
			INSERT INTO meditation_sessions (uri, cid, created_at, duration, preset_id, notes, cached_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare session insert: %w", err)
		}
		defer stmt.Close()

		for _, s := range sessions {
			var presetID any = s.PresetID
			if s.PresetID == "" {
				presetID = nil
			}

			var notes any = s.Notes
			if s.Notes == "" {
				notes = nil
			}

			if _, err := stmt.Exec(s.URI, s.CID, s.CreatedAt, s.Duration, presetID, notes, cachedAt); err != nil {
				return fmt.Errorf("failed to insert session %s: %w", s.URI, err)
			}
		}

		return nil
	})
}

// All returns the cached sessions in the order they were fetched.
func (r *SessionRepository) All() ([]models.MeditationSession, error) {
	rows, err := r.db.Query(`
		SELECT uri, cid, created_at, duration, preset_id, notes
		FROM meditation_sessions
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.MeditationSession
	for rows.Next() {
		var s models.MeditationSession
		var presetID, notes sql.NullString

		if err := rows.Scan(&s.URI, &s.CID, &s.CreatedAt, &s.Duration, &presetID, &notes); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}

		s.PresetID = presetID.String
		s.Notes = notes.String
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("session row iteration failed: %w", err)
	}

	return sessions, nil
}

// Count returns the number of cached sessions.
func (r *SessionRepository) Count() (int, error) {
	return count(r.db, "meditation_sessions")
}
