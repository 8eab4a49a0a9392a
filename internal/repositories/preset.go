package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/desertthunder/sati/internal/models"
)

// PresetRepository caches fetched preset records in sqlite. Sound intervals
// are stored as a JSON column; they have no identity outside their preset.
type PresetRepository struct {
	db *sql.DB
}

// NewPresetRepository creates a new PresetRepository with the given database connection
func NewPresetRepository(db *sql.DB) *PresetRepository {
	return &PresetRepository{db: db}
}

// ReplaceAll swaps the cached presets for the given collection, preserving order.
func (r *PresetRepository) ReplaceAll(presets []models.Preset) error {
	return replaceAll(r.db, "presets", func(tx *sql.Tx, cachedAt time.Time) error {
		stmt, err := tx.Prepare(`
			INSERT INTO presets (uri, cid, name, duration, created_at, sound_intervals, cached_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare preset insert: %w", err)
		}
		defer stmt.Close()

		for _, p := range presets {
			intervals := p.SoundIntervals
			if intervals == nil {
				intervals = make([]models.SoundInterval, 0)
			}

			encoded, err := json.Marshal(intervals)
			if err != nil {
				return fmt.Errorf("failed to encode intervals for %s: %w", p.URI, err)
			}

			if _, err := stmt.Exec(p.URI, p.CID, p.Name, p.Duration, p.CreatedAt, string(encoded), cachedAt); err != nil {
				return fmt.Errorf("failed to insert preset %s: %w", p.URI, err)
			}
		}

		return nil
	})
}

// All returns the cached presets in the order they were fetched.
func (r *PresetRepository) All() ([]models.Preset, error) {
	rows, err := r.db.Query(`
		SELECT uri, cid, name, duration, created_at, sound_intervals
		FROM presets
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query presets: %w", err)
	}
	defer rows.Close()

	var presets []models.Preset
	for rows.Next() {
		var p models.Preset
		var encoded string

		if err := rows.Scan(&p.URI, &p.CID, &p.Name, &p.Duration, &p.CreatedAt, &encoded); err != nil {
			return nil, fmt.Errorf("failed to scan preset: %w", err)
		}

		if err := json.Unmarshal([]byte(encoded), &p.SoundIntervals); err != nil {
			return nil, fmt.Errorf("failed to decode intervals for %s: %w", p.URI, err)
		}
		if p.SoundIntervals == nil {
			p.SoundIntervals = make([]models.SoundInterval, 0)
		}

		presets = append(presets, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("preset row iteration failed: %w", err)
	}

	return presets, nil
}

// Count returns the number of cached presets.
func (r *PresetRepository) Count() (int, error) {
	return count(r.db, "presets")
}
