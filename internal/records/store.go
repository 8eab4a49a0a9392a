package records

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sati/internal/models"
	"github.com/desertthunder/sati/internal/pds"
	"github.com/desertthunder/sati/internal/shared"
)

const (
	// SessionCollection is the repository collection for meditation session records.
	SessionCollection = "app.sati.meditation.session"
	// PresetCollection is the repository collection for preset records.
	PresetCollection = "app.sati.meditation.preset"

	// DefaultListLimit is the page size used when the caller does not choose one.
	DefaultListLimit = 50
	// MaxListLimit is the largest page the repository will serve.
	MaxListLimit = 100

	maxPresetIDLen  = 100
	maxNotesLen     = 1000
	maxNameLen      = 100
	maxSoundTypeLen = 50

	// maxDurationSeconds caps durations well below where float-to-int
	// conversion becomes undefined.
	maxDurationSeconds = math.MaxInt32
)

// RecordClient is the subset of the protocol client the store needs.
type RecordClient interface {
	CreateRecord(ctx context.Context, repo, collection string, record any) (*pds.CreateRecordResponse, error)
	ListRecords(ctx context.Context, repo, collection string, limit int, reverse bool, cursor string) (*pds.ListRecordsResponse, error)
}

// SessionSource exposes the current session, or nil when unauthenticated.
type SessionSource interface {
	Current() *pds.Session
}

// Store performs validated create and list operations against the
// authenticated user's repository. Every operation requires an active
// session and fails with [shared.AuthError] before any network call when
// none exists.
type Store struct {
	client   RecordClient
	sessions SessionSource
	logger   *log.Logger
}

// NewStore creates a Store backed by the given protocol client and session source.
func NewStore(client RecordClient, sessions SessionSource, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Store{
		client:   client,
		sessions: sessions,
		logger:   logger,
	}
}

// sessionRecord is the wire shape of a meditation session. Optional fields
// are omitted, not null, when absent.
type sessionRecord struct {
	Type      string `json:"$type"`
	CreatedAt string `json:"createdAt"`
	Duration  int    `json:"duration"`
	PresetID  string `json:"presetId,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// presetRecord is the wire shape of a preset. An empty interval sequence is
// omitted from the persisted record rather than stored as an empty array.
type presetRecord struct {
	Type           string                 `json:"$type"`
	Name           string                 `json:"name"`
	Duration       int                    `json:"duration"`
	CreatedAt      string                 `json:"createdAt"`
	SoundIntervals []models.SoundInterval `json:"soundIntervals,omitempty"`
}

// SessionPage is one page of a meditation session listing.
//
// Count is the number of records in this page, not a global total. Cursor is
// empty when the listing is exhausted.
type SessionPage struct {
	Sessions []models.MeditationSession
	Cursor   string
	Count    int
}

// PresetPage is one page of a preset listing.
type PresetPage struct {
	Presets []models.Preset
	Cursor  string
	Count   int
}

// requireSession returns the active session or an [shared.AuthError].
func (s *Store) requireSession() (*pds.Session, error) {
	if s.sessions == nil {
		return nil, shared.NewAuthError(shared.ErrNotLoggedIn, "")
	}

	sess := s.sessions.Current()
	if sess == nil {
		return nil, shared.NewAuthError(shared.ErrNotLoggedIn, "")
	}

	return sess, nil
}

// CreateMeditationSession validates and writes a meditation session record.
//
// duration is in seconds; fractional seconds are truncated toward zero
// before persisting. presetID (≤100 chars) and notes (≤1000 chars) are
// optional and omitted from the record when empty.
func (s *Store) CreateMeditationSession(ctx context.Context, duration float64, presetID, notes string) (*models.CreateResult, error) {
	sess, err := s.requireSession()
	if err != nil {
		return nil, err
	}

	seconds, err := validateDuration(duration)
	if err != nil {
		return nil, err
	}

	if presetID != "" && utf8.RuneCountInString(presetID) > maxPresetIDLen {
		return nil, shared.NewValidationError("presetId", fmt.Sprintf("must be at most %d characters", maxPresetIDLen))
	}

	if notes != "" && utf8.RuneCountInString(notes) > maxNotesLen {
		return nil, shared.NewValidationError("notes", fmt.Sprintf("must be at most %d characters", maxNotesLen))
	}

	record := sessionRecord{
		Type:      SessionCollection,
		CreatedAt: shared.Timestamp(),
		Duration:  seconds,
		PresetID:  presetID,
		Notes:     notes,
	}

	resp, err := s.client.CreateRecord(ctx, sess.DID, SessionCollection, record)
	if err != nil {
		return nil, err
	}

	s.logger.Info("meditation session recorded", "uri", resp.URI, "duration", seconds)

	return &models.CreateResult{URI: resp.URI, CID: resp.CID, ValidationStatus: resp.ValidationStatus}, nil
}

// CreatePreset validates and writes a preset record.
//
// name is required (≤100 chars). Every sound interval must fall within
// [0, duration] and carry a sound type (≤50 chars); a single bad interval
// rejects the whole preset with its index named, so no partial record is
// ever written.
func (s *Store) CreatePreset(ctx context.Context, name string, duration float64, intervals []models.SoundInterval) (*models.CreateResult, error) {
	sess, err := s.requireSession()
	if err != nil {
		return nil, err
	}

	if name == "" {
		return nil, shared.NewValidationError("name", "must not be empty")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return nil, shared.NewValidationError("name", fmt.Sprintf("must be at most %d characters", maxNameLen))
	}

	seconds, err := validateDuration(duration)
	if err != nil {
		return nil, err
	}

	for i, interval := range intervals {
		if math.IsNaN(interval.Time) || math.IsInf(interval.Time, 0) || interval.Time < 0 {
			return nil, shared.NewElementValidationError("soundIntervals", i, "time must be a non-negative number")
		}
		if interval.Time > float64(seconds) {
			return nil, shared.NewElementValidationError("soundIntervals", i, "time must not exceed the preset duration")
		}
		if interval.SoundType == "" {
			return nil, shared.NewElementValidationError("soundIntervals", i, "soundType must not be empty")
		}
		if utf8.RuneCountInString(interval.SoundType) > maxSoundTypeLen {
			return nil, shared.NewElementValidationError("soundIntervals", i, fmt.Sprintf("soundType must be at most %d characters", maxSoundTypeLen))
		}
	}

	record := presetRecord{
		Type:      PresetCollection,
		Name:      name,
		Duration:  seconds,
		CreatedAt: shared.Timestamp(),
	}
	if len(intervals) > 0 {
		record.SoundIntervals = intervals
	}

	resp, err := s.client.CreateRecord(ctx, sess.DID, PresetCollection, record)
	if err != nil {
		return nil, err
	}

	s.logger.Info("preset created", "uri", resp.URI, "name", name)

	return &models.CreateResult{URI: resp.URI, CID: resp.CID, ValidationStatus: resp.ValidationStatus}, nil
}

// ListMeditationSessions fetches one page of meditation session records.
//
// limit must be in [1, 100]. cursor is the server's opaque continuation
// token from a previous page, empty for the first page.
func (s *Store) ListMeditationSessions(ctx context.Context, limit int, cursor string, reverse bool) (*SessionPage, error) {
	sess, err := s.requireSession()
	if err != nil {
		return nil, err
	}

	if err := validateLimit(limit); err != nil {
		return nil, err
	}

	resp, err := s.client.ListRecords(ctx, sess.DID, SessionCollection, limit, reverse, cursor)
	if err != nil {
		return nil, err
	}

	sessions := make([]models.MeditationSession, 0, len(resp.Records))
	for _, rec := range resp.Records {
		decoded, err := decodeSession(rec)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, decoded)
	}

	return &SessionPage{Sessions: sessions, Cursor: resp.Cursor, Count: len(sessions)}, nil
}

// ListPresets fetches one page of preset records.
func (s *Store) ListPresets(ctx context.Context, limit int, cursor string, reverse bool) (*PresetPage, error) {
	sess, err := s.requireSession()
	if err != nil {
		return nil, err
	}

	if err := validateLimit(limit); err != nil {
		return nil, err
	}

	resp, err := s.client.ListRecords(ctx, sess.DID, PresetCollection, limit, reverse, cursor)
	if err != nil {
		return nil, err
	}

	presets := make([]models.Preset, 0, len(resp.Records))
	for _, rec := range resp.Records {
		decoded, err := decodePreset(rec)
		if err != nil {
			return nil, err
		}
		presets = append(presets, decoded)
	}

	return &PresetPage{Presets: presets, Cursor: resp.Cursor, Count: len(presets)}, nil
}

// validateDuration checks that duration is a finite non-negative number and
// truncates fractional seconds toward zero.
func validateDuration(duration float64) (int, error) {
	if math.IsNaN(duration) || math.IsInf(duration, 0) {
		return 0, shared.NewValidationError("duration", "must be a finite number")
	}
	if duration < 0 {
		return 0, shared.NewValidationError("duration", "must be non-negative")
	}
	if duration > maxDurationSeconds {
		return 0, shared.NewValidationError("duration", fmt.Sprintf("must be at most %d seconds", maxDurationSeconds))
	}
	return int(duration), nil
}

// validateLimit enforces the repository's page size bounds.
func validateLimit(limit int) error {
	if limit < 1 || limit > MaxListLimit {
		return shared.NewValidationError("limit", fmt.Sprintf("must be between 1 and %d", MaxListLimit))
	}
	return nil
}

// decodeSession strictly decodes one listing entry into a typed session.
// Malformed payloads are rejected with [shared.ErrMalformedRecord] instead
// of propagating zero values.
func decodeSession(rec pds.Record) (models.MeditationSession, error) {
	var wire sessionRecord
	if err := json.Unmarshal(rec.Value, &wire); err != nil {
		return models.MeditationSession{}, fmt.Errorf("%w: %s: %v", shared.ErrMalformedRecord, rec.URI, err)
	}

	if wire.Type != "" && wire.Type != SessionCollection {
		return models.MeditationSession{}, fmt.Errorf("%w: %s: unexpected type %q", shared.ErrMalformedRecord, rec.URI, wire.Type)
	}
	if wire.Duration < 0 {
		return models.MeditationSession{}, fmt.Errorf("%w: %s: negative duration", shared.ErrMalformedRecord, rec.URI)
	}

	return models.MeditationSession{
		URI:       rec.URI,
		CID:       rec.CID,
		CreatedAt: wire.CreatedAt,
		Duration:  wire.Duration,
		PresetID:  wire.PresetID,
		Notes:     wire.Notes,
	}, nil
}

// decodePreset strictly decodes one listing entry into a typed preset. An
// absent interval sequence becomes an empty slice, never nil.
func decodePreset(rec pds.Record) (models.Preset, error) {
	var wire presetRecord
	if err := json.Unmarshal(rec.Value, &wire); err != nil {
		return models.Preset{}, fmt.Errorf("%w: %s: %v", shared.ErrMalformedRecord, rec.URI, err)
	}

	if wire.Type != "" && wire.Type != PresetCollection {
		return models.Preset{}, fmt.Errorf("%w: %s: unexpected type %q", shared.ErrMalformedRecord, rec.URI, wire.Type)
	}
	if wire.Name == "" {
		return models.Preset{}, fmt.Errorf("%w: %s: missing name", shared.ErrMalformedRecord, rec.URI)
	}
	if wire.Duration < 0 {
		return models.Preset{}, fmt.Errorf("%w: %s: negative duration", shared.ErrMalformedRecord, rec.URI)
	}

	intervals := wire.SoundIntervals
	if intervals == nil {
		intervals = make([]models.SoundInterval, 0)
	}

	return models.Preset{
		URI:            rec.URI,
		CID:            rec.CID,
		Name:           wire.Name,
		Duration:       wire.Duration,
		CreatedAt:      wire.CreatedAt,
		SoundIntervals: intervals,
	}, nil
}
