package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sati/internal/models"
	"github.com/desertthunder/sati/internal/records"
	"github.com/desertthunder/sati/internal/shared"
	"golang.org/x/time/rate"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase (0 when unknown, e.g. open-ended pagination)
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	FetchSessions Phase = iota
	FetchPresets
	WriteSnapshot
	ExportRecords
)

func (p Phase) String() string {
	switch p {
	case FetchSessions:
		return "fetch_sessions"
	case FetchPresets:
		return "fetch_presets"
	case WriteSnapshot:
		return "write_snapshot"
	case ExportRecords:
		return "export_records"
	default:
		return ""
	}
}

// SessionSnapshotter persists a wholesale replacement of cached sessions.
type SessionSnapshotter interface {
	ReplaceAll(sessions []models.MeditationSession) error
}

// PresetSnapshotter persists a wholesale replacement of cached presets.
type PresetSnapshotter interface {
	ReplaceAll(presets []models.Preset) error
}

// SyncResult contains everything fetched by a full repository sync.
type SyncResult struct {
	Sessions []models.MeditationSession // All fetched sessions, listing order
	Presets  []models.Preset            // All fetched presets, listing order
	Pages    int                        // Listing pages fetched across both collections
}

// Engine runs snapshot syncs and bulk exports against the record store.
type Engine struct {
	store    *records.Store
	sessions SessionSnapshotter
	presets  PresetSnapshotter
	limiter  *rate.Limiter
	logger   *log.Logger
}

// NewEngine creates an Engine. The snapshotters may be nil, in which case
// Sync fetches but does not persist (useful for cache-only refreshes).
func NewEngine(store *records.Store, sessions SessionSnapshotter, presets PresetSnapshotter, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Engine{
		store:    store,
		sessions: sessions,
		presets:  presets,
		limiter:  rate.NewLimiter(rate.Limit(5), 5),
		logger:   logger,
	}
}

// Sync pages through both collections and replaces the local snapshot.
//
// Progress updates are emitted per page and per snapshot write; the channel
// may be nil when no one is listening.
func (e *Engine) Sync(ctx context.Context, progress chan<- ProgressUpdate) (*SyncResult, error) {
	result := &SyncResult{}

	sessions, pages, err := e.fetchAllSessions(ctx, progress)
	if err != nil {
		return nil, fmt.Errorf("session sync failed: %w", err)
	}
	result.Sessions = sessions
	result.Pages += pages

	presets, pages, err := e.fetchAllPresets(ctx, progress)
	if err != nil {
		return nil, fmt.Errorf("preset sync failed: %w", err)
	}
	result.Presets = presets
	result.Pages += pages

	if e.sessions != nil {
		sendProgress(progress, ProgressUpdate{Phase: WriteSnapshot, Message: "Writing session snapshot..."})
		if err := e.sessions.ReplaceAll(sessions); err != nil {
			return nil, fmt.Errorf("failed to write session snapshot: %w", err)
		}
	}

	if e.presets != nil {
		sendProgress(progress, ProgressUpdate{Phase: WriteSnapshot, Message: "Writing preset snapshot..."})
		if err := e.presets.ReplaceAll(presets); err != nil {
			return nil, fmt.Errorf("failed to write preset snapshot: %w", err)
		}
	}

	e.logger.Info("sync complete", "sessions", len(sessions), "presets", len(presets), "pages", result.Pages)

	return result, nil
}

// fetchAllSessions follows the listing cursor until the collection is exhausted.
func (e *Engine) fetchAllSessions(ctx context.Context, progress chan<- ProgressUpdate) ([]models.MeditationSession, int, error) {
	var all []models.MeditationSession
	cursor := ""
	pages := 0

	for {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, pages, fmt.Errorf("rate limit wait: %w", err)
		}

		pages++
		sendProgress(progress, ProgressUpdate{
			Phase:   FetchSessions,
			Step:    pages,
			Message: fmt.Sprintf("Fetching sessions (page %d)...", pages),
		})

		page, err := e.store.ListMeditationSessions(ctx, records.MaxListLimit, cursor, false)
		if err != nil {
			return nil, pages, err
		}

		all = append(all, page.Sessions...)

		if page.Cursor == "" {
			return all, pages, nil
		}
		cursor = page.Cursor
	}
}

// fetchAllPresets follows the listing cursor until the collection is exhausted.
func (e *Engine) fetchAllPresets(ctx context.Context, progress chan<- ProgressUpdate) ([]models.Preset, int, error) {
	var all []models.Preset
	cursor := ""
	pages := 0

	for {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, pages, fmt.Errorf("rate limit wait: %w", err)
		}

		pages++
		sendProgress(progress, ProgressUpdate{
			Phase:   FetchPresets,
			Step:    pages,
			Message: fmt.Sprintf("Fetching presets (page %d)...", pages),
		})

		page, err := e.store.ListPresets(ctx, records.MaxListLimit, cursor, false)
		if err != nil {
			return nil, pages, err
		}

		all = append(all, page.Presets...)

		if page.Cursor == "" {
			return all, pages, nil
		}
		cursor = page.Cursor
	}
}

// sendProgress emits an update without ever blocking the operation.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}

	select {
	case progress <- update:
	default:
	}
}
