package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/desertthunder/sati/internal/models"
	"github.com/desertthunder/sati/internal/pds"
	"github.com/desertthunder/sati/internal/records"
	"github.com/desertthunder/sati/internal/shared"
	tu "github.com/desertthunder/sati/internal/testing"
)

type capturedSessions struct {
	got []models.MeditationSession
	err error
}

func (c *capturedSessions) ReplaceAll(sessions []models.MeditationSession) error {
	c.got = sessions
	return c.err
}

type capturedPresets struct {
	got []models.Preset
	err error
}

func (c *capturedPresets) ReplaceAll(presets []models.Preset) error {
	c.got = presets
	return c.err
}

func sessionValue(duration int) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"$type":"app.sati.meditation.session","createdAt":"2026-08-01T10:00:00Z","duration":%d}`, duration))
}

func presetValue(name string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"$type":"app.sati.meditation.preset","name":"%s","duration":300}`, name))
}

// pagedClient serves two session pages joined by a cursor and one preset page.
func pagedClient() *tu.MockRecordClient {
	return &tu.MockRecordClient{
		ListRecordsFunc: func(ctx context.Context, repo, collection string, limit int, reverse bool, cursor string) (*pds.ListRecordsResponse, error) {
			if collection == records.SessionCollection {
				if cursor == "" {
					return &pds.ListRecordsResponse{
						Records: []pds.Record{
							{URI: "at://s1", CID: "c", Value: sessionValue(300)},
							{URI: "at://s2", CID: "c", Value: sessionValue(600)},
						},
						Cursor: "page2",
					}, nil
				}
				return &pds.ListRecordsResponse{
					Records: []pds.Record{{URI: "at://s3", CID: "c", Value: sessionValue(120)}},
				}, nil
			}
			return &pds.ListRecordsResponse{
				Records: []pds.Record{{URI: "at://p1", CID: "c", Value: presetValue("morning")}},
			}, nil
		},
	}
}

func testStore(client *tu.MockRecordClient) *records.Store {
	source := &tu.StaticSessionSource{Session: &pds.Session{DID: "did:plc:test"}}
	return records.NewStore(client, source, shared.NewLogger(nil))
}

func TestSync(t *testing.T) {
	ctx := context.Background()

	t.Run("follows cursors across all pages", func(t *testing.T) {
		client := pagedClient()
		sessions := &capturedSessions{}
		presets := &capturedPresets{}
		engine := NewEngine(testStore(client), sessions, presets, nil)

		result, err := engine.Sync(ctx, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(result.Sessions) != 3 {
			t.Errorf("expected 3 sessions across pages, got %d", len(result.Sessions))
		}
		if len(result.Presets) != 1 {
			t.Errorf("expected 1 preset, got %d", len(result.Presets))
		}
		if result.Pages != 3 {
			t.Errorf("expected 3 pages fetched, got %d", result.Pages)
		}
		if client.ListCalls != 3 {
			t.Errorf("expected 3 list requests, got %d", client.ListCalls)
		}

		if len(sessions.got) != 3 || len(presets.got) != 1 {
			t.Errorf("expected snapshot writes, got %d sessions and %d presets", len(sessions.got), len(presets.got))
		}
		if sessions.got[0].URI != "at://s1" || sessions.got[2].URI != "at://s3" {
			t.Errorf("expected listing order to survive, got %v", sessions.got)
		}
	})

	t.Run("fetch-only when snapshotters are nil", func(t *testing.T) {
		engine := NewEngine(testStore(pagedClient()), nil, nil, nil)

		result, err := engine.Sync(ctx, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(result.Sessions) != 3 {
			t.Errorf("expected 3 sessions, got %d", len(result.Sessions))
		}
	})

	t.Run("emits progress updates without blocking", func(t *testing.T) {
		engine := NewEngine(testStore(pagedClient()), nil, nil, nil)

		// Unbuffered channel with no reader: sends must be dropped, not block.
		progress := make(chan ProgressUpdate)

		if _, err := engine.Sync(ctx, progress); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("captures buffered progress updates", func(t *testing.T) {
		engine := NewEngine(testStore(pagedClient()), &capturedSessions{}, &capturedPresets{}, nil)

		progress := make(chan ProgressUpdate, 50)
		if _, err := engine.Sync(ctx, progress); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(progress)

		phases := map[Phase]int{}
		for update := range progress {
			phases[update.Phase]++
		}

		if phases[FetchSessions] != 2 {
			t.Errorf("expected 2 session fetch updates, got %d", phases[FetchSessions])
		}
		if phases[FetchPresets] != 1 {
			t.Errorf("expected 1 preset fetch update, got %d", phases[FetchPresets])
		}
		if phases[WriteSnapshot] != 2 {
			t.Errorf("expected 2 snapshot write updates, got %d", phases[WriteSnapshot])
		}
	})

	t.Run("surfaces listing failures", func(t *testing.T) {
		client := &tu.MockRecordClient{
			ListRecordsFunc: func(ctx context.Context, repo, collection string, limit int, reverse bool, cursor string) (*pds.ListRecordsResponse, error) {
				return nil, &shared.APIError{StatusCode: 502, Message: "bad gateway"}
			},
		}
		engine := NewEngine(testStore(client), nil, nil, nil)

		_, err := engine.Sync(ctx, nil)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("surfaces snapshot write failures", func(t *testing.T) {
		sessions := &capturedSessions{err: errors.New("disk full")}
		engine := NewEngine(testStore(pagedClient()), sessions, &capturedPresets{}, nil)

		_, err := engine.Sync(ctx, nil)
		if err == nil {
			t.Fatal("expected error from snapshot write")
		}
	})
}

func TestPhaseString(t *testing.T) {
	tc := []struct {
		phase Phase
		want  string
	}{
		{FetchSessions, "fetch_sessions"},
		{FetchPresets, "fetch_presets"},
		{WriteSnapshot, "write_snapshot"},
		{ExportRecords, "export_records"},
		{Phase(99), ""},
	}

	for _, tt := range tc {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}
