package formatter

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/desertthunder/sati/internal/models"
)

func fixtureSessions() []models.MeditationSession {
	return []models.MeditationSession{
		{URI: "at://s1", CID: "c1", CreatedAt: "2026-08-01T10:00:00Z", Duration: 300, PresetID: "morning", Notes: "calm"},
		{URI: "at://s2", CID: "c2", CreatedAt: "2026-08-02T10:00:00Z", Duration: 3725},
	}
}

func fixturePresets() []models.Preset {
	return []models.Preset{
		{URI: "at://p1", CID: "c3", Name: "bells", Duration: 600, CreatedAt: "2026-08-01T09:00:00Z", SoundIntervals: []models.SoundInterval{
			{Time: 60, SoundType: "bell"},
			{Time: 300.5, SoundType: "gong"},
		}},
		{URI: "at://p2", CID: "c4", Name: "plain", Duration: 300, SoundIntervals: []models.SoundInterval{}},
	}
}

func TestSessionsToCSV(t *testing.T) {
	data, err := SessionsToCSV(fixtureSessions())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "URI" || rows[0][3] != "Duration" {
		t.Errorf("unexpected headers: %v", rows[0])
	}
	if rows[1][0] != "at://s1" || rows[1][3] != "300" {
		t.Errorf("unexpected first row: %v", rows[1])
	}
	if rows[2][4] != "" || rows[2][5] != "" {
		t.Errorf("expected empty optional columns, got %v", rows[2])
	}
}

func TestPresetsToCSV(t *testing.T) {
	data, err := PresetsToCSV(fixturePresets())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[1][5] != "60:bell;300.5:gong" {
		t.Errorf("unexpected interval column: %q", rows[1][5])
	}
	if rows[2][5] != "" {
		t.Errorf("expected empty interval column, got %q", rows[2][5])
	}
}

func TestSessionsToMarkdown(t *testing.T) {
	out := string(SessionsToMarkdown(fixtureSessions()))

	if !strings.HasPrefix(out, "# Meditation Log") {
		t.Errorf("expected log heading, got %q", out[:30])
	}
	if !strings.Contains(out, "**Sessions**: 2") {
		t.Error("expected session count")
	}
	if !strings.Contains(out, "(preset: morning)") {
		t.Error("expected preset annotation")
	}
	if !strings.Contains(out, "> calm") {
		t.Error("expected notes as blockquote")
	}
	if !strings.Contains(out, "1h 02m 05s") {
		t.Error("expected formatted duration")
	}
}

func TestPresetsToMarkdown(t *testing.T) {
	out := string(PresetsToMarkdown(fixturePresets()))

	if !strings.Contains(out, "## bells") {
		t.Error("expected preset heading")
	}
	if !strings.Contains(out, "- 60s: bell") || !strings.Contains(out, "- 300.5s: gong") {
		t.Error("expected sound cue lines")
	}
	if !strings.Contains(out, "No sound cues.") {
		t.Error("expected empty-cue marker for plain preset")
	}
}

func TestSessionsToText(t *testing.T) {
	out := string(SessionsToText(fixtureSessions()))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "morning") || !strings.Contains(lines[0], "calm") {
		t.Errorf("expected optional fields on first line, got %q", lines[0])
	}
	if strings.Count(lines[1], "\t") != 1 {
		t.Errorf("expected optional fields omitted on second line, got %q", lines[1])
	}
}

func TestPresetsToText(t *testing.T) {
	out := string(PresetsToText(fixturePresets()))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "60:bell;300.5:gong") {
		t.Errorf("expected joined intervals, got %q", lines[0])
	}
}

func TestEmptyInputs(t *testing.T) {
	if data, err := SessionsToCSV(nil); err != nil || !strings.Contains(string(data), "URI") {
		t.Errorf("expected header-only CSV, got %q (%v)", data, err)
	}
	if out := SessionsToText(nil); len(out) != 0 {
		t.Errorf("expected empty text output, got %q", out)
	}
}
