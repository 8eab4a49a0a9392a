// package formatter renders fetched records to export formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/desertthunder/sati/internal/models"
	"github.com/desertthunder/sati/internal/shared"
)

// SessionsToCSV converts meditation sessions to CSV with columns: URI, CID, CreatedAt, Duration, PresetID, Notes
func SessionsToCSV(sessions []models.MeditationSession) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"URI", "CID", "CreatedAt", "Duration", "PresetID", "Notes"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, s := range sessions {
		record := []string{
			s.URI,
			s.CID,
			s.CreatedAt,
			strconv.Itoa(s.Duration),
			s.PresetID,
			s.Notes,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// PresetsToCSV converts presets to CSV with columns: URI, CID, Name, Duration, CreatedAt, Intervals
//
// The interval column holds "time:soundType" pairs joined by semicolons.
func PresetsToCSV(presets []models.Preset) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"URI", "CID", "Name", "Duration", "CreatedAt", "Intervals"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, p := range presets {
		record := []string{
			p.URI,
			p.CID,
			p.Name,
			strconv.Itoa(p.Duration),
			p.CreatedAt,
			joinIntervals(p.SoundIntervals),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// SessionsToMarkdown converts meditation sessions to a Markdown log.
func SessionsToMarkdown(sessions []models.MeditationSession) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Meditation Log\n\n")
	buf.WriteString(fmt.Sprintf("**Sessions**: %d\n\n", len(sessions)))

	for i, s := range sessions {
		duration := shared.FormatDuration(s.Duration)
		buf.WriteString(fmt.Sprintf("%d. %s - %s", i+1, s.CreatedAt, duration))
		if s.PresetID != "" {
			buf.WriteString(fmt.Sprintf(" (preset: %s)", s.PresetID))
		}
		buf.WriteString("\n")
		if s.Notes != "" {
			buf.WriteString(fmt.Sprintf("   > %s\n", s.Notes))
		}
	}

	return buf.Bytes()
}

// PresetsToMarkdown converts presets to a Markdown listing with their sound cues.
func PresetsToMarkdown(presets []models.Preset) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Presets\n\n")

	for _, p := range presets {
		buf.WriteString(fmt.Sprintf("## %s\n\n", p.Name))
		buf.WriteString(fmt.Sprintf("**Duration**: %s\n", shared.FormatDuration(p.Duration)))
		buf.WriteString(fmt.Sprintf("**Created**: %s\n\n", p.CreatedAt))

		if len(p.SoundIntervals) == 0 {
			buf.WriteString("No sound cues.\n\n")
			continue
		}

		for _, interval := range p.SoundIntervals {
			buf.WriteString(fmt.Sprintf("- %gs: %s\n", interval.Time, interval.SoundType))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// SessionsToText converts meditation sessions to plain text, one per line.
func SessionsToText(sessions []models.MeditationSession) []byte {
	var buf bytes.Buffer

	for _, s := range sessions {
		buf.WriteString(fmt.Sprintf("%s\t%s", s.CreatedAt, shared.FormatDuration(s.Duration)))
		if s.PresetID != "" {
			buf.WriteString("\t" + s.PresetID)
		}
		if s.Notes != "" {
			buf.WriteString("\t" + s.Notes)
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// PresetsToText converts presets to plain text, one per line.
func PresetsToText(presets []models.Preset) []byte {
	var buf bytes.Buffer

	for _, p := range presets {
		buf.WriteString(fmt.Sprintf("%s\t%s", p.Name, shared.FormatDuration(p.Duration)))
		if len(p.SoundIntervals) > 0 {
			buf.WriteString("\t" + joinIntervals(p.SoundIntervals))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// joinIntervals renders sound intervals as "time:soundType" pairs joined by semicolons.
func joinIntervals(intervals []models.SoundInterval) string {
	var buf bytes.Buffer
	for i, interval := range intervals {
		if i > 0 {
			buf.WriteString(";")
		}
		buf.WriteString(fmt.Sprintf("%g:%s", interval.Time, interval.SoundType))
	}
	return buf.String()
}
