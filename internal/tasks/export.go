package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/desertthunder/sati/internal/formatter"
	"github.com/desertthunder/sati/internal/models"
	"github.com/desertthunder/sati/internal/shared"
)

// ExportOpts contains configuration for bulk record exports.
type ExportOpts struct {
	Format    string // Export format: json, csv, markdown, txt
	OutputDir string // Base output directory (default: sati_export_{epoch})
}

// ExportResult summarizes a completed export.
type ExportResult struct {
	OutputDirectory string   // Where files were written
	Files           []string // Paths of written files, manifest last
	SessionCount    int
	PresetCount     int
}

// exportManifest is written alongside the exported files.
type exportManifest struct {
	ExportedAt   string   `json:"exported_at"`
	Format       string   `json:"format"`
	SessionCount int      `json:"session_count"`
	PresetCount  int      `json:"preset_count"`
	Files        []string `json:"files"`
}

// Export writes the given records to disk in the requested format plus a manifest.
func (e *Engine) Export(ctx context.Context, progress chan<- ProgressUpdate, sessions []models.MeditationSession, presets []models.Preset, opts ExportOpts) (*ExportResult, error) {
	if opts.Format == "" {
		opts.Format = "json"
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("sati_export_%d", time.Now().Unix())
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ExportResult{
		OutputDirectory: opts.OutputDir,
		SessionCount:    len(sessions),
		PresetCount:     len(presets),
	}

	sendProgress(progress, ProgressUpdate{Phase: ExportRecords, Step: 1, Total: 3, Message: "Exporting sessions..."})

	sessionData, presetData, ext, err := renderExport(opts.Format, sessions, presets)
	if err != nil {
		return nil, err
	}

	sessionPath := filepath.Join(opts.OutputDir, "sessions."+ext)
	if err := os.WriteFile(sessionPath, sessionData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", sessionPath, err)
	}
	result.Files = append(result.Files, sessionPath)

	sendProgress(progress, ProgressUpdate{Phase: ExportRecords, Step: 2, Total: 3, Message: "Exporting presets..."})

	presetPath := filepath.Join(opts.OutputDir, "presets."+ext)
	if err := os.WriteFile(presetPath, presetData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", presetPath, err)
	}
	result.Files = append(result.Files, presetPath)

	sendProgress(progress, ProgressUpdate{Phase: ExportRecords, Step: 3, Total: 3, Message: "Writing manifest..."})

	manifest := exportManifest{
		ExportedAt:   shared.Timestamp(),
		Format:       opts.Format,
		SessionCount: len(sessions),
		PresetCount:  len(presets),
		Files:        result.Files,
	}

	manifestData, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}

	manifestPath := filepath.Join(opts.OutputDir, "manifest.json")
	if err := os.WriteFile(manifestPath, manifestData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}
	result.Files = append(result.Files, manifestPath)

	e.logger.Info("export complete", "dir", opts.OutputDir, "format", opts.Format, "files", len(result.Files))

	return result, nil
}

// renderExport produces the per-collection file contents and extension for a format.
func renderExport(format string, sessions []models.MeditationSession, presets []models.Preset) (sessionData, presetData []byte, ext string, err error) {
	switch format {
	case "json":
		sessionData, err = json.MarshalIndent(sessions, "", "  ")
		if err != nil {
			return nil, nil, "", fmt.Errorf("failed to encode sessions: %w", err)
		}
		presetData, err = json.MarshalIndent(presets, "", "  ")
		if err != nil {
			return nil, nil, "", fmt.Errorf("failed to encode presets: %w", err)
		}
		return sessionData, presetData, "json", nil

	case "csv":
		sessionData, err = formatter.SessionsToCSV(sessions)
		if err != nil {
			return nil, nil, "", err
		}
		presetData, err = formatter.PresetsToCSV(presets)
		if err != nil {
			return nil, nil, "", err
		}
		return sessionData, presetData, "csv", nil

	case "markdown", "md":
		return formatter.SessionsToMarkdown(sessions), formatter.PresetsToMarkdown(presets), "md", nil

	case "txt", "text":
		return formatter.SessionsToText(sessions), formatter.PresetsToText(presets), "txt", nil

	default:
		return nil, nil, "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
}
