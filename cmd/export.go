package main

import (
	"context"

	"github.com/desertthunder/sati/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export fetches every record from the repository and writes them to local
// files in the requested format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	outputDir := cmd.String("output")

	if err := r.prepare(ctx); err != nil {
		return err
	}

	r.writePlain("Exporting records...\n\n")

	progressCh := make(chan tasks.ProgressUpdate, 50)
	drained := r.renderProgress(progressCh, func(update tasks.ProgressUpdate) {
		switch update.Phase {
		case tasks.FetchSessions, tasks.FetchPresets:
			r.writePlain("📥 %s\n", update.Message)
		case tasks.ExportRecords:
			r.writePlain("📝 %s\n", update.Message)
		}
	})

	synced, err := r.engine.Sync(ctx, progressCh)
	if err != nil {
		close(progressCh)
		<-drained
		return err
	}

	result, err := r.engine.Export(ctx, progressCh, synced.Sessions, synced.Presets, tasks.ExportOpts{
		Format:    format,
		OutputDir: outputDir,
	})
	close(progressCh)
	<-drained

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete")
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Sessions: %d\n", result.SessionCount)
	r.writePlain("Presets: %d\n", result.PresetCount)
	for _, file := range result.Files {
		r.writePlain("  - %s\n", file)
	}

	return nil
}
