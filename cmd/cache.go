package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/desertthunder/sati/internal/repositories"
	"github.com/desertthunder/sati/internal/shared"
	"github.com/desertthunder/sati/internal/tasks"
	"github.com/urfave/cli/v3"
)

// openSnapshotDB opens the snapshot database named by the config flag.
func (r *Runner) openSnapshotDB(cmd *cli.Command) (*sql.DB, error) {
	configPath := cmd.String("config")

	config := r.config
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
		} else {
			r.logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
	return db, nil
}

// CacheSync fetches every session and preset from the repository and replaces
// the local snapshot with the result.
func (r *Runner) CacheSync(ctx context.Context, cmd *cli.Command) error {
	if err := r.prepare(ctx); err != nil {
		return err
	}

	db, err := r.openSnapshotDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	engine := tasks.NewEngine(
		r.store,
		repositories.NewSessionRepository(db),
		repositories.NewPresetRepository(db),
		r.logger,
	)

	r.writePlain("Syncing records to local snapshot...\n\n")

	progressCh := make(chan tasks.ProgressUpdate, 50)
	drained := r.renderProgress(progressCh, func(update tasks.ProgressUpdate) {
		switch update.Phase {
		case tasks.FetchSessions, tasks.FetchPresets:
			r.writePlain("📥 %s\n", update.Message)
		case tasks.WriteSnapshot:
			r.writePlain("💾 %s\n", update.Message)
		}
	})

	result, err := engine.Sync(ctx, progressCh)
	close(progressCh)
	<-drained

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Sync Complete")
	r.writePlain("Sessions: %d\n", len(result.Sessions))
	r.writePlain("Presets: %d\n", len(result.Presets))
	r.writePlain("Pages fetched: %d\n", result.Pages)

	return nil
}

// CacheShow prints the local snapshot. No network requests are made.
func (r *Runner) CacheShow(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	db, err := r.openSnapshotDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := repositories.NewSessionRepository(db).All()
	if err != nil {
		return fmt.Errorf("failed to read session snapshot: %w", err)
	}

	presets, err := repositories.NewPresetRepository(db).All()
	if err != nil {
		return fmt.Errorf("failed to read preset snapshot: %w", err)
	}

	if useJSON {
		return r.writeJSON(map[string]any{
			"sessions": sessions,
			"presets":  presets,
		}, pretty)
	}

	r.writePlainHeader(fmt.Sprintf("Local Snapshot (%d sessions, %d presets)", len(sessions), len(presets)))
	for i, session := range sessions {
		r.writePlain("%d. %s - %s\n", i+1, session.CreatedAt, shared.FormatDuration(session.Duration))
	}
	if len(presets) > 0 {
		r.writePlain("\nPresets:\n")
		for i, preset := range presets {
			r.writePlain("%d. %s - %s\n", i+1, preset.Name, shared.FormatDuration(preset.Duration))
		}
	}

	return nil
}
