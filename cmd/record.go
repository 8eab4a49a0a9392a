package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/sati/internal/models"
	"github.com/desertthunder/sati/internal/shared"
	"github.com/urfave/cli/v3"
)

// Log records a completed meditation session in the signed-in repository.
func (r *Runner) Log(ctx context.Context, cmd *cli.Command) error {
	duration := cmd.Float("duration")
	preset := cmd.String("preset")
	notes := cmd.String("notes")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if err := r.prepare(ctx); err != nil {
		return err
	}

	r.logger.Info("recording meditation session", "duration", duration)

	result, err := r.store.CreateMeditationSession(ctx, duration, preset, notes)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(result, pretty)
	}

	r.writePlain("✓ Session recorded (%s)\n", shared.FormatDuration(int(duration)))
	r.writePlain("URI: %s\n", result.URI)
	r.writePlain("CID: %s\n", result.CID)

	return nil
}

// Sessions lists recorded meditation sessions, one page at a time.
func (r *Runner) Sessions(ctx context.Context, cmd *cli.Command) error {
	limit := int(cmd.Int("limit"))
	cursor := cmd.String("cursor")
	reverse := cmd.Bool("reverse")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if err := r.prepare(ctx); err != nil {
		return err
	}

	r.logger.Infof("listing sessions with limit %v", limit)

	page, err := r.store.ListMeditationSessions(ctx, limit, cursor, reverse)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(page, pretty)
	}

	r.writePlainHeader(fmt.Sprintf("Meditation Sessions (%d)", page.Count))
	for i, session := range page.Sessions {
		r.writePlain("%d. %s - %s\n", i+1, session.CreatedAt, shared.FormatDuration(session.Duration))
		if session.PresetID != "" {
			r.writePlain("   Preset: %s\n", session.PresetID)
		}
		if session.Notes != "" {
			r.writePlain("   Notes: %s\n", session.Notes)
		}
	}

	if page.Cursor != "" {
		r.writePlainln("Next page: --cursor %s", page.Cursor)
	}

	return nil
}

// PresetCreate creates a meditation preset with optional sound cues.
func (r *Runner) PresetCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("name")
	duration := cmd.Float("duration")
	rawIntervals := cmd.StringSlice("interval")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	intervals, err := parseIntervals(rawIntervals)
	if err != nil {
		return err
	}

	if err := r.prepare(ctx); err != nil {
		return err
	}

	r.logger.Info("creating preset", "name", name, "intervals", len(intervals))

	result, err := r.store.CreatePreset(ctx, name, duration, intervals)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(result, pretty)
	}

	r.writePlain("✓ Preset created: %s\n", name)
	r.writePlain("URI: %s\n", result.URI)

	return nil
}

// PresetList lists meditation presets, one page at a time.
func (r *Runner) PresetList(ctx context.Context, cmd *cli.Command) error {
	limit := int(cmd.Int("limit"))
	cursor := cmd.String("cursor")
	reverse := cmd.Bool("reverse")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if err := r.prepare(ctx); err != nil {
		return err
	}

	r.logger.Infof("listing presets with limit %v", limit)

	page, err := r.store.ListPresets(ctx, limit, cursor, reverse)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(page, pretty)
	}

	r.writePlainHeader(fmt.Sprintf("Presets (%d)", page.Count))
	for i, preset := range page.Presets {
		r.writePlain("%d. %s - %s\n", i+1, preset.Name, shared.FormatDuration(preset.Duration))
		for _, interval := range preset.SoundIntervals {
			r.writePlain("   %gs: %s\n", interval.Time, interval.SoundType)
		}
	}

	if page.Cursor != "" {
		r.writePlainln("Next page: --cursor %s", page.Cursor)
	}

	return nil
}

// parseIntervals parses repeated seconds:sound flag values into sound cues.
func parseIntervals(raw []string) ([]models.SoundInterval, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	intervals := make([]models.SoundInterval, 0, len(raw))
	for _, entry := range raw {
		at, sound, found := strings.Cut(entry, ":")
		if !found {
			return nil, fmt.Errorf("%w: interval %q must be seconds:sound", shared.ErrInvalidArgument, entry)
		}

		seconds, err := strconv.ParseFloat(strings.TrimSpace(at), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: interval %q has a non-numeric time", shared.ErrInvalidArgument, entry)
		}

		intervals = append(intervals, models.SoundInterval{
			Time:      seconds,
			SoundType: strings.TrimSpace(sound),
		})
	}

	return intervals, nil
}
