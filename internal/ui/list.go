package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/sati/internal/models"
	"github.com/desertthunder/sati/internal/shared"
)

var (
	_ list.Item = presetItem{}
	_ list.Item = sessionItem{}
)

// presetItem wraps [models.Preset] to implement [list.Item].
type presetItem struct {
	preset models.Preset
}

func (i presetItem) FilterValue() string { return i.preset.Name }
func (i presetItem) Title() string       { return i.preset.Name }
func (i presetItem) Description() string {
	desc := shared.FormatDuration(i.preset.Duration)
	if n := len(i.preset.SoundIntervals); n > 0 {
		desc = fmt.Sprintf("%s • %d sound cues", desc, n)
	}
	return desc
}

// sessionItem wraps [models.MeditationSession] to implement [list.Item].
type sessionItem struct {
	session models.MeditationSession
}

func (i sessionItem) FilterValue() string { return i.session.CreatedAt }
func (i sessionItem) Title() string {
	return fmt.Sprintf("%s - %s", i.session.CreatedAt, shared.FormatDuration(i.session.Duration))
}
func (i sessionItem) Description() string {
	desc := i.session.Notes
	if i.session.PresetID != "" {
		if desc != "" {
			desc = fmt.Sprintf("preset %s • %s", i.session.PresetID, desc)
		} else {
			desc = "preset " + i.session.PresetID
		}
	}
	return desc
}
