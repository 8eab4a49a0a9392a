package ui

import (
	"fmt"
	"strings"

	"github.com/desertthunder/sati/internal/shared"
)

// View renders the current view. Rendering is a pure function of model
// state, so repeated calls without an intervening Update produce identical
// output.
func (m *Model) View() string {
	switch m.view {
	case NewSessionFormView:
		return m.renderForm()
	case MeditatingView:
		return m.renderMeditating()
	case PresetsView:
		return m.renderPresets()
	case PastSessionsView:
		return m.renderSessions()
	default:
		return m.renderMenu()
	}
}

func (m *Model) renderMenu() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("sati") + "\n")
	b.WriteString(styles.help.Render("a meditation log") + "\n\n")

	for i, entry := range menuEntries {
		cursor := "  "
		label := entry.label
		if i == m.menuIndex {
			cursor = "→ "
			label = emphasis.Render(label)
		}
		b.WriteString(cursor + label + "\n")
	}

	if m.loading {
		b.WriteString("\n" + styles.help.Render("loading records...") + "\n")
	}

	b.WriteString(m.renderStatus())
	b.WriteString("\n" + m.help.View(m.keys) + "\n")

	return b.String()
}

func (m *Model) renderForm() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("New Meditation") + "\n\n")

	labels := []string{"Duration", "Preset", "Notes"}
	for i, input := range m.inputs {
		b.WriteString(labels[i] + "\n")
		b.WriteString(input.View() + "\n\n")
	}

	b.WriteString(m.renderStatus())
	b.WriteString("\n" + styles.help.Render("tab next field • enter begin • esc back") + "\n")

	return b.String()
}

func (m *Model) renderMeditating() string {
	var b strings.Builder

	if m.complete {
		b.WriteString(styles.ok.Render("Meditation complete") + "\n\n")
		b.WriteString(fmt.Sprintf("You sat for %s.\n", shared.FormatDuration(m.total)))
		b.WriteString(m.renderStatus())
		b.WriteString("\n" + styles.help.Render("enter return to menu") + "\n")
		return b.String()
	}

	b.WriteString(styles.title.Render("Meditating") + "\n\n")
	b.WriteString(emphasis.Render(shared.FormatDuration(m.remaining)) + "\n")
	b.WriteString(m.renderProgress() + "\n")
	b.WriteString("\n" + styles.help.Render("esc cancel") + "\n")

	return b.String()
}

// renderProgress draws a simple bar of elapsed time over the countdown.
func (m *Model) renderProgress() string {
	const width = 30
	if m.total <= 0 {
		return ""
	}

	elapsed := m.total - m.remaining
	filled := elapsed * width / m.total
	if filled > width {
		filled = width
	}

	return styles.ok.Render(strings.Repeat("█", filled)) +
		styles.help.Render(strings.Repeat("░", width-filled))
}

func (m *Model) renderPresets() string {
	if m.loading {
		return styles.title.Render("Presets") + "\n\n" +
			styles.help.Render("loading...") + "\n"
	}

	if len(m.cache.Presets()) == 0 {
		return styles.title.Render("Presets") + "\n\n" +
			"No presets yet.\n\n" +
			styles.help.Render("esc back • q quit") + "\n"
	}

	return m.presetList.View() + "\n" +
		styles.help.Render("esc back • q quit") + "\n"
}

func (m *Model) renderSessions() string {
	if m.loading {
		return styles.title.Render("Past Sessions") + "\n\n" +
			styles.help.Render("loading...") + "\n"
	}

	if len(m.cache.Sessions()) == 0 {
		return styles.title.Render("Past Sessions") + "\n\n" +
			"No sessions recorded yet.\n\n" +
			styles.help.Render("esc back • q quit") + "\n"
	}

	return m.sessionList.View() + "\n" +
		styles.help.Render("esc back • q quit") + "\n"
}

func (m *Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return "\n" + styles.err.Render(m.status) + "\n"
	}
	return "\n" + styles.ok.Render(m.status) + "\n"
}
