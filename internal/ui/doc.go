// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is a small explicit state machine over five views:
//  1. [MainMenuView] : Entry point, navigate to any other view
//  2. [NewSessionFormView] : Configure a meditation (duration, preset, notes)
//  3. [MeditatingView] : One-second countdown that self-transitions to a "complete" sub-state
//  4. [PresetsView] : Browse presets loaded from the cache
//  5. [PastSessionsView] : Browse past meditation sessions
//
// Transitions are user-triggered only; the countdown tick is the single
// self-driven event and carries a generation counter so leaving the
// meditating view cancels it cleanly (no orphaned timers). Entering any
// non-menu view clears the status banner, and every render is a pure
// function of the model and cache, so re-entering a state always reflects
// the latest cache contents.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, tab, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
