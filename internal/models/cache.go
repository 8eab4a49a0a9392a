package models

// Cache holds the two record collections currently loaded from the remote
// repository. Collections are replaced wholesale on each reload, never
// merged, and keep the repository's listing order. There is no persistence
// and no deduplication.
//
// A Cache is owned by whichever run loop created it (the CLI Runner or the
// TUI model) and is only touched from that loop, so it carries no locking.
type Cache struct {
	sessions []MeditationSession
	presets  []Preset
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// ReplaceSessions swaps the session collection for the given page(s).
func (c *Cache) ReplaceSessions(sessions []MeditationSession) {
	c.sessions = sessions
}

// ReplacePresets swaps the preset collection for the given page(s).
func (c *Cache) ReplacePresets(presets []Preset) {
	c.presets = presets
}

// Sessions returns the currently loaded sessions in listing order.
func (c *Cache) Sessions() []MeditationSession {
	return c.sessions
}

// Presets returns the currently loaded presets in listing order.
func (c *Cache) Presets() []Preset {
	return c.presets
}

// Clear drops both collections.
func (c *Cache) Clear() {
	c.sessions = nil
	c.presets = nil
}
