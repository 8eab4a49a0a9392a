// package models defines the data model for the meditation tracker
package models

// MeditationSession is a single completed meditation, identified by the
// repository-assigned URI and content identifier. Records are immutable once
// written; this client never updates or deletes them.
type MeditationSession struct {
	URI       string `json:"uri"`
	CID       string `json:"cid"`
	CreatedAt string `json:"createdAt"` // server-assigned, RFC 3339
	Duration  int    `json:"duration"`  // whole seconds
	PresetID  string `json:"presetId,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// Preset is a reusable meditation configuration: a name, a duration, and an
// ordered sequence of sound cues.
type Preset struct {
	URI            string          `json:"uri"`
	CID            string          `json:"cid"`
	Name           string          `json:"name"`
	Duration       int             `json:"duration"` // whole seconds
	CreatedAt      string          `json:"createdAt"`
	SoundIntervals []SoundInterval `json:"soundIntervals"`
}

// SoundInterval is a sound cue within a preset. Time is the offset in seconds
// from the start of the meditation and never exceeds the preset's duration.
// Intervals have no identity of their own.
type SoundInterval struct {
	Time      float64 `json:"time"`
	SoundType string  `json:"soundType"`
}

// CreateResult is the repository's response to a record write.
type CreateResult struct {
	URI              string `json:"uri"`
	CID              string `json:"cid"`
	ValidationStatus string `json:"validationStatus,omitempty"`
}
