package models

import "testing"

func TestCache(t *testing.T) {
	t.Run("starts empty", func(t *testing.T) {
		cache := NewCache()

		if len(cache.Sessions()) != 0 {
			t.Errorf("expected no sessions, got %d", len(cache.Sessions()))
		}
		if len(cache.Presets()) != 0 {
			t.Errorf("expected no presets, got %d", len(cache.Presets()))
		}
	})

	t.Run("replaces collections wholesale", func(t *testing.T) {
		cache := NewCache()

		cache.ReplaceSessions([]MeditationSession{
			{URI: "at://a", Duration: 300},
			{URI: "at://b", Duration: 600},
		})
		cache.ReplacePresets([]Preset{{URI: "at://p", Name: "morning"}})

		if len(cache.Sessions()) != 2 || len(cache.Presets()) != 1 {
			t.Fatalf("unexpected sizes: %d sessions, %d presets", len(cache.Sessions()), len(cache.Presets()))
		}

		cache.ReplaceSessions([]MeditationSession{{URI: "at://c", Duration: 120}})

		if len(cache.Sessions()) != 1 {
			t.Fatalf("expected replacement, got %d sessions", len(cache.Sessions()))
		}
		if cache.Sessions()[0].URI != "at://c" {
			t.Errorf("expected at://c, got %s", cache.Sessions()[0].URI)
		}
	})

	t.Run("preserves listing order", func(t *testing.T) {
		cache := NewCache()
		cache.ReplaceSessions([]MeditationSession{
			{URI: "at://1"}, {URI: "at://2"}, {URI: "at://3"},
		})

		for i, want := range []string{"at://1", "at://2", "at://3"} {
			if cache.Sessions()[i].URI != want {
				t.Errorf("position %d: expected %s, got %s", i, want, cache.Sessions()[i].URI)
			}
		}
	})

	t.Run("Clear drops both collections", func(t *testing.T) {
		cache := NewCache()
		cache.ReplaceSessions([]MeditationSession{{URI: "at://a"}})
		cache.ReplacePresets([]Preset{{URI: "at://p", Name: "x"}})

		cache.Clear()

		if len(cache.Sessions()) != 0 || len(cache.Presets()) != 0 {
			t.Error("expected empty cache after Clear")
		}
	})
}
