package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected an error for an explicitly missing config file")
	}

	cfg, err = Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Voice.WakePhrase != "hey halo" {
		t.Errorf("expected default wake phrase, got %q", cfg.Voice.WakePhrase)
	}
	if cfg.Voice.RecordingWindow != 5*time.Second {
		t.Errorf("expected default recording window, got %v", cfg.Voice.RecordingWindow)
	}
	if cfg.Screening.Timeout != 1500*time.Millisecond {
		t.Errorf("expected default screening timeout, got %v", cfg.Screening.Timeout)
	}
	if cfg.Audio.Driver != "miniaudio" {
		t.Errorf("expected default audio driver, got %q", cfg.Audio.Driver)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "halo.yaml")
	contents := `
backend:
  base_url: http://backend.internal:9000
  user_id: 42
voice:
  wake_phrase: hey jarvis
  recording_window: 3s
audio:
  driver: portaudio
screening:
  blocked_terms:
    - telemarketer
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Backend.BaseURL != "http://backend.internal:9000" {
		t.Errorf("unexpected base URL %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.UserID != 42 {
		t.Errorf("unexpected user ID %d", cfg.Backend.UserID)
	}
	if cfg.Voice.WakePhrase != "hey jarvis" {
		t.Errorf("unexpected wake phrase %q", cfg.Voice.WakePhrase)
	}
	if cfg.Voice.RecordingWindow != 3*time.Second {
		t.Errorf("unexpected recording window %v", cfg.Voice.RecordingWindow)
	}
	if len(cfg.Screening.BlockedTerms) != 1 || cfg.Screening.BlockedTerms[0] != "telemarketer" {
		t.Errorf("unexpected blocked terms %v", cfg.Screening.BlockedTerms)
	}
}

func TestLoadRejectsInvalidDriver(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "halo.yaml")
	if err := os.WriteFile(path, []byte("audio:\n  driver: alsa\n"), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error for an unknown audio driver")
	}
}
