package config

import (
	"path/filepath"
	"testing"
	"time"
)

func setTestDirs(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LOG_DIR", filepath.Join(dir, "logs"))
	t.Setenv("TEMP_DIR", filepath.Join(dir, "tmp"))
	t.Setenv("DB_PATH", filepath.Join(dir, "data", "summaries.db"))
}

func TestLoadDefaults(t *testing.T) {
	setTestDirs(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q", cfg.ServerPort)
	}
	if cfg.Transcript.DefaultLanguage != "es" {
		t.Errorf("DefaultLanguage = %q", cfg.Transcript.DefaultLanguage)
	}
	if cfg.Transcript.CompressAboveMB != 24 {
		t.Errorf("CompressAboveMB = %v", cfg.Transcript.CompressAboveMB)
	}
	if cfg.Transcript.MaxUploadMB != 25 {
		t.Errorf("MaxUploadMB = %v", cfg.Transcript.MaxUploadMB)
	}
	if cfg.Transcript.ChunkDuration != 600*time.Second {
		t.Errorf("ChunkDuration = %v", cfg.Transcript.ChunkDuration)
	}
	if cfg.Summary.MaxInputChars != 15000 {
		t.Errorf("MaxInputChars = %d", cfg.Summary.MaxInputChars)
	}
	if cfg.Summary.Temperature != 0.7 {
		t.Errorf("Temperature = %v", cfg.Summary.Temperature)
	}
	if cfg.Summary.Timeout != 2*time.Minute {
		t.Errorf("Summary.Timeout = %v", cfg.Summary.Timeout)
	}
	if cfg.Tools.YTDLPPath != "yt-dlp" {
		t.Errorf("YTDLPPath = %q", cfg.Tools.YTDLPPath)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	setTestDirs(t)
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("DEFAULT_LANGUAGE", "fr")
	t.Setenv("AUDIO_CHUNK_DURATION", "300s")
	t.Setenv("SUMMARY_MODEL", "anthropic/claude-3-haiku")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != "9999" {
		t.Errorf("ServerPort = %q", cfg.ServerPort)
	}
	if cfg.Transcript.DefaultLanguage != "fr" {
		t.Errorf("DefaultLanguage = %q", cfg.Transcript.DefaultLanguage)
	}
	if cfg.Transcript.ChunkDuration != 300*time.Second {
		t.Errorf("ChunkDuration = %v", cfg.Transcript.ChunkDuration)
	}
	if cfg.Summary.Model != "anthropic/claude-3-haiku" {
		t.Errorf("Summary.Model = %q", cfg.Summary.Model)
	}
	if cfg.RateLimit.Enabled {
		t.Error("RateLimit.Enabled = true, want false")
	}
}

func TestValidateRejectsBadThresholds(t *testing.T) {
	setTestDirs(t)
	t.Setenv("AUDIO_COMPRESS_ABOVE_MB", "30")
	t.Setenv("AUDIO_MAX_UPLOAD_MB", "25")

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error when compress threshold exceeds upload limit")
	}
}

func TestValidateRejectsBadTimeouts(t *testing.T) {
	setTestDirs(t)
	t.Setenv("SUMMARY_TIMEOUT", "-5s")

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error for negative summary timeout")
	}
}
