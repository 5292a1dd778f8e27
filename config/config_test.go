package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	d, err := Load("")
	if err != nil {
 t.Fatalf("Load: %v", err)
	}
	if d.WindowWidth != 1280 || d.WindowHeight != 720 {
 t.Fatalf("unexpected window size: %dx%d", d.WindowWidth, d.WindowHeight)
	}
	if d.TickRate != time.Second/60 {
 t.Fatalf("TickRate = %v, want %v", d.TickRate, time.Second/60)
	}
	if d.DebugAddr == "" {
 t.Fatalf("DebugAddr should default to a non-empty bind address")
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	d, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
 t.Fatalf("Load: %v", err)
	}
	if d.WindowTitle != "animgraph demo" {
 t.Fatalf("WindowTitle = %q, want default", d.WindowTitle)
	}
}

func TestLoadReadsFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.yaml")
	contents := "window_width: 640\nwindow_height: 480\ndebug_addr: \"0.0.0.0:9000\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
 t.Fatalf("WriteFile: %v", err)
	}

	d, err := Load(path)
	if err != nil {
 t.Fatalf("Load: %v", err)
	}
	if d.WindowWidth != 640 || d.WindowHeight != 480 {
 t.Fatalf("unexpected window size: %dx%d", d.WindowWidth, d.WindowHeight)
	}
	if d.DebugAddr != "0.0.0.0:9000" {
 t.Fatalf("DebugAddr = %q, want override", d.DebugAddr)
	}
	// Fields the file didn't set still fall back to their default.
	if d.WindowTitle != "animgraph demo" {
 t.Fatalf("WindowTitle = %q, want default preserved", d.WindowTitle)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ANIMGRAPH_DEBUG_ADDR", "127.0.0.1:9999")
	d, err := Load("")
	if err != nil {
 t.Fatalf("Load: %v", err)
	}
	if d.DebugAddr != "127.0.0.1:9999" {
 t.Fatalf("DebugAddr = %q, want env override", d.DebugAddr)
	}
}
