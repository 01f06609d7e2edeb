package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestReloaderRequiresExistingPath(t *testing.T) {
	if _, err := NewReloader(filepath.Join(t.TempDir(), "nope.yaml"), func(*Config) {}); err == nil {
		t.Error("expected error for a missing config file")
	}
	if _, err := NewReloader("", func(*Config) {}); err == nil {
		t.Error("expected error for an empty path")
	}
}

func TestReloaderAppliesChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("listen: \"127.0.0.1:1\"\n"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	applied := make(chan *Config, 1)
	r, err := NewReloader(path, func(cfg *Config) {
		select {
		case applied <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("new reloader: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	// Give the watcher a moment to arm before rewriting.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("listen: \"127.0.0.1:2\"\n"), 0600); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	select {
	case cfg := <-applied:
		if cfg.Listen != "127.0.0.1:2" {
			t.Errorf("expected reloaded listen address, got %q", cfg.Listen)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("reload was never applied")
	}
}
