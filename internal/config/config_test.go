package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	wd, _ := os.Getwd()
	defer os.Chdir(wd)
	os.Chdir(dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerAddr != ":8080" {
		t.Fatalf("ServerAddr = %q, want :8080", cfg.ServerAddr)
	}
	if cfg.TickInterval != "100ms" {
		t.Fatalf("TickInterval = %q, want 100ms", cfg.TickInterval)
	}
}

func TestLoadFromExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trafficsim.yaml")
	if err := os.WriteFile(path, []byte("server_addr: ':9999'\ns3_bucket: tick-archive\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerAddr != ":9999" {
		t.Fatalf("ServerAddr = %q, want :9999", cfg.ServerAddr)
	}
	if cfg.S3Bucket != "tick-archive" {
		t.Fatalf("S3Bucket = %q, want tick-archive", cfg.S3Bucket)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	wd, _ := os.Getwd()
	defer os.Chdir(wd)
	os.Chdir(dir)

	os.Setenv("TRAFFICSIM_SERVER_ADDR", ":7000")
	defer os.Unsetenv("TRAFFICSIM_SERVER_ADDR")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerAddr != ":7000" {
		t.Fatalf("ServerAddr = %q, want :7000 from env override", cfg.ServerAddr)
	}
}
