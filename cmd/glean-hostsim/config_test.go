package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSettingsDefaultsWithNoConfigFile(t *testing.T) {
	os.Unsetenv("GLEAN_APPLICATION_ID")
	cfg, err := LoadSettings("")
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if cfg.ApplicationID != "org.example.hostsim" {
		t.Errorf("ApplicationID = %q, want default", cfg.ApplicationID)
	}
	if !cfg.UploadEnabled {
		t.Error("expected UploadEnabled to default true")
	}
}

func TestLoadSettingsFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hostsim.yaml")
	contents := "application_id: org.example.custom\nupload_enabled: false\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if cfg.ApplicationID != "org.example.custom" {
		t.Errorf("ApplicationID = %q, want org.example.custom", cfg.ApplicationID)
	}
	if cfg.UploadEnabled {
		t.Error("expected UploadEnabled to be false from the file")
	}
}
