package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestAgentSizeOutOfRangeRejected(t *testing.T) {
	cfg := Default()
	cfg.AgentSize = 0.6
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for agent_size > 0.5")
	}
}

func TestAgentSizeZeroRejected(t *testing.T) {
	cfg := Default()
	cfg.AgentSize = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for agent_size == 0")
	}
}

func TestHLHTypeOutOfRangeRejected(t *testing.T) {
	cfg := Default()
	cfg.HLHType = 3
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for hlh_type outside {0,1,2}")
	}
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "agent_size: 0.25\nprecision: 0.0001\ntimelimit: 10\nhlh_type: 2\nuse_cardinal: true\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.AgentSize != 0.25 || cfg.HLHType != 2 || !cfg.UseCardinal {
		t.Errorf("unexpected config after load: %+v", cfg)
	}
}

func TestLoadRejectsUnknownField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "agent_size: 0.25\nprecision: 0.0001\ntimelimit: 10\nbogus_field: true\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an unknown config field")
	}
}
