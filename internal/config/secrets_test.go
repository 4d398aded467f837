package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveSecret_EnvOnly(t *testing.T) {
	const envName = "TEST_SECRET_ENV_ONLY"
	os.Setenv(envName, "env-value")
	defer os.Unsetenv(envName)

	value, err := ResolveSecret(envName)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "env-value" {
		t.Errorf("got %q, want %q", value, "env-value")
	}
}

func TestResolveSecret_FileOnly(t *testing.T) {
	const envName = "TEST_SECRET_FILE_ONLY"

	tmpDir := t.TempDir()
	secretFile := filepath.Join(tmpDir, "secret.txt")
	if err := os.WriteFile(secretFile, []byte("file-value\n"), 0600); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	os.Setenv(envName+"_FILE", secretFile)
	defer os.Unsetenv(envName + "_FILE")

	value, err := ResolveSecret(envName)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "file-value" {
		t.Errorf("got %q, want %q", value, "file-value")
	}
}

func TestResolveSecret_FileWinsOverEnv(t *testing.T) {
	const envName = "TEST_SECRET_FILE_WINS"

	os.Setenv(envName, "env-value")
	defer os.Unsetenv(envName)

	tmpDir := t.TempDir()
	secretFile := filepath.Join(tmpDir, "secret.txt")
	if err := os.WriteFile(secretFile, []byte("file-value"), 0600); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	os.Setenv(envName+"_FILE", secretFile)
	defer os.Unsetenv(envName + "_FILE")

	value, err := ResolveSecret(envName)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "file-value" {
		t.Errorf("got %q, want %q (file should win over env)", value, "file-value")
	}
}

func TestResolveSecret_FileNotFound(t *testing.T) {
	const envName = "TEST_SECRET_FILE_NOT_FOUND"

	os.Setenv(envName+"_FILE", "/nonexistent/path/to/secret")
	defer os.Unsetenv(envName + "_FILE")

	_, err := ResolveSecret(envName)
	if err == nil {
		t.Error("expected error when file does not exist")
	}
}

func TestResolveSecret_TrimsWhitespace(t *testing.T) {
	const envName = "TEST_SECRET_WHITESPACE"

	tmpDir := t.TempDir()
	secretFile := filepath.Join(tmpDir, "secret.txt")
	if err := os.WriteFile(secretFile, []byte("  secret-value  \n\n"), 0600); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	os.Setenv(envName+"_FILE", secretFile)
	defer os.Unsetenv(envName + "_FILE")

	value, err := ResolveSecret(envName)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "secret-value" {
		t.Errorf("got %q, want %q (whitespace should be trimmed)", value, "secret-value")
	}
}

func TestLoadEngineConfig(t *testing.T) {
	tmpDir := t.TempDir()
	cfgFile := filepath.Join(tmpDir, "engine.yaml")
	content := `version: 1
world:
  id: demo
  name: Demo World
  file: world.json
network:
  api_port: 9090
engine:
  tick_interval_ms: 250
  max_visits: 64
`
	if err := os.WriteFile(cfgFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadEngineConfig(cfgFile)
	if err != nil {
		t.Fatalf("LoadEngineConfig failed: %v", err)
	}
	if cfg.World.ID != "demo" {
		t.Errorf("got world id %q, want demo", cfg.World.ID)
	}
	if cfg.APIPort() != 9090 {
		t.Errorf("got api port %d, want 9090", cfg.APIPort())
	}
	if cfg.TickInterval().Milliseconds() != 250 {
		t.Errorf("got tick interval %v, want 250ms", cfg.TickInterval())
	}
	if cfg.MaxVisits() != 64 {
		t.Errorf("got max visits %d, want 64", cfg.MaxVisits())
	}
}

func TestLoadEngineConfigDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	cfgFile := filepath.Join(tmpDir, "engine.yaml")
	content := `version: 1
world:
  file: world.json
`
	if err := os.WriteFile(cfgFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadEngineConfig(cfgFile)
	if err != nil {
		t.Fatalf("LoadEngineConfig failed: %v", err)
	}
	if cfg.APIPort() != 8080 {
		t.Errorf("got default api port %d, want 8080", cfg.APIPort())
	}
	if cfg.TickInterval().Seconds() != 1 {
		t.Errorf("got default tick interval %v, want 1s", cfg.TickInterval())
	}
	if cfg.MaxVisits() != 512 {
		t.Errorf("got default max visits %d, want 512", cfg.MaxVisits())
	}
}

func TestLoadEngineConfigBadVersion(t *testing.T) {
	tmpDir := t.TempDir()
	cfgFile := filepath.Join(tmpDir, "engine.yaml")
	content := `version: 2
world:
  file: world.json
`
	if err := os.WriteFile(cfgFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	if _, err := LoadEngineConfig(cfgFile); err == nil {
		t.Error("expected error for unsupported version")
	}
}

func TestLoadEngineConfigMissingWorldFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfgFile := filepath.Join(tmpDir, "engine.yaml")
	if err := os.WriteFile(cfgFile, []byte("version: 1\n"), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	if _, err := LoadEngineConfig(cfgFile); err == nil {
		t.Error("expected error for missing world.file")
	}
}
