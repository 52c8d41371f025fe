package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stagespawn.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverDefaults(t *testing.T) {
	path := writeConfig(t, `
[director]
seed = 42
difficulty_coefficient = 2.5
stages = ["golemplains"]
unlocks = ["lunar"]

[database]
enabled = true
conn_max_lifetime = "10m"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Director.Seed != 42 || cfg.Director.DifficultyCoefficient != 2.5 {
		t.Errorf("director = %+v", cfg.Director)
	}
	if cfg.Director.Cycles != 1 {
		t.Errorf("cycles default lost: %d", cfg.Director.Cycles)
	}
	if len(cfg.Director.Stages) != 1 || cfg.Director.Unlocks[0] != "lunar" {
		t.Errorf("lists = %v %v", cfg.Director.Stages, cfg.Director.Unlocks)
	}
	if !cfg.Database.Enabled || cfg.Database.ConnMaxLifetime != 10*time.Minute {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Data.StageList != "data/yaml/stage_list.yaml" || cfg.Logging.Format != "console" {
		t.Errorf("defaults not applied: %+v %+v", cfg.Data, cfg.Logging)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[director]
cycles = 2
`)
	t.Setenv("STAGESPAWN_CYCLES", "5")
	t.Setenv("STAGESPAWN_STAGES", "blackbeach,golemplains")
	t.Setenv("STAGESPAWN_LOG_FORMAT", "json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Director.Cycles != 5 {
		t.Errorf("cycles = %d, want 5", cfg.Director.Cycles)
	}
	if len(cfg.Director.Stages) != 2 || cfg.Director.Stages[0] != "blackbeach" {
		t.Errorf("stages = %v", cfg.Director.Stages)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("format = %s", cfg.Logging.Format)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	for _, body := range []string{
		"[director]\ndifficulty_coefficient = -1\n",
		"[director]\ncycles = 0\n",
		"[data]\nstage_list = \"\"\n",
		"not toml at all = = =",
	} {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Errorf("expected error for %q", body)
		}
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}
