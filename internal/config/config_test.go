package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSetup_Defaults(t *testing.T) {
	cfg, err := Setup("")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Backend != BackendFile {
		t.Errorf("expected backend %s, got %s", BackendFile, cfg.Backend)
	}

	if len(cfg.Inputs) != 0 || cfg.SeedKuhn {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	if err := cfg.Validate(); err != nil {
		t.Error(err)
	}
}

func TestSetup_Env(t *testing.T) {
	t.Setenv("CFRARENA_BACKEND", BackendLevelDB)
	t.Setenv("CFRARENA_DB_PATH", "/tmp/checkpoints")
	t.Setenv("CFRARENA_INPUTS", "a,b")
	t.Setenv("CFRARENA_SEED_KUHN", "true")

	cfg, err := Setup("")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Backend != BackendLevelDB || cfg.DBPath != "/tmp/checkpoints" {
		t.Errorf("unexpected backend config: %+v", cfg)
	}

	if len(cfg.Inputs) != 2 || cfg.Inputs[0] != "a" || cfg.Inputs[1] != "b" {
		t.Errorf("expected inputs [a b], got %v", cfg.Inputs)
	}

	if !cfg.SeedKuhn {
		t.Error("expected SeedKuhn to be set")
	}
}

func TestSetup_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfrarena.yaml")
	doc := "backend: rocksdb\ndb_path: /data/ckpt\noutput: merged\ndot_tree: 1\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Setup(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Backend != BackendRocksDB || cfg.DBPath != "/data/ckpt" || cfg.Output != "merged" || cfg.DotTree != 1 {
		t.Errorf("unexpected config: %+v", cfg)
	}

	if _, err := Setup(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error reading missing config file")
	}
}

func TestValidate(t *testing.T) {
	bad := []Config{
		{Backend: "s3"},
		{Backend: BackendLevelDB},
		{Backend: BackendFile, DotTree: -1},
	}

	for _, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error validating %+v", cfg)
		}
	}
}
