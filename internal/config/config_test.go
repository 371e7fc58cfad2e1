package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Setenv("MBROWSE_CONFIG", "")

	t.Run("existing file", func(t *testing.T) {
		dir := t.TempDir()
		configDir := filepath.Join(dir, ".mbrowse")
		if err := os.MkdirAll(configDir, 0755); err != nil {
			t.Fatalf("setup: mkdir failed: %v", err)
		}

		data := `
[store]
path = "/tmp/custom.db"
driver = "sqlite3"
settings_file = "embedder.yaml"

[ui]
locale = "fr"
columns = 4
`
		if err := os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(data), 0644); err != nil {
			t.Fatalf("setup: write failed: %v", err)
		}

		cfg, err := Load(dir)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		if cfg.Store.Path != "/tmp/custom.db" {
			t.Errorf("Store.Path: got %q", cfg.Store.Path)
		}
		if cfg.Store.Driver != "sqlite3" {
			t.Errorf("Store.Driver: got %q", cfg.Store.Driver)
		}
		if cfg.Store.SettingsFile != "embedder.yaml" {
			t.Errorf("Store.SettingsFile: got %q", cfg.Store.SettingsFile)
		}
		if cfg.UI.Locale != "fr" || cfg.UI.Columns != 4 {
			t.Errorf("UI: got %+v", cfg.UI)
		}
		if cfg.Log.Level != "info" {
			t.Errorf("Log.Level default: got %q", cfg.Log.Level)
		}
	})

	t.Run("non-existent file returns defaults", func(t *testing.T) {
		dir := t.TempDir()

		cfg, err := Load(dir)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Store.Path != filepath.Join(dir, ".mbrowse", "settings.db") {
			t.Errorf("Store.Path: got %q", cfg.Store.Path)
		}
		if cfg.Store.Driver != "sqlite" {
			t.Errorf("Store.Driver: got %q", cfg.Store.Driver)
		}
		if cfg.UI.Locale != "en" || cfg.UI.Columns != 3 {
			t.Errorf("UI defaults: got %+v", cfg.UI)
		}
	})

	t.Run("invalid TOML returns error", func(t *testing.T) {
		dir := t.TempDir()
		configDir := filepath.Join(dir, ".mbrowse")
		if err := os.MkdirAll(configDir, 0755); err != nil {
			t.Fatalf("setup: mkdir failed: %v", err)
		}
		if err := os.WriteFile(filepath.Join(configDir, "config.toml"), []byte("[ui\nlocale ="), 0644); err != nil {
			t.Fatalf("setup: write failed: %v", err)
		}

		if _, err := Load(dir); err == nil {
			t.Fatal("Load should fail for invalid TOML")
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("MBROWSE_UI_LOCALE", "de")
		cfg, err := Load(t.TempDir())
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.UI.Locale != "de" {
			t.Errorf("UI.Locale: got %q, want de", cfg.UI.Locale)
		}
	})
}

func TestSave(t *testing.T) {
	t.Setenv("MBROWSE_CONFIG", "")

	t.Run("round trip", func(t *testing.T) {
		dir := t.TempDir()

		cfg := &Config{
			Store: StoreConfig{Path: "x.db", Driver: "sqlite", SettingsFile: "s.yaml"},
			UI:    UIConfig{Locale: "nl", Columns: 2},
			Log:   LogConfig{Level: "debug", Format: "json"},
		}
		if err := Save(dir, cfg); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		if _, err := os.Stat(filepath.Join(dir, ".mbrowse", "config.toml")); os.IsNotExist(err) {
			t.Fatal("config file not created")
		}

		loaded, err := Load(dir)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if loaded.Store != cfg.Store {
			t.Errorf("Store: got %+v, want %+v", loaded.Store, cfg.Store)
		}
		if loaded.UI != cfg.UI {
			t.Errorf("UI: got %+v, want %+v", loaded.UI, cfg.UI)
		}
		if loaded.Log.Level != "debug" || loaded.Log.Format != "json" {
			t.Errorf("Log: got %+v", loaded.Log)
		}
	})

	t.Run("explicit config path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "elsewhere", "mbrowse.toml")
		t.Setenv("MBROWSE_CONFIG", path)

		if err := Save(t.TempDir(), &Config{UI: UIConfig{Locale: "en", Columns: 5}}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config not written to MBROWSE_CONFIG: %v", err)
		}
	})
}
