package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/marcus/mbrowse/internal/output"
	"github.com/marcus/mbrowse/internal/settings"
)

func TestSettingsCommands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MBROWSE_CONFIG", filepath.Join(dir, "config.toml"))
	t.Setenv("MBROWSE_STORE_PATH", filepath.Join(dir, "settings.db"))

	var msgs bytes.Buffer
	prevOut, prevErr := output.Stdout, output.Stderr
	output.Stdout, output.Stderr = &msgs, &msgs
	defer func() { output.Stdout, output.Stderr = prevOut, prevErr }()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	}()

	run := func(args ...string) string {
		t.Helper()
		out.Reset()
		rootCmd.SetArgs(args)
		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out.String()
	}

	run("settings", "set", "abc", "--count", "1", "--cardinality", "unlimited")
	if !strings.Contains(msgs.String(), "SET abc count=1 cardinality=unlimited") {
		t.Errorf("set message: %q", msgs.String())
	}

	var rec settings.Record
	if err := json.Unmarshal([]byte(run("settings", "get", "abc", "--json")), &rec); err != nil {
		t.Fatal(err)
	}
	if rec != (settings.Record{Count: 1, Cardinality: settings.Unbounded}) {
		t.Errorf("get: %+v", rec)
	}

	listed := run("settings", "list")
	if !strings.Contains(listed, "abc") || !strings.Contains(listed, "unlimited") {
		t.Errorf("list:\n%s", listed)
	}

	exported := filepath.Join(dir, "out", "settings.yaml")
	run("settings", "export", exported)
	reg, err := settings.LoadFile(exported)
	if err != nil {
		t.Fatal(err)
	}
	if got, ok := reg.Lookup("abc"); !ok || got != rec {
		t.Errorf("exported record: %+v, %v", got, ok)
	}

	run("settings", "delete", "abc")
	if got := run("settings", "list"); !strings.Contains(got, "No records stored.") {
		t.Errorf("list after delete:\n%s", got)
	}

	importFile := filepath.Join(dir, "import.yaml")
	data := "entity_browser:\n  one:\n    count: 0\n    cardinality: 3\n  two:\n    count: 2\n    cardinality: unlimited\n"
	if err := os.WriteFile(importFile, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	run("settings", "import", importFile)
	if !strings.Contains(msgs.String(), "IMPORTED 2 records") {
		t.Errorf("import message: %q", msgs.String())
	}
	var two settings.Record
	if err := json.Unmarshal([]byte(run("settings", "get", "two", "--json")), &two); err != nil {
		t.Fatal(err)
	}
	if two != (settings.Record{Count: 2, Cardinality: settings.Unbounded}) {
		t.Errorf("get two: %+v", two)
	}
}
