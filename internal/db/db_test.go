package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/marcus/mbrowse/internal/settings"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := OpenBase(t.TempDir(), "")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	db, err := OpenBase(dir, DriverModernc)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Join(dir, ".mbrowse", "settings.db")); os.IsNotExist(err) {
		t.Error("Database file not created")
	}
	if db.Driver() != DriverModernc {
		t.Errorf("driver: got %q", db.Driver())
	}

	v, err := db.Version()
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v != SchemaVersion() {
		t.Errorf("schema version: got %d, want %d", v, SchemaVersion())
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "x.db"), "postgres"); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	first, err := OpenBase(dir, "")
	if err != nil {
		t.Fatal(err)
	}
	first.Close()

	second, err := OpenBase(dir, "")
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()

	n, err := second.RunMigrations()
	if err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	if n != 0 {
		t.Errorf("reopening should apply no migrations, applied %d", n)
	}
}

func TestPutGetDelete(t *testing.T) {
	db := openTest(t)

	if _, ok, err := db.Get("abc"); err != nil || ok {
		t.Fatalf("empty db: ok=%v err=%v", ok, err)
	}

	if err := db.Put("abc", settings.Record{Count: 1, Cardinality: 3}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	rec, ok, err := db.Get("abc")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if rec != (settings.Record{Count: 1, Cardinality: 3}) {
		t.Errorf("got %+v", rec)
	}

	if err := db.Put("abc", settings.Record{Cardinality: settings.Unbounded}); err != nil {
		t.Fatalf("Put replace: %v", err)
	}
	rec, _, _ = db.Get("abc")
	if rec.Cardinality != settings.Unbounded || rec.Count != 0 {
		t.Errorf("after replace: got %+v", rec)
	}

	deleted, err := db.Delete("abc")
	if err != nil || !deleted {
		t.Errorf("Delete: deleted=%v err=%v", deleted, err)
	}
	deleted, _ = db.Delete("abc")
	if deleted {
		t.Error("second Delete should report nothing removed")
	}
}

func TestListAndRegistry(t *testing.T) {
	db := openTest(t)

	db.Put("b", settings.Record{Cardinality: 2})
	db.Put("a", settings.Record{Count: 1, Cardinality: 1})

	entries, err := db.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 || entries[0].UUID != "a" || entries[1].UUID != "b" {
		t.Fatalf("List order: %+v", entries)
	}
	if entries[0].UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set")
	}

	reg, err := db.Registry()
	if err != nil {
		t.Fatalf("Registry: %v", err)
	}
	if rec, ok := reg.Lookup("b"); !ok || rec.Cardinality != 2 {
		t.Errorf("registry b: %+v, %v", rec, ok)
	}
}

func TestImport(t *testing.T) {
	db := openTest(t)
	db.Put("a", settings.Record{Cardinality: 9})

	reg := settings.NewRegistry(map[string]settings.Record{
		"a": {Cardinality: 2},
		"b": {Count: 3, Cardinality: settings.Unbounded},
	})
	n, err := db.Import(reg)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 2 {
		t.Errorf("imported %d, want 2", n)
	}

	rec, _, _ := db.Get("a")
	if rec.Cardinality != 2 {
		t.Errorf("import should overwrite a, got %+v", rec)
	}
	rec, _, _ = db.Get("b")
	if rec != (settings.Record{Count: 3, Cardinality: settings.Unbounded}) {
		t.Errorf("b: got %+v", rec)
	}
}
