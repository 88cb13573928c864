package migrations

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPendingFilesSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_indexes.sql", "README.md", "0001_init.sql"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "0003_dir.sql"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := PendingFiles(dir)
	if err != nil {
		t.Fatalf("PendingFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2: %v", len(files), files)
	}
	if filepath.Base(files[0]) != "0001_init.sql" || filepath.Base(files[1]) != "0002_indexes.sql" {
		t.Errorf("unexpected order: %v", files)
	}
}

func TestMigrationVersion(t *testing.T) {
	if v := MigrationVersion("/x/migrations/0001_init.sql"); v != "0001" {
		t.Errorf("version = %q", v)
	}
}

func TestPendingFilesMissingDir(t *testing.T) {
	if _, err := PendingFiles(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
