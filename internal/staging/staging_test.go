package staging

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAllocateUsesSanitizedSuggestedName(t *testing.T) {
	tmpDir := t.TempDir()
	area := NewArea(tmpDir)

	path := area.Allocate("IMG_2041.jpg", 77)
	if path != filepath.Join(tmpDir, "IMG_2041.jpg") {
		t.Fatalf("unexpected path: %s", path)
	}

	path = area.Allocate("vacation: day one?.png", 78)
	if path != filepath.Join(tmpDir, "vacation_ day one_.png") {
		t.Fatalf("unexpected sanitized path: %s", path)
	}
}

func TestAllocateFallsBackToMessageID(t *testing.T) {
	tmpDir := t.TempDir()
	area := NewArea(tmpDir)

	path := area.Allocate("", 4711)
	if path != filepath.Join(tmpDir, "photo_4711.jpg") {
		t.Fatalf("unexpected fallback path: %s", path)
	}
}

func TestAllocateAppendsSuffixOnCollision(t *testing.T) {
	tmpDir := t.TempDir()
	area := NewArea(tmpDir)

	existing := filepath.Join(tmpDir, "photo_9.jpg")
	if err := os.WriteFile(existing, []byte("x"), 0o644); err != nil {
		t.Fatalf("write existing: %v", err)
	}
	next := filepath.Join(tmpDir, "photo_9_1.jpg")
	if err := os.WriteFile(next, []byte("x"), 0o644); err != nil {
		t.Fatalf("write next: %v", err)
	}

	path := area.Allocate("", 9)
	if path != filepath.Join(tmpDir, "photo_9_2.jpg") {
		t.Fatalf("expected second suffix, got %s", path)
	}
}

func TestEnsureCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dir := filepath.Join(tmpDir, "out", "_inbox")
	area := NewArea(dir)

	if err := area.Ensure(); err != nil {
		t.Fatalf("Ensure returned error: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat staging dir: %v", err)
	}
	if !info.IsDir() {
		t.Fatal("expected staging dir to be a directory")
	}

	if err := NewArea("").Ensure(); err == nil {
		t.Fatal("expected error for empty staging dir")
	}
}

func TestListReturnsFilesOldestFirst(t *testing.T) {
	tmpDir := t.TempDir()
	area := NewArea(tmpDir)

	newer := filepath.Join(tmpDir, "b.jpg")
	older := filepath.Join(tmpDir, "a.jpg")
	for _, path := range []string{newer, older} {
		if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "skip-me"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	files, err := area.List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	if files[0].Path != older || files[1].Path != newer {
		t.Fatalf("unexpected order: %s, %s", files[0].Path, files[1].Path)
	}
	if files[0].Size != 4 {
		t.Fatalf("unexpected size: %d", files[0].Size)
	}
}

func TestListMissingDirectoryYieldsEmpty(t *testing.T) {
	area := NewArea(filepath.Join(t.TempDir(), "nope"))
	files, err := area.List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected empty listing, got %d entries", len(files))
	}
}
