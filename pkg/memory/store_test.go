package memory

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadStoreFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memories.md")

	notes, err := readStoreFile(path)
	if err != nil {
		t.Fatalf("readStoreFile() error = %v, want nil for a missing file", err)
	}
	if len(notes) != 0 {
		t.Errorf("readStoreFile() = %v, want empty", notes)
	}
}

func TestReadStoreFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memories.md")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	notes, err := readStoreFile(path)
	if err != nil {
		t.Fatalf("readStoreFile() error = %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("readStoreFile() = %v, want empty", notes)
	}
}

func TestReadStoreFileParsesBullets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memories.md")
	content := "# Memories\n- Likes dark themes\n\n- Uses tabs\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	notes, err := readStoreFile(path)
	if err != nil {
		t.Fatalf("readStoreFile() error = %v", err)
	}

	want := []string{"Likes dark themes", "Uses tabs"}
	if len(notes) != len(want) || notes[0] != want[0] || notes[1] != want[1] {
		t.Errorf("readStoreFile() = %v, want %v", notes, want)
	}
}

func TestReadStoreFileOversizedKeepsTrailingWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memories.md")

	// Header (11 bytes) plus 1000 fixed-width bullet lines (12 bytes each)
	// totals 12011 bytes, well past the 8 KiB cap. The trailing window
	// starts 4 bytes into line 317, leaving that line as a non-bullet
	// fragment that the bullet-precedence rule drops.
	var b strings.Builder
	b.WriteString("# Memories\n")
	for i := 0; i < 1000; i++ {
		fmt.Fprintf(&b, "- note %04d\n", i)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	notes, err := readStoreFile(path)
	if err != nil {
		t.Fatalf("readStoreFile() error = %v", err)
	}

	if len(notes) != 682 {
		t.Fatalf("len(notes) = %d, want 682", len(notes))
	}
	if notes[0] != "note 0318" {
		t.Errorf("first surviving note = %q, want %q", notes[0], "note 0318")
	}
	if notes[len(notes)-1] != "note 0999" {
		t.Errorf("last note = %q, want %q (newest content must survive)", notes[len(notes)-1], "note 0999")
	}
}

func TestReadStoreFileExactlyAtCap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memories.md")

	line := "- " + strings.Repeat("x", 8*1024-3) + "\n"
	if len(line) != 8*1024 {
		t.Fatalf("test setup: line is %d bytes, want %d", len(line), 8*1024)
	}
	if err := os.WriteFile(path, []byte(line), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	notes, err := readStoreFile(path)
	if err != nil {
		t.Fatalf("readStoreFile() error = %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("len(notes) = %d, want 1 (file at the cap is not truncated)", len(notes))
	}
}

func TestReadStoreFileReplacesInvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memories.md")
	data := append([]byte("- likes caf"), 0xC3, '(', '\n')
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	notes, err := readStoreFile(path)
	if err != nil {
		t.Fatalf("readStoreFile() error = %v, want lossy decode instead", err)
	}
	if len(notes) != 1 {
		t.Fatalf("len(notes) = %d, want 1", len(notes))
	}
	if !strings.Contains(notes[0], "�") {
		t.Errorf("note = %q, want invalid byte replaced with U+FFFD", notes[0])
	}
}

func TestReadStoreFileUnreadablePathErrors(t *testing.T) {
	dir := t.TempDir() // a directory is not a readable store

	_, err := readStoreFile(dir)
	if err == nil {
		t.Fatal("readStoreFile() on a directory should error")
	}
}

func TestStoreIsEmpty(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "missing.md")
	if empty, err := storeIsEmpty(missing); err != nil || !empty {
		t.Errorf("storeIsEmpty(missing) = (%v, %v), want (true, nil)", empty, err)
	}

	zero := filepath.Join(dir, "zero.md")
	if err := os.WriteFile(zero, nil, 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if empty, err := storeIsEmpty(zero); err != nil || !empty {
		t.Errorf("storeIsEmpty(zero-length) = (%v, %v), want (true, nil)", empty, err)
	}

	populated := filepath.Join(dir, "populated.md")
	if err := os.WriteFile(populated, []byte("# Memories\n"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if empty, err := storeIsEmpty(populated); err != nil || empty {
		t.Errorf("storeIsEmpty(populated) = (%v, %v), want (false, nil)", empty, err)
	}
}
