package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2025, time.September, 1, 10, 15, 30, 0, time.UTC)
}

func TestGenerateFileName(t *testing.T) {
	fm := NewFileManager(t.TempDir())
	fm.now = fixedClock

	cases := []struct {
		format string
		ext    string
		params map[string]string
		want   string
	}{
		{"{original}_{date}.txt", ".txt", map[string]string{"original": "report"}, "report_20250901.txt"},
		{"report_{timestamp}", ".txt", nil, "report_20250901_101530.txt"},
		{"run_{time}.TXT", ".txt", nil, "run_101530.TXT"},
		{"plain", "", nil, "plain"},
	}

	for _, tc := range cases {
		got := fm.GenerateFileName(tc.format, tc.ext, tc.params)
		if got != tc.want {
			t.Errorf("%q: got %q, want %q", tc.format, got, tc.want)
		}
	}
}

func TestGenerateFileNameUUID(t *testing.T) {
	fm := NewFileManager(t.TempDir())
	got := fm.GenerateFileName("report_{uuid}", ".txt", nil)
	pattern := regexp.MustCompile(`^report_[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.txt$`)
	if !pattern.MatchString(got) {
		t.Errorf("got %q, want a uuid-based name", got)
	}

	if other := fm.GenerateFileName("report_{uuid}", ".txt", nil); other == got {
		t.Errorf("two calls produced the same name %q", got)
	}
}

func TestArchiveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "report.txt")
	if err := os.WriteFile(src, []byte("content"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	fm := NewFileManager(filepath.Join(dir, "archive"))
	fm.now = fixedClock

	archived, err := fm.ArchiveFile(src, "{original}_{timestamp}.txt")
	if err != nil {
		t.Fatalf("ArchiveFile: %v", err)
	}
	want := filepath.Join(dir, "archive", "report_20250901_101530.txt")
	if archived != want {
		t.Errorf("path: got %q, want %q", archived, want)
	}

	data, err := os.ReadFile(archived)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("archive content: got %q", data)
	}
	if !FileExists(src) {
		t.Errorf("source file was removed")
	}
}

func TestArchiveFileTimestampSubdirs(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "report.txt")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	fm := NewFileManager(filepath.Join(dir, "archive"))
	fm.UseTimestampSubdirs = true
	fm.now = fixedClock

	archived, err := fm.ArchiveFile(src, "")
	if err != nil {
		t.Fatalf("ArchiveFile: %v", err)
	}
	want := filepath.Join(dir, "archive", "2025", "09", "01", "report.txt")
	if archived != want {
		t.Errorf("path: got %q, want %q", archived, want)
	}
}

func TestArchiveFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	fm := NewFileManager(filepath.Join(dir, "archive"))

	if _, err := fm.ArchiveFile(filepath.Join(dir, "missing.txt"), ""); err == nil {
		t.Fatal("expected error for missing source")
	}

	if _, err := NewFileManager("").ArchiveFile(filepath.Join(dir, "missing.txt"), ""); err == nil {
		t.Fatal("expected error for empty archive directory")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")

	if err := WriteFileAtomic(path, []byte("first"), 0o644); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("second"), 0o644); err != nil {
		t.Fatalf("second write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("content: got %q, want %q", data, "second")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temporary file left behind: %s", e.Name())
		}
	}
}

func TestWriteFileAtomicMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "report.txt")
	if err := WriteFileAtomic(path, []byte("x"), 0o644); err == nil {
		t.Fatal("expected error for missing directory")
	}
	if FileExists(path) {
		t.Errorf("file should not exist after a failed write")
	}
}
