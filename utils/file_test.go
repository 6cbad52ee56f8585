package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestListFilingFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"10q.pdf", "10k.HTML", "notes.txt", "annual.htm", ".DS_Store"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "archive.pdf"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := ListFilingFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "10k.HTML"),
		filepath.Join(dir, "10q.pdf"),
		filepath.Join(dir, "annual.htm"),
	}
	if len(files) != len(want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %s, want %s", i, files[i], want[i])
		}
	}
}

func TestListFilingFilesMissingDir(t *testing.T) {
	if _, err := ListFilingFiles(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestFileStem(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/data/raw/amzn/10q-q3-2025.pdf", "10q-q3-2025"},
		{"report.final.html", "report.final"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := FileStem(tt.in); got != tt.want {
			t.Errorf("FileStem(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
