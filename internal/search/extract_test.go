package search

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

func TestExtractText_Plain(t *testing.T) {
	path := writeTemp(t, "doc.txt", []byte("line one\nline two\n"))

	text, err := ExtractText(path)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !strings.Contains(text, "line two") {
		t.Errorf("expected file content, got %q", text)
	}
}

func TestExtractText_Binary(t *testing.T) {
	path := writeTemp(t, "blob.bin", []byte{0x00, 0x01, 0xFF, 0xFE, 'a', 'b'})

	text, err := ExtractText(path)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if text != "" {
		t.Errorf("expected empty text for binary content, got %q", text)
	}
}

func TestExtractText_Empty(t *testing.T) {
	path := writeTemp(t, "empty.txt", nil)

	text, err := ExtractText(path)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if text != "" {
		t.Errorf("expected empty text, got %q", text)
	}
}

func TestExtractText_Missing(t *testing.T) {
	if _, err := ExtractText(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
