package search

import (
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"
)

// maxExtractBytes caps how much of a document is read for indexing.
const maxExtractBytes = 8 << 20 // 8MB

// ExtractText reads a stored document and returns its indexable text.
// Binary content returns an empty string: the upload stays listed but is not
// searchable, mirroring how unsupported formats behaved upstream.
func ExtractText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}
	if len(data) > maxExtractBytes {
		data = data[:maxExtractBytes]
		// Drop a trailing partial rune from the cut.
		for i := 0; i < utf8.UTFMax && len(data) > 0; i++ {
			r, size := utf8.DecodeLastRune(data)
			if r != utf8.RuneError || size != 1 {
				break
			}
			data = data[:len(data)-1]
		}
	}

	if !looksTextual(data) {
		return "", nil
	}

	return string(data), nil
}

// looksTextual reports whether data is plausibly text: valid UTF-8 with no
// NUL bytes.
func looksTextual(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return false
	}
	return utf8.Valid(data)
}
