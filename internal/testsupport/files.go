package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

var jpegMagic = []byte{0xFF, 0xD8, 0xFF, 0xE0}

// FakeJPEG returns size bytes that start with a JPEG SOI marker. A size
// smaller than the marker still returns the full marker.
func FakeJPEG(size int) []byte {
	if size < len(jpegMagic) {
		size = len(jpegMagic)
	}
	buf := bytes.Repeat([]byte{0x42}, size)
	copy(buf, jpegMagic)
	return buf
}

// WriteImage writes a fake JPEG of the requested size to path, creating
// parent directories. The written bytes are returned for comparison.
func WriteImage(t testing.TB, path string, size int) []byte {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	data := FakeJPEG(size)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return data
}
