package resource

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var pngBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 1, 2, 3, 4}

func newTestStore(t *testing.T, data []byte, maxBytes int64) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chart.png")
	if data != nil {
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}
	store, err := NewStore(path, maxBytes)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(store.Close)
	return store, path
}

func TestStore_ReadAbsent(t *testing.T) {
	store, _ := newTestStore(t, nil, 0)

	_, _, err := store.Read()
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ReadPresent(t *testing.T) {
	store, _ := newTestStore(t, pngBytes, 0)

	blob, cacheHit, err := store.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if cacheHit {
		t.Error("first read should not be a cache hit")
	}
	if !bytes.Equal(blob.Data, pngBytes) {
		t.Errorf("expected exact file bytes, got %d bytes", len(blob.Data))
	}
	if blob.ContentType != "image/png" {
		t.Errorf("expected image/png, got %q", blob.ContentType)
	}
	if blob.ETag == "" || blob.ETag[0] != '"' {
		t.Errorf("expected quoted strong etag, got %q", blob.ETag)
	}
	if blob.Size != int64(len(pngBytes)) {
		t.Errorf("expected size %d, got %d", len(pngBytes), blob.Size)
	}
}

func TestStore_ReadIdempotent(t *testing.T) {
	store, _ := newTestStore(t, pngBytes, 0)

	first, _, err := store.Read()
	if err != nil {
		t.Fatalf("first Read: %v", err)
	}
	second, _, err := store.Read()
	if err != nil {
		t.Fatalf("second Read: %v", err)
	}

	if !bytes.Equal(first.Data, second.Data) {
		t.Error("consecutive reads of unchanged file differ")
	}
	if first.ETag != second.ETag {
		t.Errorf("etag changed on unchanged file: %q vs %q", first.ETag, second.ETag)
	}
}

func TestStore_ReadAfterReplace(t *testing.T) {
	store, path := newTestStore(t, pngBytes, 64<<20)

	first, _, err := store.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	// Replace contents and force a distinct mtime so the cache key changes
	// even on coarse-grained filesystems.
	replaced := []byte{0x89, 0x50, 0x4E, 0x47, 7, 7, 7, 7, 7}
	if err := os.WriteFile(path, replaced, 0644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	newTime := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, newTime, newTime); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	second, _, err := store.Read()
	if err != nil {
		t.Fatalf("Read after replace: %v", err)
	}
	if !bytes.Equal(second.Data, replaced) {
		t.Error("stale bytes served after file replacement")
	}
	if first.ETag == second.ETag {
		t.Error("etag unchanged after content change")
	}
}

func TestStore_ReadDirectory(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, 0)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	_, _, err = store.Read()
	if err == nil {
		t.Fatal("expected error reading a directory")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("directory read must be an internal error, not not-found")
	}
}

func TestStore_RemovedFile(t *testing.T) {
	store, path := newTestStore(t, pngBytes, 0)

	if _, _, err := store.Read(); err != nil {
		t.Fatalf("Read: %v", err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	_, _, err := store.Read()
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after removal, got %v", err)
	}
}

func TestSniffContentType(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"png header", pngBytes, "image/png"},
		{"jpeg header", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0}, "image/jpeg"},
		{"opaque bytes fall back to png", []byte{0x01, 0x02, 0x03, 0x04}, "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sniffContentType(tt.data); got != tt.want {
				t.Errorf("sniffContentType = %q, want %q", got, tt.want)
			}
		})
	}
}
