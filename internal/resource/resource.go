// Package resource reads the chart image the export pipeline maintains at a
// fixed filesystem path. The file is mutated externally at arbitrary times;
// every read validates against the current stat before trusting the cache.
package resource

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"golang.org/x/crypto/blake2b"
)

// ErrNotFound is returned when the image is absent at read time.
var ErrNotFound = errors.New("resource not found")

// Blob is one consistent read of the image file.
type Blob struct {
	Data        []byte
	ContentType string
	ETag        string
	ModTime     time.Time
	Size        int64
}

// Store serves the current contents of a single file, caching blobs keyed by
// (mtime, size) so an unchanged file is not re-read on every request.
type Store struct {
	path  string
	cache *ristretto.Cache[string, *Blob]
}

// NewStore creates a store for the given path. maxBytes bounds the cache;
// zero or negative disables caching.
func NewStore(path string, maxBytes int64) (*Store, error) {
	s := &Store{path: path}

	if maxBytes > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config[string, *Blob]{
			NumCounters: 1e4,
			MaxCost:     maxBytes,
			BufferItems: 64,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create blob cache: %w", err)
		}
		s.cache = cache
	}

	return s, nil
}

// Path returns the fixed path this store reads from.
func (s *Store) Path() string {
	return s.path
}

// Read returns the current file contents. The second return value reports
// whether the blob came from cache. Returns ErrNotFound if the file is
// absent; any other failure is an internal read error.
func (s *Store) Read() (*Blob, bool, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, ErrNotFound
		}
		return nil, false, fmt.Errorf("stat %s: %w", s.path, err)
	}
	if info.IsDir() {
		return nil, false, fmt.Errorf("read %s: is a directory", s.path)
	}

	key := cacheKey(info.ModTime(), info.Size())
	if s.cache != nil {
		if blob, found := s.cache.Get(key); found {
			return blob, true, nil
		}
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			// Removed between stat and read
			return nil, false, ErrNotFound
		}
		return nil, false, fmt.Errorf("read %s: %w", s.path, err)
	}

	blob := &Blob{
		Data:        data,
		ContentType: sniffContentType(data),
		ETag:        contentETag(data),
		ModTime:     info.ModTime(),
		Size:        int64(len(data)),
	}

	if s.cache != nil {
		s.cache.Set(key, blob, blob.Size)
	}

	return blob, false, nil
}

// Close releases the cache.
func (s *Store) Close() {
	if s.cache != nil {
		s.cache.Close()
	}
}

func cacheKey(modTime time.Time, size int64) string {
	return fmt.Sprintf("img:%d:%d", modTime.UnixNano(), size)
}

// contentETag computes a strong ETag from a blake2b hash of the contents.
func contentETag(data []byte) string {
	sum := blake2b.Sum256(data)
	return fmt.Sprintf(`"%x"`, sum[:16])
}

// sniffContentType detects the content type from the leading bytes, falling
// back to image/png when detection yields the generic octet-stream.
func sniffContentType(data []byte) string {
	ct := http.DetectContentType(data)
	if ct == "application/octet-stream" {
		return "image/png"
	}
	return ct
}
