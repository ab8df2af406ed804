// Package fs provides file-based storage: an on-disk cache of document
// source and an atomic Markdown export directory.
package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/prettyrfc"
	"golang.org/x/sync/singleflight"
)

// Ensure Cache implements prettyrfc.Fetcher at compile time.
var _ prettyrfc.Fetcher = (*Cache)(nil)

// Cache is a prettyrfc.Fetcher that keeps one file per document in dir.
// A cached file is final: RFCs do not change once published, so a hit is
// never revalidated. Files are written to a temporary name and renamed
// into place, so readers never observe partial content. Concurrent misses
// for the same document share a single upstream fetch.
type Cache struct {
	dir   string
	next  prettyrfc.Fetcher
	group singleflight.Group
}

// NewCache creates a Cache in dir that fetches misses from next.
func NewCache(dir string, next prettyrfc.Fetcher) *Cache {
	return &Cache{dir: dir, next: next}
}

// Path returns the cache file path for id.
func (c *Cache) Path(id prettyrfc.DocumentID) string {
	return filepath.Join(c.dir, string(id))
}

// Fetch returns cached source for id, fetching and storing it on a miss.
// Upstream errors are returned unchanged and nothing is cached. A caller
// whose ctx ends stops waiting with ctx.Err(); the shared upstream fetch
// runs detached from any single caller, bounded by the next Fetcher's
// own timeout, so other callers for the same id still get the result.
func (c *Cache) Fetch(ctx context.Context, id prettyrfc.DocumentID) (string, error) {
	if source, ok, err := c.read(id); err != nil || ok {
		return source, err
	}

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(string(id), func() (any, error) {
		// Another caller may have finished the file while we waited.
		if source, ok, err := c.read(id); err != nil || ok {
			return source, err
		}

		source, err := c.next.Fetch(detached, id)
		if err != nil {
			return "", err
		}
		if err := c.write(id, source); err != nil {
			return "", fmt.Errorf("cache %s: %w", id, err)
		}
		return source, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		source, _ := res.Val.(string)
		return source, nil
	}
}

func (c *Cache) read(id prettyrfc.DocumentID) (string, bool, error) {
	data, err := os.ReadFile(c.Path(id))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read cache %s: %w", id, err)
	}
	return string(data), true, nil
}

// write stores source atomically: temp file in the same directory, fsync,
// then rename over the final path.
func (c *Cache) write(id prettyrfc.DocumentID, source string) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(c.dir, "."+string(id)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(source); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, c.Path(id)); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
