package driver

import (
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
)

// cacheSchema names the entry layout. Bumping it moves entries to a new
// directory, so stale ones are never decoded.
const cacheSchema = 1

// DiskCache хранит результаты извлечения по CacheKey на диске, один файл
// на ключ. Entries are replaced by atomic rename, so concurrent workers need
// no lock; the same key always maps to the same payload.
type DiskCache struct {
	dir string
}

// DiskPayload is what a cache entry holds: everything in a Result except
// the path and timings.
type DiskPayload struct {
	Refs          []Record `msgpack:"refs"`
	Attempts      int      `msgpack:"attempts"`
	Repaired      []int    `msgpack:"repaired,omitempty"`
	Unrecoverable bool     `msgpack:"unrecoverable,omitempty"`
}

// OpenDiskCache opens the cache in dir, or in $XDG_CACHE_HOME/app (falling
// back to ~/.cache/app) when dir is empty.
func OpenDiskCache(app, dir string) (*DiskCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, app)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Dir() string { return c.dir }

// root holds every entry; nothing else under Dir is touched.
func (c *DiskCache) root() string {
	return filepath.Join(c.dir, "refs")
}

func (c *DiskCache) pathFor(key CacheKey) string {
	name := hex.EncodeToString(key[:])
	// два символа на подкаталог, чтобы не копить тысячи файлов в одном
	return filepath.Join(c.root(), "v"+strconv.Itoa(cacheSchema), name[:2], name+".mp")
}

func (c *DiskCache) Put(key CacheKey, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return err
	}
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return err
	}
	if err := os.Rename(f.Name(), p); err != nil {
		_ = os.Remove(f.Name())
		return err
	}
	return nil
}

// Get reads the entry for key. A missing entry is (false, nil); an entry
// that does not decode is removed and reported as an error.
func (c *DiskCache) Get(key CacheKey, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	p := c.pathFor(key)
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		_ = os.Remove(p)
		return false, err
	}
	if out.Refs == nil {
		out.Refs = []Record{}
	}
	return true, nil
}

// DropAll removes every entry of every schema and reports how many there
// were.
func (c *DiskCache) DropAll() (int, error) {
	if c == nil {
		return 0, nil
	}
	n := 0
	err := filepath.WalkDir(c.root(), func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(d.Name()) == ".mp" {
			n++
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return n, os.RemoveAll(c.root())
}

func newPayload(res *Result) *DiskPayload {
	return &DiskPayload{
		Refs:          res.Refs,
		Attempts:      res.Attempts,
		Repaired:      res.Repaired,
		Unrecoverable: res.Unrecoverable,
	}
}

func (p *DiskPayload) apply(res *Result) {
	res.Refs = p.Refs
	res.Attempts = p.Attempts
	res.Repaired = p.Repaired
	res.Unrecoverable = p.Unrecoverable
	res.Cached = true
}
