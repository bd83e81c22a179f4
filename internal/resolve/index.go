package resolve

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"pyrefs/internal/ctxlog"
)

// Index maps top-level importable names to the distributions installing
// them, in the order the site directories were scanned.
type Index struct {
	byModule map[string][]string
	dists    []Dist
}

// Dist is one installed distribution found in a site directory.
type Dist struct {
	Name    string
	Version string
	Dir     string   // the .dist-info or .egg-info directory
	Modules []string // top-level names it provides
}

// Providers returns the distributions providing module's top-level package.
func (x *Index) Providers(module string) ([]string, bool) {
	if x == nil {
		return nil, false
	}
	p, ok := x.byModule[TopLevel(module)]
	return p, ok
}

func (x *Index) Dists() []Dist { return x.dists }

// BuildIndex scans dirs for *.dist-info and *.egg-info metadata. Missing
// directories are skipped; an unreadable distribution is logged and skipped.
func BuildIndex(ctx context.Context, dirs []string) (*Index, error) {
	log := ctxlog.FromContext(ctx)
	x := &Index{byModule: make(map[string][]string)}
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
				log.Debug("site directory skipped", "dir", dir, "err", err)
				continue
			}
			return nil, fmt.Errorf("read site directory %s: %w", dir, err)
		}
		for _, e := range entries {
			name := e.Name()
			if !e.IsDir() || !(strings.HasSuffix(name, ".dist-info") || strings.HasSuffix(name, ".egg-info")) {
				continue
			}
			d, err := readDist(filepath.Join(dir, name))
			if err != nil {
				log.Debug("distribution metadata skipped", "dir", name, "err", err)
				continue
			}
			x.add(d)
		}
	}
	return x, nil
}

func (x *Index) add(d Dist) {
	x.dists = append(x.dists, d)
	for _, m := range d.Modules {
		if !slices.Contains(x.byModule[m], d.Name) {
			x.byModule[m] = append(x.byModule[m], d.Name)
		}
	}
}

func readDist(dir string) (Dist, error) {
	d := Dist{Dir: dir}
	meta := "METADATA"
	if strings.HasSuffix(dir, ".egg-info") {
		meta = "PKG-INFO"
	}
	f, err := os.Open(filepath.Join(dir, meta))
	if err != nil {
		return d, err
	}
	d.Name, d.Version, err = readHeaders(f)
	f.Close()
	if err != nil {
		return d, err
	}
	if d.Name == "" {
		return d, fmt.Errorf("%s: no Name header", meta)
	}

	// top_level.txt первичен, RECORD только если его нет
	if data, err := os.ReadFile(filepath.Join(dir, "top_level.txt")); err == nil {
		for line := range strings.Lines(string(data)) {
			if m := strings.TrimSpace(line); m != "" {
				d.Modules = appendUnique(d.Modules, TopLevel(strings.ReplaceAll(m, "/", ".")))
			}
		}
		return d, nil
	}
	if f, err := os.Open(filepath.Join(dir, "RECORD")); err == nil {
		files, err := readRecord(f)
		f.Close()
		if err != nil {
			return d, err
		}
		for _, p := range files {
			if m, ok := inferTopLevel(p); ok {
				d.Modules = appendUnique(d.Modules, m)
			}
		}
	}
	sort.Strings(d.Modules)
	return d, nil
}

// readHeaders reads Name and Version from an RFC 822 style metadata file.
// Parsing stops at the first blank line where the description body starts.
func readHeaders(r io.Reader) (name, version string, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			break
		}
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "name":
			if name == "" {
				name = strings.TrimSpace(v)
			}
		case "version":
			if version == "" {
				version = strings.TrimSpace(v)
			}
		}
	}
	return name, version, sc.Err()
}

// readRecord returns the file paths listed in a RECORD file (CSV: path,
// hash, size).
func readRecord(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	var out []string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("RECORD: %w", err)
		}
		if len(rec) > 0 && rec[0] != "" {
			out = append(out, rec[0])
		}
	}
}

var moduleSuffixes = []string{".py", ".pyc", ".pyi", ".so", ".pyd"}

// inferTopLevel derives the importable top-level name of a RECORD path:
// the first directory of a nested path, or the module name of a file at the
// root. Names containing dots (metadata dirs, "..") are not importable.
func inferTopLevel(p string) (string, bool) {
	p = path.Clean(filepath.ToSlash(p))
	var name string
	if first, _, nested := strings.Cut(p, "/"); nested {
		name = first
	} else {
		name = moduleName(p)
	}
	if name == "" || strings.Contains(name, ".") || name == "__pycache__" {
		return "", false
	}
	return name, true
}

func moduleName(file string) string {
	for _, suf := range moduleSuffixes {
		if base, ok := strings.CutSuffix(file, suf); ok {
			// расширения вида foo.cpython-312-x86_64-linux-gnu.so
			if suf == ".so" || suf == ".pyd" {
				base, _, _ = strings.Cut(base, ".")
			}
			return base
		}
	}
	return ""
}

func appendUnique(list []string, s string) []string {
	if slices.Contains(list, s) {
		return list
	}
	return append(list, s)
}
