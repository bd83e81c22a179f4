// Package config loads pyrefs.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up from the working directory.
const FileName = "pyrefs.toml"

type Config struct {
	// Path is the file the configuration came from, "" for defaults.
	Path     string
	Python   Python
	Builtins Builtins
	Mappings map[string][]string
	Cache    Cache
	Scan     Scan
}

type Python struct {
	Interpreter  string   `toml:"interpreter"`
	SitePackages []string `toml:"site_packages"`
}

type Builtins struct {
	Extra []string `toml:"extra"`
}

type Cache struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
	LRUSize int    `toml:"lru_size"`
}

type Scan struct {
	Jobs    int      `toml:"jobs"`
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
}

type file struct {
	Python   Python              `toml:"python"`
	Builtins Builtins            `toml:"builtins"`
	Mappings map[string][]string `toml:"mappings"`
	Cache    Cache               `toml:"cache"`
	Scan     Scan                `toml:"scan"`
}

// Default returns the configuration used without a pyrefs.toml.
func Default() Config {
	return Config{
		Python:   Python{Interpreter: "python3"},
		Mappings: map[string][]string{},
		Cache:    Cache{Enabled: true, LRUSize: 1024},
		Scan: Scan{
			Include: []string{"**/*.py", "**/*.pyi"},
			Exclude: []string{"**/.venv/**", "**/.git/**", "**/__pycache__/**", "**/node_modules/**"},
		},
	}
}

// FindConfig walks up from startDir to locate pyrefs.toml.
func FindConfig(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest pyrefs.toml above startDir, or the defaults.
func Discover(startDir string) (Config, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load parses path over the defaults. Keys left out keep their default
// values; unknown keys are an error.
func Load(path string) (Config, error) {
	def := Default()
	cfg := file{Python: def.Python, Cache: def.Cache, Scan: def.Scan}
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	base := filepath.Dir(path)
	out := Config{
		Path:     path,
		Python:   cfg.Python,
		Builtins: cfg.Builtins,
		Mappings: cfg.Mappings,
		Cache:    cfg.Cache,
		Scan:     cfg.Scan,
	}
	if out.Mappings == nil {
		out.Mappings = map[string][]string{}
	}
	if meta.IsDefined("python", "interpreter") && strings.TrimSpace(out.Python.Interpreter) == "" {
		return Config{}, fmt.Errorf("%s: [python].interpreter is empty", path)
	}
	for i, dir := range out.Python.SitePackages {
		out.Python.SitePackages[i] = relativeTo(base, dir)
	}
	if out.Cache.Dir != "" {
		out.Cache.Dir = relativeTo(base, out.Cache.Dir)
	}
	if out.Cache.LRUSize < 0 {
		return Config{}, fmt.Errorf("%s: [cache].lru_size must not be negative", path)
	}
	if out.Scan.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [scan].jobs must not be negative", path)
	}
	for module, providers := range out.Mappings {
		if strings.TrimSpace(module) == "" {
			return Config{}, fmt.Errorf("%s: [mappings] has an empty module name", path)
		}
		if len(providers) == 0 {
			return Config{}, fmt.Errorf("%s: [mappings].%s lists no providers", path, module)
		}
		for _, p := range providers {
			if strings.TrimSpace(p) == "" {
				return Config{}, fmt.Errorf("%s: [mappings].%s has an empty provider", path, module)
			}
		}
	}
	return out, nil
}

func relativeTo(base, p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
