package driver

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"sync/atomic"

	"github.com/gobwas/glob"
	"golang.org/x/sync/errgroup"

	"pyrefs/internal/ctxlog"
	"pyrefs/internal/source"
	"pyrefs/internal/trace"
)

var (
	DefaultInclude = []string{"**/*.py", "**/*.pyi"}
	DefaultExclude = []string{"**/.venv/**", "**/.git/**", "**/__pycache__/**", "**/node_modules/**"}
)

type ScanOptions struct {
	Include []string
	Exclude []string
	// Jobs bounds parallel files (0 = GOMAXPROCS).
	Jobs int
	// Progress is called from worker goroutines after each file.
	Progress func(ProgressEvent)
}

type ProgressEvent struct {
	Path          string
	Done          int
	Total         int
	Refs          int
	Unrecoverable bool
	Err           error
}

// FileResult содержит результат обработки одного файла
type FileResult struct {
	Path   string // путь относительно корня, через '/'
	Result *Result
	Err    error
}

// Matcher selects files by include and exclude globs over slash paths.
type Matcher struct {
	include []glob.Glob
	exclude []glob.Glob
}

func NewMatcher(include, exclude []string) (*Matcher, error) {
	if len(include) == 0 {
		include = DefaultInclude
	}
	m := &Matcher{}
	for _, p := range include {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, err
		}
		m.include = append(m.include, g)
	}
	for _, p := range exclude {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, err
		}
		m.exclude = append(m.exclude, g)
	}
	return m, nil
}

// Match reports whether rel is included and not excluded. A leading "**/"
// also matches files at the root.
func (m *Matcher) Match(rel string) bool {
	return matchAny(m.include, rel) && !matchAny(m.exclude, rel)
}

func matchAny(globs []glob.Glob, rel string) bool {
	dotted := "./" + rel
	for _, g := range globs {
		if g.Match(rel) || g.Match(dotted) {
			return true
		}
	}
	return false
}

// listFiles возвращает отсортированный список подходящих файлов (пути
// относительно root).
func listFiles(root string, m *Matcher) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			// исключённый каталог не обходим
			if rel != "." && matchAny(m.exclude, rel+"/x.py") {
				return filepath.SkipDir
			}
			return nil
		}
		if m.Match(rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// ScanDir extracts references from every matching file under root in
// parallel. A file that fails to load or extract is reported in its
// FileResult; only cancellation aborts the scan.
func ScanDir(ctx context.Context, root string, opts Options, sopts ScanOptions) ([]FileResult, error) {
	m, err := NewMatcher(sopts.Include, sopts.Exclude)
	if err != nil {
		return nil, err
	}
	files, err := listFiles(root, m)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}
	log := ctxlog.FromContext(ctx)

	// Настраиваем параллелизм
	jobs := sopts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]FileResult, len(files))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, rel := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fctx, span := trace.Start(gctx, trace.ScopeFile, "file")
			span.Attr("path", rel)

			results[i] = FileResult{Path: rel}
			f, err := source.Load(filepath.Join(root, filepath.FromSlash(rel)))
			if err == nil {
				f.Path = rel
				results[i].Result, err = Extract(fctx, f, opts)
			}
			span.End("")
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				log.Warn("file skipped", "path", rel, "err", err)
				results[i].Err = err
			}
			if sopts.Progress != nil {
				ev := ProgressEvent{Path: rel, Done: int(done.Add(1)), Total: len(files), Err: err}
				if r := results[i].Result; r != nil {
					ev.Refs = len(r.Refs)
					ev.Unrecoverable = r.Unrecoverable
				}
				sopts.Progress(ev)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RelPaths lists the files ScanDir would process.
func RelPaths(root string, sopts ScanOptions) ([]string, error) {
	m, err := NewMatcher(sopts.Include, sopts.Exclude)
	if err != nil {
		return nil, err
	}
	return listFiles(root, m)
}
