package resolve

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"pyrefs/internal/ctxlog"
	"pyrefs/internal/trace"
)

// Resolution is what one module name expands to.
type Resolution struct {
	IsBuiltin bool
	// Providers is never empty: without a match it is the module itself.
	Providers []string
}

// Resolver expands module names. Implementations are safe for concurrent use.
type Resolver interface {
	Resolve(ctx context.Context, module string) (Resolution, error)
	// Fingerprint identifies the data resolutions depend on, so cached
	// results from another environment are not reused.
	Fingerprint(ctx context.Context) string
}

type Options struct {
	Interpreter string
	// SitePackages replaces interpreter discovery when non-empty.
	SitePackages []string
	Builtins     *BuiltinSet
	// Mappings are explicit module -> providers entries checked first.
	Mappings  map[string][]string
	CacheSize int
}

const DefaultCacheSize = 1024

// Installed resolves against the distributions installed for a Python
// environment. The index is built lazily on first use.
type Installed struct {
	opts  Options
	cache *lru.Cache[string, Resolution]

	once     sync.Once
	index    *Index
	indexErr error
}

func NewInstalled(opts Options) (*Installed, error) {
	if opts.Builtins == nil {
		opts.Builtins = DefaultBuiltins()
	}
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, Resolution](size)
	if err != nil {
		return nil, err
	}
	return &Installed{opts: opts, cache: cache}, nil
}

func (r *Installed) Resolve(ctx context.Context, module string) (Resolution, error) {
	if err := ctx.Err(); err != nil {
		return Resolution{}, err
	}
	if res, ok := r.cache.Get(module); ok {
		res.Providers = slices.Clone(res.Providers)
		return res, nil
	}
	res := Resolution{IsBuiltin: r.opts.Builtins.Contains(module)}
	tiers := []func(context.Context, string) ([]string, bool){
		r.fromMappings,
		r.fromIndex,
	}
	res.Providers = []string{module}
	for _, tier := range tiers {
		if p, ok := tier(ctx, module); ok {
			res.Providers = p
			break
		}
	}
	r.cache.Add(module, res)
	res.Providers = slices.Clone(res.Providers)
	return res, nil
}

func (r *Installed) fromMappings(_ context.Context, module string) ([]string, bool) {
	return lookupMapping(r.opts.Mappings, module)
}

func (r *Installed) fromIndex(ctx context.Context, module string) ([]string, bool) {
	if strings.HasPrefix(module, ".") {
		return nil, false
	}
	x, err := r.Index(ctx)
	if err != nil {
		ctxlog.FromContext(ctx).Debug("distribution index unavailable", "err", err)
		return nil, false
	}
	p, ok := x.Providers(module)
	return slices.Clone(p), ok
}

// Index returns the distribution index, building it on the first call.
// A failed build is not retried.
func (r *Installed) Index(ctx context.Context) (*Index, error) {
	r.once.Do(func() {
		ctx, span := trace.Start(ctx, trace.ScopePhase, "index")
		dirs := r.opts.SitePackages
		if len(dirs) == 0 {
			dirs, r.indexErr = SysPath(ctx, r.opts.Interpreter)
			if r.indexErr != nil {
				span.End("no interpreter")
				return
			}
		}
		r.index, r.indexErr = BuildIndex(ctx, dirs)
		if r.indexErr != nil {
			span.End(r.indexErr.Error())
			return
		}
		span.Attr("dists", strconv.Itoa(len(r.index.dists))).End("")
		ctxlog.FromContext(ctx).Debug("distribution index built", "dirs", len(dirs), "dists", len(r.index.dists))
	})
	return r.index, r.indexErr
}

func (r *Installed) Fingerprint(ctx context.Context) string {
	h := sha256.New()
	writeMappings(h, r.opts.Mappings)
	for _, name := range slices.Sorted(maps.Keys(r.opts.Builtins.names)) {
		h.Write([]byte("b:" + name + "\n"))
	}
	if x, err := r.Index(ctx); err == nil {
		for _, d := range x.dists {
			h.Write([]byte("d:" + d.Name + "@" + d.Version + ":" + strings.Join(d.Modules, ",") + "\n"))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Static resolves from fixed data only: builtins plus explicit mappings.
// It serves --offline runs and tests.
type Static struct {
	Builtins *BuiltinSet
	Mappings map[string][]string
}

func (s *Static) Resolve(ctx context.Context, module string) (Resolution, error) {
	if err := ctx.Err(); err != nil {
		return Resolution{}, err
	}
	res := Resolution{IsBuiltin: s.Builtins.Contains(module), Providers: []string{module}}
	if p, ok := lookupMapping(s.Mappings, module); ok {
		res.Providers = p
	}
	return res, nil
}

func (s *Static) Fingerprint(context.Context) string {
	h := sha256.New()
	h.Write([]byte("static\n"))
	writeMappings(h, s.Mappings)
	if s.Builtins != nil {
		for _, name := range slices.Sorted(maps.Keys(s.Builtins.names)) {
			h.Write([]byte("b:" + name + "\n"))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// lookupMapping tries the full dotted name, then its top-level package.
func lookupMapping(m map[string][]string, module string) ([]string, bool) {
	if p, ok := m[module]; ok && len(p) > 0 {
		return slices.Clone(p), true
	}
	if top := TopLevel(module); top != module && top != "" {
		if p, ok := m[top]; ok && len(p) > 0 {
			return slices.Clone(p), true
		}
	}
	return nil, false
}

func writeMappings(h io.Writer, m map[string][]string) {
	for _, k := range slices.Sorted(maps.Keys(m)) {
		h.Write([]byte("m:" + k + "=" + strings.Join(m[k], ",") + "\n"))
	}
}
