package xref

import (
	"log/slog"
	"strings"

	"pyrefs/internal/ast"
	"pyrefs/internal/consteval"
	"pyrefs/internal/source"
)

type Kind uint8

const (
	KindImport Kind = iota
	KindFrom
	KindDynamic
)

var kindNames = [...]string{"import", "from", "dynamic"}

func (k Kind) String() string { return kindNames[k] }

// Reference is one imported module name and the range it highlights.
type Reference struct {
	Name  string
	Kind  Kind
	Range source.Range
}

type Options struct {
	// Evaluator resolves dynamic import arguments; nil uses the defaults.
	Evaluator *consteval.Evaluator
	Logger    *slog.Logger
}

// Find walks mod, which must have been parsed from buf, and returns its
// references in source order of discovery.
func Find(buf *source.Buffer, mod *ast.Module, opts Options) []Reference {
	w := &walker{buf: buf, ev: opts.Evaluator, log: opts.Logger}
	if w.ev == nil {
		w.ev = consteval.New(consteval.Limits{})
	}
	if w.log == nil {
		w.log = slog.New(slog.DiscardHandler)
	}
	ast.Walk(w, mod)
	// висящая ссылка закрывается последним символом буфера
	w.flush(buf.LastPos(), true)
	return w.refs
}

// pending is a reference whose end is not known yet. At most one is live.
type pending struct {
	names []string
	kind  Kind
	start source.Pos
}

type walker struct {
	buf     *source.Buffer
	ev      *consteval.Evaluator
	log     *slog.Logger
	refs    []Reference
	pending *pending
}

func (w *walker) Visit(node ast.Node) ast.Visitor {
	switch n := node.(type) {
	case nil:
		return nil
	case *ast.Import:
		w.anchor(n)
		names := make([]string, len(n.Names))
		for i, a := range n.Names {
			names[i] = a.Name
		}
		w.record(names, KindImport, &n.Loc)
		return nil
	case *ast.ImportFrom:
		w.anchor(n)
		w.record([]string{strings.Repeat(".", n.Level) + n.Module}, KindFrom, &n.Loc)
		return nil
	case *ast.Call:
		w.anchor(n)
		if name, ok := w.dynamicImport(n); ok {
			w.record([]string{name}, KindDynamic, &n.Loc)
			return nil
		}
		return w
	case ast.Located:
		w.anchor(n)
	}
	return w
}

// anchor offers a located node as the end bound of the pending reference.
func (w *walker) anchor(n ast.Located) {
	pos := n.Location().Pos
	w.flush(source.Pos{Line: pos.Line, Col: pos.Col - 1}, false)
}

// flush closes the pending reference at the last non-blank character at
// or before bound. An anchor that does not lie after the pending start
// (a decorator visited after its function body) leaves it open unless
// final is set.
func (w *walker) flush(bound source.Pos, final bool) {
	p := w.pending
	if p == nil {
		return
	}
	if !final && !p.start.Less(bound) {
		return
	}
	end := w.buf.SnapBack(bound)
	if !p.start.Less(end) {
		end = source.Pos{Line: p.start.Line, Col: p.start.Col + 1}
	}
	for _, name := range p.names {
		w.refs = append(w.refs, Reference{Name: name, Kind: p.kind, Range: source.Range{Start: p.start, End: end}})
	}
	w.pending = nil
}

func (w *walker) record(names []string, kind Kind, loc *ast.Loc) {
	if r, ok := loc.Range(); ok {
		for _, name := range names {
			w.refs = append(w.refs, Reference{Name: name, Kind: kind, Range: r})
		}
		return
	}
	if w.pending != nil {
		// слот один: старая ссылка закрывается началом новой
		w.flush(source.Pos{Line: loc.Pos.Line, Col: loc.Pos.Col - 1}, true)
	}
	w.pending = &pending{names: names, kind: kind, start: loc.Pos}
}

var importFuncs = map[string]bool{"__import__": true, "import_module": true}

// dynamicImport reports the module a call imports when it is a dynamic
// import whose argument evaluates to a string.
func (w *walker) dynamicImport(call *ast.Call) (string, bool) {
	switch fn := call.Func.(type) {
	case *ast.Name:
		if !importFuncs[fn.ID] {
			return "", false
		}
	case *ast.Attribute:
		recv, ok := fn.Value.(*ast.Name)
		if !ok || recv.ID != "importlib" || !importFuncs[fn.Attr] {
			return "", false
		}
	default:
		return "", false
	}
	var arg ast.Expr
	for _, kw := range call.Keywords {
		if kw.Name == "name" {
			arg = kw.Value
		}
	}
	if arg == nil && len(call.Args) > 0 {
		arg = call.Args[0]
	}
	if arg == nil {
		w.log.Debug("dynamic import without module argument", "pos", call.Pos)
		return "", false
	}
	v, err := w.ev.Eval(arg)
	if err != nil {
		w.log.Debug("dynamic import argument not constant", "pos", call.Pos, "err", err)
		return "", false
	}
	if v.Kind != consteval.KindStr {
		w.log.Debug("dynamic import argument is not a string", "pos", call.Pos, "type", v.TypeName())
		return "", false
	}
	return v.Str, true
}
