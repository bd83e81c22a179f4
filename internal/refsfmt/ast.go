package refsfmt

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"pyrefs/internal/ast"
)

var nodeType = reflect.TypeFor[ast.Node]()

// DumpAST writes an indented tree of mod: one node per line with its
// location and scalar fields, child nodes nested under their field name.
// A node without an end position shows "?" for it.
func DumpAST(w io.Writer, mod *ast.Module) error {
	d := &dumper{w: w}
	d.node("", reflect.ValueOf(mod), 0)
	return d.err
}

type dumper struct {
	w   io.Writer
	err error
}

func (d *dumper) line(depth int, s string) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, "%s%s\n", strings.Repeat("  ", depth), s)
}

func (d *dumper) node(label string, v reflect.Value, depth int) {
	if v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
		return
	}
	st := v.Elem()
	var sb strings.Builder
	sb.WriteString(label)
	sb.WriteString(st.Type().Name())
	if loc, ok := v.Interface().(ast.Located); ok {
		l := loc.Location()
		end := "?"
		if l.HasEnd {
			end = l.End.String()
		}
		fmt.Fprintf(&sb, " %s-%s", l.Pos, end)
	}

	type child struct {
		name string
		v    reflect.Value
	}
	var children []child
	for i := range st.NumField() {
		f := st.Type().Field(i)
		fv := st.Field(i)
		if f.Anonymous || !f.IsExported() || fv.IsZero() {
			continue
		}
		switch {
		case fv.Type().Implements(nodeType) || fv.Type() == nodeType:
			children = append(children, child{f.Name, fv})
		case fv.Kind() == reflect.Slice && isNodeType(fv.Type().Elem()):
			children = append(children, child{f.Name, fv})
		case fv.Kind() == reflect.String:
			fmt.Fprintf(&sb, " %s=%s", f.Name, strconv.Quote(fv.String()))
		default:
			fmt.Fprintf(&sb, " %s=%v", f.Name, fv.Interface())
		}
	}
	d.line(depth, sb.String())

	for _, c := range children {
		if c.v.Kind() != reflect.Slice {
			d.node(c.name+": ", c.v, depth+1)
			continue
		}
		d.line(depth+1, c.name+":")
		for j := range c.v.Len() {
			d.node("", c.v.Index(j), depth+2)
		}
	}
}

func isNodeType(t reflect.Type) bool {
	return t == nodeType || t.Implements(nodeType)
}
