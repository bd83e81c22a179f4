package refsfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"pyrefs/internal/driver"
	"pyrefs/internal/source"
)

type palette struct {
	loc, name, builtin, mark *color.Color
}

func newPalette(on bool) palette {
	p := palette{
		loc:     color.New(color.Faint),
		name:    color.New(color.FgCyan, color.Bold),
		builtin: color.New(color.FgGreen),
		mark:    color.New(color.FgYellow, color.Bold),
	}
	for _, c := range []*color.Color{p.loc, p.name, p.builtin, p.mark} {
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty пишет записи в человекочитаемом виде:
// <path>:<line>:<col>-<line>:<col> <name> [builtin]
// и, если задано, строку исходника с подчёркиванием ^~~~ по диапазону.
// Lines and columns are printed 1-based.
func Pretty(w io.Writer, path string, buf *source.Buffer, refs []driver.Record, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	for _, r := range refs {
		loc := fmt.Sprintf("%s:%d:%d-%d:%d", path, r.Range.Start.Line+1, r.Range.Start.Col+1, r.Range.End.Line+1, r.Range.End.Col+1)
		line := p.loc.Sprint(loc) + " " + p.name.Sprint(r.Name)
		if r.IsBuiltin {
			line += " " + p.builtin.Sprint("[builtin]")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if opts.ShowSource && buf != nil {
			text, marker := excerpt(buf, r.Range, opts.Width)
			if _, err := fmt.Fprintf(w, "    %s\n    %s\n", text, p.mark.Sprint(marker)); err != nil {
				return err
			}
		}
	}
	return nil
}

// excerpt returns the start line of r and a marker under the covered
// columns, both measured in terminal cells and cut to width.
func excerpt(buf *source.Buffer, r source.Range, width int) (string, string) {
	runes := []rune(strings.ReplaceAll(buf.Line(r.Start.Line), "\t", " "))
	from := min(r.Start.Col, len(runes))
	to := len(runes)
	if r.End.Line == r.Start.Line {
		to = min(max(r.End.Col, from+1), len(runes))
	}
	text := string(runes)
	pad := runewidth.StringWidth(string(runes[:from]))
	span := max(runewidth.StringWidth(string(runes[from:to])), 1)
	if width > 0 {
		text = truncate(text, width)
		pad = min(pad, width)
		span = max(min(span, width-pad), 1)
	}
	return text, strings.Repeat(" ", pad) + "^" + strings.Repeat("~", span-1)
}

func truncate(value string, width int) string {
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}

// Summary печатает одну строку итога для каталога.
func Summary(w io.Writer, files []FileRefs, useColor bool) error {
	p := newPalette(useColor)
	var refs, broken, failed int
	for _, f := range files {
		refs += len(f.Refs)
		if f.Unrecoverable {
			broken++
		}
		if f.Error != "" {
			failed++
		}
	}
	_, err := fmt.Fprintf(w, "%s files, %s references, %d unrecoverable, %d failed\n",
		p.name.Sprint(len(files)), p.name.Sprint(refs), broken, failed)
	return err
}

// PrettyFiles prints every file of a scan without source excerpts.
func PrettyFiles(w io.Writer, files []FileRefs, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	for _, f := range files {
		switch {
		case f.Error != "":
			if _, err := fmt.Fprintf(w, "%s: %s\n", p.loc.Sprint(f.Path), f.Error); err != nil {
				return err
			}
			continue
		case f.Unrecoverable:
			if _, err := fmt.Fprintf(w, "%s: %s\n", p.loc.Sprint(f.Path), p.mark.Sprint("unrecoverable")); err != nil {
				return err
			}
			continue
		}
		if err := Pretty(w, f.Path, nil, f.Refs, PrettyOpts{Color: opts.Color}); err != nil {
			return err
		}
	}
	return Summary(w, files, opts.Color)
}
