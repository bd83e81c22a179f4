// Package refsfmt renders extraction results and the debug views of the
// tokenizer and parser.
package refsfmt

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"pyrefs/internal/driver"
)

// FileRefs is one file of a directory scan.
type FileRefs struct {
	Path          string          `json:"path" yaml:"path"`
	Refs          []driver.Record `json:"refs" yaml:"refs"`
	Unrecoverable bool            `json:"unrecoverable,omitempty" yaml:"unrecoverable,omitempty"`
	Error         string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// FromScan converts directory scan results for output.
func FromScan(results []driver.FileResult) []FileRefs {
	out := make([]FileRefs, 0, len(results))
	for _, r := range results {
		fr := FileRefs{Path: r.Path, Refs: []driver.Record{}}
		if r.Err != nil {
			fr.Error = r.Err.Error()
		}
		if r.Result != nil {
			fr.Refs = r.Result.Refs
			fr.Unrecoverable = r.Result.Unrecoverable
		}
		out = append(out, fr)
	}
	return out
}

// WriteJSON writes records as one JSON array; nil is written as [].
func WriteJSON(w io.Writer, refs []driver.Record, indent bool) error {
	if refs == nil {
		refs = []driver.Record{}
	}
	return encodeJSON(w, refs, indent)
}

func WriteFilesJSON(w io.Writer, files []FileRefs, indent bool) error {
	if files == nil {
		files = []FileRefs{}
	}
	return encodeJSON(w, files, indent)
}

func encodeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
