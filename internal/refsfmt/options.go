package refsfmt

import "fmt"

// Format selects how records are written.
type Format uint8

const (
	FormatJSON Format = iota
	FormatYAML
	FormatPretty
)

func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "pretty", "text":
		return FormatPretty, nil
	}
	return 0, fmt.Errorf("unknown format %q (want json, yaml or pretty)", s)
}

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatPretty:
		return "pretty"
	}
	return "json"
}

// PrettyOpts configures pretty-printing of records.
type PrettyOpts struct {
	Color bool
	// Width is the maximum excerpt width in terminal cells, 0 - не ограничено.
	Width int
	// ShowSource prints the source line under each record.
	ShowSource bool
}
