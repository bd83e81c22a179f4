package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// flagReader reads typed flag values and keeps the first error, so a
// command reads everything it needs and checks once.
type flagReader struct {
	fs  *pflag.FlagSet
	err error
}

// globalFlags reads the persistent flags defined on the root command.
func globalFlags(cmd *cobra.Command) *flagReader {
	return &flagReader{fs: cmd.Root().PersistentFlags()}
}

func localFlags(cmd *cobra.Command) *flagReader {
	return &flagReader{fs: cmd.Flags()}
}

func (r *flagReader) fail(name string, err error) {
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("flag --%s: %w", name, err)
	}
}

func (r *flagReader) String(name string) string {
	v, err := r.fs.GetString(name)
	r.fail(name, err)
	return v
}

func (r *flagReader) Strings(name string) []string {
	v, err := r.fs.GetStringSlice(name)
	r.fail(name, err)
	return v
}

func (r *flagReader) Int(name string) int {
	v, err := r.fs.GetInt(name)
	r.fail(name, err)
	return v
}

func (r *flagReader) Bool(name string) bool {
	v, err := r.fs.GetBool(name)
	r.fail(name, err)
	return v
}

// Changed reports whether the user set name on the command line.
func (r *flagReader) Changed(name string) bool {
	return r.fs.Changed(name)
}

func (r *flagReader) Err() error { return r.err }

// maxDiagnosticsFlag reads the global --max-diagnostics limit (0 = all).
func maxDiagnosticsFlag(cmd *cobra.Command) (int, error) {
	flags := globalFlags(cmd)
	n := flags.Int("max-diagnostics")
	if err := flags.Err(); err == nil && n < 0 {
		return 0, fmt.Errorf("--max-diagnostics must not be negative, got %d", n)
	}
	return n, flags.Err()
}

// boolFlag reads a local flag that not every command defines.
func boolFlag(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Lookup(name) == nil {
		return false
	}
	v, err := cmd.Flags().GetBool(name)
	return err == nil && v
}
