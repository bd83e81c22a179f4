package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pyrefs/internal/driver"
	"pyrefs/internal/refsfmt"
	"pyrefs/internal/source"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [flags] [file.py|-]",
		Short: "Print the import references of one Python file",
		Long:  `Scan reads one file (stdin when the argument is missing or "-") and prints every import reference with its source range`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScan,
	}
	addExtractFlags(cmd)
	cmd.Flags().String("format", "json", "output format (json|yaml|pretty)")
	cmd.Flags().Bool("show-source", false, "print the source line under each reference (pretty format)")
	return cmd
}

// addExtractFlags registers the flags shared by scan, dir and watch.
func addExtractFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("quick", false, "scan lines with regular expressions instead of parsing")
	cmd.Flags().Bool("offline", false, "do not inspect the Python environment; use builtins and mappings only")
	cmd.Flags().Bool("no-cache", false, "bypass the disk cache")
}

func runScan(cmd *cobra.Command, args []string) error {
	flags := localFlags(cmd)
	showSource := flags.Bool("show-source")
	format, err := formatFlag(flags)
	if err != nil {
		return err
	}

	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	f, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	res, err := driver.Extract(e.ctx, f, e.opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case refsfmt.FormatJSON:
		err = refsfmt.WriteJSON(out, res.Refs, true)
	case refsfmt.FormatYAML:
		err = refsfmt.WriteYAML(out, res.Refs)
	case refsfmt.FormatPretty:
		opts := refsfmt.PrettyOpts{Color: wantColor(e.color, out), ShowSource: showSource}
		if of, ok := out.(*os.File); ok {
			opts.Width = terminalWidth(of)
		}
		err = refsfmt.Pretty(out, f.Path, f.Buffer, res.Refs, opts)
	}
	if err != nil {
		return err
	}
	if res.Unrecoverable {
		e.log.Info("source could not be repaired", "path", f.Path, "attempts", res.Attempts)
	}
	if e.timings {
		return printTimings(cmd.ErrOrStderr(), res, format == refsfmt.FormatJSON)
	}
	return nil
}

// formatFlag parses --format; it also surfaces any earlier error of flags.
func formatFlag(flags *flagReader) (refsfmt.Format, error) {
	value := flags.String("format")
	if err := flags.Err(); err != nil {
		return 0, err
	}
	return refsfmt.ParseFormat(value)
}

// readInput loads the file named by args, or stdin without one.
func readInput(cmd *cobra.Command, args []string) (*source.File, error) {
	if len(args) == 0 || args[0] == "-" {
		f, err := source.Read("<stdin>", cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return f, nil
	}
	return source.Load(args[0])
}
