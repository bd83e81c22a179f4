package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pyrefs/internal/driver"
	"pyrefs/internal/refsfmt"
)

func newDirCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dir [flags] <root>",
		Short: "Scan every Python file under a directory",
		Long:  `Dir scans the files under root matching the include globs in parallel and prints their references grouped by file`,
		Args:  cobra.ExactArgs(1),
		RunE:  runDir,
	}
	addExtractFlags(cmd)
	cmd.Flags().String("format", "json", "output format (json|yaml|pretty)")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().StringSlice("include", nil, "glob of files to scan, relative to root (repeatable)")
	cmd.Flags().StringSlice("exclude", nil, "glob of files or directories to skip (repeatable)")
	cmd.Flags().Bool("progress", false, "show interactive progress on a terminal")
	return cmd
}

func runDir(cmd *cobra.Command, args []string) error {
	root := args[0]
	flags := localFlags(cmd)
	progress := flags.Bool("progress")
	format, err := formatFlag(flags)
	if err != nil {
		return err
	}

	st, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if !st.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}

	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	sopts, err := scanOptions(cmd, e)
	if err != nil {
		return err
	}

	var results []driver.FileResult
	if progress && isTerminal(os.Stderr) {
		results, err = runScanWithUI(e.ctx, "scanning "+root, root, e.opts, sopts)
	} else {
		results, err = driver.ScanDir(e.ctx, root, e.opts, sopts)
	}
	if err != nil {
		return err
	}

	files := refsfmt.FromScan(results)
	out := cmd.OutOrStdout()
	switch format {
	case refsfmt.FormatJSON:
		err = refsfmt.WriteFilesJSON(out, files, true)
	case refsfmt.FormatYAML:
		err = refsfmt.WriteYAML(out, files)
	case refsfmt.FormatPretty:
		err = refsfmt.PrettyFiles(out, files, refsfmt.PrettyOpts{Color: wantColor(e.color, out)})
	}
	if err != nil {
		return err
	}
	if e.timings {
		return printScanTimings(cmd.ErrOrStderr(), results)
	}
	return nil
}

// scanOptions merges the [scan] config section with command flags; flags
// given on the command line win.
func scanOptions(cmd *cobra.Command, e *env) (driver.ScanOptions, error) {
	sopts := driver.ScanOptions{
		Include: e.cfg.Scan.Include,
		Exclude: e.cfg.Scan.Exclude,
		Jobs:    e.cfg.Scan.Jobs,
	}
	flags := localFlags(cmd)
	if flags.Changed("jobs") {
		sopts.Jobs = flags.Int("jobs")
	}
	if flags.Changed("include") {
		sopts.Include = flags.Strings("include")
	}
	if flags.Changed("exclude") {
		sopts.Exclude = flags.Strings("exclude")
	}
	if err := flags.Err(); err != nil {
		return sopts, err
	}
	if len(sopts.Include) == 0 {
		sopts.Include = driver.DefaultInclude
	}
	if sopts.Exclude == nil {
		sopts.Exclude = driver.DefaultExclude
	}
	return sopts, nil
}
