package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pyrefs/internal/driver"
	"pyrefs/internal/recovery"
	"pyrefs/internal/refsfmt"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] <file.py|->",
		Short: "Parse a Python source file and print its syntax tree",
		Long:  `Parse runs the repairing parser over a file, lists the lines it had to rewrite and prints the resulting tree`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  runParse,
	}
	cmd.Flags().Int("max-attempts", 0, "cap on parse attempts (0 = lines + 2)")
	cmd.Flags().Bool("repairs-only", false, "print the repairs without the tree")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	maxDiagnostics, err := maxDiagnosticsFlag(cmd)
	if err != nil {
		return err
	}
	flags := localFlags(cmd)
	maxAttempts := flags.Int("max-attempts")
	repairsOnly := flags.Bool("repairs-only")
	if err := flags.Err(); err != nil {
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
	result, err := driver.Parse(e.ctx, f, recovery.Options{MaxAttempts: maxAttempts}, maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	out := cmd.OutOrStdout()
	rec := result.Recovery
	fmt.Fprintf(out, "attempts: %d\n", rec.Attempts)
	for i, d := range result.Bag.Items() {
		rep := rec.Repairs[i]
		fmt.Fprintf(out, "repair line %d: %s\n    -> %q\n", rep.Line+1, d.String(), rep.Text)
	}
	if n := result.Bag.Dropped(); n > 0 {
		fmt.Fprintf(out, "(%d more repairs)\n", n)
	}
	if result.Unrecoverable {
		fmt.Fprintln(out, "unrecoverable")
		return nil
	}
	if repairsOnly {
		return nil
	}
	return refsfmt.DumpAST(out, rec.Module)
}
