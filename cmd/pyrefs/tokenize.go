package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pyrefs/internal/driver"
	"pyrefs/internal/refsfmt"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] <file.py|->",
		Short: "Tokenize a Python source file",
		Long:  `Tokenize breaks a Python source file into tokens, printing lexer problems to stderr`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	maxDiagnostics, err := maxDiagnosticsFlag(cmd)
	if err != nil {
		return err
	}
	flags := localFlags(cmd)
	format := flags.String("format")
	if err := flags.Err(); err != nil {
		return err
	}

	f, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	result := driver.Tokenize(f, maxDiagnostics)

	// Выводим диагностику в stderr, если есть
	for _, d := range result.Bag.Items() {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", f.Path, d.String())
	}
	if n := result.Bag.Dropped(); n > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d more diagnostics not shown\n", f.Path, n)
	}

	// Выводим токены в выбранном формате
	switch format {
	case "pretty":
		return refsfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens)
	case "json":
		return refsfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
