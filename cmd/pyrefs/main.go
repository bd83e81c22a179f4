package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pyrefs/internal/version"
)

// newRootCmd собирает дерево команд; тесты создают свежее дерево на каждый запуск.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pyrefs",
		Short:         "Locate import references in Python sources",
		Long:          `pyrefs finds every module a Python file imports, with exact source ranges, even in files that do not parse`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// Добавляем команды
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newDirCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newTokenizeCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newCacheCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("timings", false, "show timing information")
	pf.String("config", "", "path to pyrefs.toml (default: search upwards from the working directory)")
	pf.String("log-level", "warn", "log level (debug|info|warn|error)")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|phase|detail|debug)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")
	return rootCmd
}

// main runs the root command under a context cancelled by SIGINT or SIGTERM
// and exits with status 1 when the command fails.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of f, or 0 when it is not a terminal.
func terminalWidth(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}
