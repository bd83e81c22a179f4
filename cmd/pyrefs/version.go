package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pyrefs/internal/version"
)

type versionPayload struct {
	Tool string `json:"tool"`
	version.Info
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show pyrefs build information",
		Args:  cobra.NoArgs,
		RunE:  runVersion,
	}
	cmd.Flags().Bool("hash", false, "include git commit hash")
	cmd.Flags().Bool("date", false, "include build timestamp")
	cmd.Flags().Bool("full", false, "show every recorded bit of build metadata")
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runVersion(cmd *cobra.Command, _ []string) error {
	flags := localFlags(cmd)
	format := strings.ToLower(flags.String("format"))
	full := flags.Bool("full")
	withHash := flags.Bool("hash") || full
	withDate := flags.Bool("date") || full
	if err := flags.Err(); err != nil {
		return err
	}

	// запрошенное, но не записанное при сборке поле показываем как unknown
	info := version.Current()
	info.GitCommit = pick(withHash, info.GitCommit)
	info.BuildDate = pick(withDate, info.BuildDate)
	if !full {
		info.GoVersion = ""
		info.Modified = false
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(versionPayload{Tool: appName, Info: info})
	case "pretty":
		mode, err := colorFlag(cmd)
		if err != nil {
			return err
		}
		prev := color.NoColor
		color.NoColor = !wantColor(mode, out)
		defer func() { color.NoColor = prev }()

		fmt.Fprintf(out, "%s %s\n", appName, version.Colored(info.Version))
		if info.GitCommit != "" {
			dirty := ""
			if info.Modified {
				dirty = " (modified)"
			}
			fmt.Fprintf(out, "commit: %s%s\n", info.GitCommit, dirty)
		}
		if info.BuildDate != "" {
			fmt.Fprintf(out, "built:  %s\n", info.BuildDate)
		}
		if info.GoVersion != "" {
			fmt.Fprintf(out, "go:     %s\n", info.GoVersion)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}

func pick(want bool, v string) string {
	switch {
	case !want:
		return ""
	case v == "":
		return "unknown"
	}
	return v
}
