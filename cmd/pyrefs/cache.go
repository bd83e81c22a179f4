package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pyrefs/internal/driver"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the on-disk result cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "dir",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, err := openCache(cmd)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cache.Dir())
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clean",
		Short: "Remove every cached result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, err := openCache(cmd)
			if err != nil {
				return err
			}
			n, err := cache.DropAll()
			if err != nil {
				return fmt.Errorf("failed to clean %s: %w", cache.Dir(), err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached results from %s\n", n, cache.Dir())
			return err
		},
	})
	return cmd
}

func openCache(cmd *cobra.Command) (*driver.DiskCache, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return driver.OpenDiskCache(appName, cfg.Cache.Dir)
}
