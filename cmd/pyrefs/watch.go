package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"pyrefs/internal/ctxlog"
	"pyrefs/internal/driver"
	"pyrefs/internal/refsfmt"
)

// Editors often write a file in several steps; changes closer together
// than this produce one re-scan.
const watchDebounce = 50 * time.Millisecond

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [flags] <file.py>",
		Short: "Re-scan a file on every change",
		Long:  `Watch prints the references of a file, then prints them again as one JSON document per line after every change until interrupted`,
		Args:  cobra.ExactArgs(1),
		RunE:  runWatch,
	}
	addExtractFlags(cmd)
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	out := cmd.OutOrStdout()
	emit := func() error {
		res, err := driver.ExtractFile(e.ctx, path, e.opts)
		if err != nil {
			// файл мог исчезнуть между событием и чтением
			e.log.Warn("scan failed", "path", path, "err", err)
			return nil
		}
		return writeWatchRecord(out, res)
	}
	if err := emit(); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	// The directory is watched so that atomic saves (write + rename) are seen.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	err = watchLoop(e.ctx, w, path, emit)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func writeWatchRecord(out io.Writer, res *driver.Result) error {
	return refsfmt.WriteJSON(out, res.Refs, false)
}

// watchLoop calls onChange after each burst of writes to path until ctx is
// done or the watcher fails.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, path string, onChange func() error) error {
	log := ctxlog.FromContext(ctx)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !affects(ev, path) {
				continue
			}
			log.Debug("change", "op", ev.Op.String(), "path", ev.Name)
			timer.Reset(watchDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		case <-timer.C:
			if err := onChange(); err != nil {
				return err
			}
		}
	}
}

// affects reports whether ev changes the content of path.
func affects(ev fsnotify.Event, path string) bool {
	if filepath.Clean(ev.Name) != path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
