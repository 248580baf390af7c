package main

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// runWatch re-minifies inputPath every time it changes on disk, writing each
// result the same way a one-shot run would, until the process is
// interrupted. Grounded on the teacher pack's own fsnotify watcher
// (grame-cncm-faustlsp's util.WatchReplicateDir): here a single file is
// watched instead of a directory tree, since this tool only ever minifies
// one input at a time.
func runWatch(cmd *cobra.Command, inputPath string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(inputPath); err != nil {
		return fmt.Errorf("watching %q: %w", inputPath, err)
	}

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	report := func() {
		if err := minifyFile(stdout, stderr, inputPath); err != nil {
			fmt.Fprintln(stderr, "jsqueeze:", err)
		}
	}
	report()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				report()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(stderr, "jsqueeze: watch error:", err)
		}
	}
}
