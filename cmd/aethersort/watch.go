package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"aethersort/internal/sorter"
	"aethersort/internal/watch"

	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [directory...]",
		Short: "Watch directories and sort new files as they appear",
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs := args
			if len(dirs) == 0 {
				dirs = cfg.Directories.Watch
			}
			if len(dirs) == 0 {
				return fmt.Errorf("no directories to watch; pass one or set directories.watch in the config")
			}
			if len(cfg.Rules) == 0 {
				return fmt.Errorf("no rules configured; add some with 'aethersort rules add'")
			}

			engine := sorter.NewWithConfig(cfg)
			watcher, err := watch.New(engine)
			if err != nil {
				return err
			}

			for _, dir := range dirs {
				if err := watcher.AddDirectory(dir); err != nil {
					return err
				}
			}

			watcher.SetCallback(func(source, dest string, err error) {
				if err != nil {
					fmt.Printf("  ✗ %s: %v\n", source, err)
					return
				}
				fmt.Printf("  ✓ %s -> %s\n", source, dest)
			})

			if err := watcher.Start(); err != nil {
				return err
			}

			fmt.Printf("Watching %d directories. Press Ctrl+C to stop.\n", len(dirs))

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			<-sigChan

			fmt.Printf("\nStopping. Files sorted: %d\n", watcher.Processed())
			return watcher.Stop()
		},
	}
}
