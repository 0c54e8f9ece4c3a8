package main

import (
	"fmt"
	"os"

	"aethersort/internal/sorter"

	"github.com/spf13/cobra"
)

func newSortCmd() *cobra.Command {
	var dryRun bool
	var prefix string

	cmd := &cobra.Command{
		Use:   "sort [directory]",
		Short: "Sort the files of a directory using the configured rules",
		Long:  `Sort evaluates every file in the directory against the ordered rule set and moves the first match into its destination subfolder.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targetDir := cfg.Directories.Default
			if len(args) > 0 {
				targetDir = args[0]
			}
			if targetDir == "" {
				var err error
				targetDir, err = os.Getwd()
				if err != nil {
					return fmt.Errorf("error getting current directory: %w", err)
				}
			}

			if cmd.Flags().Changed("dry-run") {
				cfg.Settings.DryRun = dryRun
			}
			if cmd.Flags().Changed("prefix") {
				cfg.Settings.FolderPrefix = prefix
			}

			if len(cfg.Rules) == 0 {
				return fmt.Errorf("no rules configured; add some with 'aethersort rules add'")
			}

			engine := sorter.NewWithConfig(cfg)

			active := engine.Rules().Enabled()
			if cfg.Settings.DryRun {
				fmt.Printf("Dry run: planning sort for '%s' (%d active rules)\n", targetDir, active)
			} else {
				fmt.Printf("Sorting '%s' (%d active rules)\n", targetDir, active)
			}

			results, summary, err := engine.SortDirectory(targetDir)
			if err != nil {
				return fmt.Errorf("error sorting directory: %w", err)
			}

			for _, res := range results {
				status := "moved"
				switch {
				case res.Error != nil:
					status = fmt.Sprintf("error: %v", res.Error)
				case !res.Moved:
					status = "skipped"
				}
				fmt.Printf("  %s -> %s [%s] (%s)\n", res.SourcePath, res.DestinationPath, res.RuleName, status)
			}

			fmt.Printf("Moved: %d  Skipped: %d  Errors: %d\n", summary.Moved, summary.Skipped, summary.Errors)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "simulate without moving files")
	cmd.Flags().StringVar(&prefix, "prefix", "", "override the destination folder prefix")

	return cmd
}
