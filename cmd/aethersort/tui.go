package main

import (
	"aethersort/internal/tui"

	"github.com/spf13/cobra"
)

func newTuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch the interactive terminal interface",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(cfg, configPath())
		},
	}
}
