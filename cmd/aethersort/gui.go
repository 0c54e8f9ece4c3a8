package main

import (
	"aethersort/internal/gui"

	"github.com/spf13/cobra"
)

func newGuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Launch the graphical interface",
		RunE: func(cmd *cobra.Command, args []string) error {
			return gui.Run(cfg, configPath())
		},
	}
}
