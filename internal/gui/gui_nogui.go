//go:build nogui
// +build nogui

package gui

import (
	"fmt"

	"aethersort/internal/config"
)

// Run is a stub implementation for builds with GUI disabled
func Run(cfg *config.Config, cfgPath string) error {
	fmt.Println("GUI is disabled in this build. Please use the terminal interface.")
	return fmt.Errorf("GUI not available in this build")
}

// Available reports whether the GUI is compiled into this build
func Available() bool {
	return false
}
