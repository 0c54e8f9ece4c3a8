package main

import (
	"fmt"

	"aethersort/internal/config"
	"aethersort/internal/log"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose int
	cfg     *config.Config
)

const logo = `
	 █████╗ ███████╗████████╗██╗  ██╗███████╗██████╗
	██╔══██╗██╔════╝╚══██╔══╝██║  ██║██╔════╝██╔══██╗
	███████║█████╗     ██║   ███████║█████╗  ██████╔╝
	██╔══██║██╔══╝     ██║   ██╔══██║██╔══╝  ██╔══██╗
	██║  ██║███████╗   ██║   ██║  ██║███████╗██║  ██║
	╚═╝  ╚═╝╚══════╝   ╚═╝   ╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝  S O R T
`

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "aethersort",
		Short:   "Declutter a folder with filter rules",
		Long:    logo + "\nAetherSort moves the files of a folder into destination subfolders\nchosen by ordered filter rules: extension groups, size thresholds,\ndate windows, regular expressions, and globs.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.Setup(verbose, log.DefaultActivityPath())

			var err error
			if cfgFile != "" {
				cfg, err = config.LoadFile(cfgFile)
			} else {
				cfg, err = config.Load()
			}
			if err != nil {
				// A malformed config aborts the run rather than silently
				// sorting with the wrong rules
				return fmt.Errorf("could not load config: %w", err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/aethersort/config.json)")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase console verbosity")

	rootCmd.AddCommand(newSortCmd())
	rootCmd.AddCommand(newRulesCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newTuiCmd())
	rootCmd.AddCommand(newGuiCmd())

	return rootCmd
}

// configPath returns the path the current config came from, for saving back.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath()
}
