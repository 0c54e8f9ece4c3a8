package main

import (
	"fmt"
	"strconv"
	"strings"

	"aethersort/internal/config"
	"aethersort/internal/rules"

	"github.com/spf13/cobra"
)

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List and edit the configured filter rules",
	}

	cmd.AddCommand(newRulesListCmd())
	cmd.AddCommand(newRulesAddCmd())
	cmd.AddCommand(newRulesRemoveCmd())

	return cmd
}

func newRulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the rules in evaluation order",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(cfg.Rules) == 0 {
				fmt.Println("No rules configured.")
				return nil
			}
			for i, r := range cfg.Rules {
				fmt.Printf("%2d. [%s] %s -> %s%s\n", i+1, r.Kind, describeRule(r), cfg.Settings.FolderPrefix, r.Destination)
			}
			return nil
		},
	}
}

func describeRule(r *rules.Rule) string {
	switch r.Kind {
	case rules.Extension:
		return strings.Join(r.Extensions, ", ")
	case rules.Size:
		switch {
		case r.MinSize != "" && r.MaxSize != "":
			return fmt.Sprintf("%s to %s", r.MinSize, r.MaxSize)
		case r.MinSize != "":
			return fmt.Sprintf(">= %s", r.MinSize)
		default:
			return fmt.Sprintf("<= %s", r.MaxSize)
		}
	case rules.Date:
		if r.WithinDays > 0 {
			return fmt.Sprintf("modified within %d days", r.WithinDays)
		}
		return strings.TrimSpace(fmt.Sprintf("%s .. %s", r.After, r.Before))
	default:
		return r.Pattern
	}
}

func newRulesAddCmd() *cobra.Command {
	rule := &rules.Rule{}
	var kind string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a rule to the set",
		Example: `  aethersort rules add --kind extension --ext jpg --ext png --dest Images
  aethersort rules add --kind size --min-size 10MB --dest LargeFiles
  aethersort rules add --kind date --within-days 7 --dest RecentFiles
  aethersort rules add --kind regex --pattern '.*\.bak$' --dest Backups`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rule.Kind = rules.Kind(kind)
			if err := rule.Validate(); err != nil {
				return err
			}
			if err := rule.Compile(); err != nil {
				return err
			}

			cfg.Rules = append(cfg.Rules, rule)
			if err := config.Save(cfg, configPath()); err != nil {
				return err
			}
			fmt.Printf("Added rule %d: [%s] -> %s\n", len(cfg.Rules), rule.Kind, rule.Destination)
			return nil
		},
	}

	cmd.Flags().StringVar(&rule.Name, "name", "", "rule name")
	cmd.Flags().StringVar(&kind, "kind", "", "rule kind: extension, size, date, regex, glob")
	cmd.Flags().StringSliceVar(&rule.Extensions, "ext", nil, "extension to match (repeatable)")
	cmd.Flags().StringVar(&rule.MinSize, "min-size", "", "minimum size, e.g. 10MB")
	cmd.Flags().StringVar(&rule.MaxSize, "max-size", "", "maximum size, e.g. 1GB")
	cmd.Flags().StringVar(&rule.After, "after", "", "modified on or after (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&rule.Before, "before", "", "modified on or before")
	cmd.Flags().IntVar(&rule.WithinDays, "within-days", 0, "modified within the last N days")
	cmd.Flags().StringVar(&rule.Pattern, "pattern", "", "regex or glob pattern")
	cmd.Flags().StringVar(&rule.Destination, "dest", "", "destination folder name")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("dest")

	return cmd
}

func newRulesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <index>",
		Short: "Remove a rule by its list position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := strconv.Atoi(args[0])
			if err != nil || idx < 1 || idx > len(cfg.Rules) {
				return fmt.Errorf("invalid rule index %q (have %d rules)", args[0], len(cfg.Rules))
			}

			removed := cfg.Rules[idx-1]
			cfg.Rules = append(cfg.Rules[:idx-1], cfg.Rules[idx:]...)
			if err := config.Save(cfg, configPath()); err != nil {
				return err
			}
			fmt.Printf("Removed rule %d: [%s] -> %s\n", idx, removed.Kind, removed.Destination)
			return nil
		},
	}
}
