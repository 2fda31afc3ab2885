// Package cmd implements the cbudget CLI commands.
package cmd

import (
	"fmt"

	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/store"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Currency: %s\n", cfg.General.Currency)
	fmt.Printf("    Cache:    %v\n", cfg.General.Cache)
	if cfg.General.Cache {
		fmt.Printf("    Cache db: %s (%s)\n", config.CachePath(), cacheStatus())
	}
	fmt.Println()

	fmt.Println("  [Advice]")
	fmt.Printf("    Enabled:    %v\n", cfg.Advice.Enabled)
	fmt.Printf("    Provider:   %s\n", cfg.Advice.Provider)
	fmt.Printf("    Model:      %s\n", cfg.Advice.Model)
	if cfg.Advice.BaseURL != "" {
		fmt.Printf("    Base URL:   %s\n", cfg.Advice.BaseURL)
	}
	fmt.Printf("    Max tokens: %d\n", cfg.Advice.MaxTokens)
	fmt.Printf("    Timeout:    %ds\n", cfg.Advice.TimeoutSec)
	if key := config.GetAPIKey(cfg); key != "" {
		fmt.Printf("    API key:    %s\n", config.MaskKey(key))
	} else {
		fmt.Println("    API key:    not configured")
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s\n", cfg.Log.Level)
	if cfg.Log.File != "" {
		fmt.Printf("    File:  %s\n", cfg.Log.File)
	}
	fmt.Println()

	fmt.Println("  Run `cbudget setup` to reconfigure.")
	return nil
}

func cacheStatus() string {
	c, err := store.Open(config.CachePath())
	if err != nil {
		return "unavailable"
	}
	defer func() { _ = c.Close() }()
	n, err := c.Count()
	if err != nil {
		return "unreadable"
	}
	return cli.FormatNumber(int64(n)) + " entries"
}
