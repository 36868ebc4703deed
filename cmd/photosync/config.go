package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"photosync/pkg/auth"
	"photosync/pkg/config"
	"photosync/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage photosync configuration files.

Configuration is merged from, highest priority first:
  - Command line flags
  - Environment variables (PHOTOSYNC_*)
  - .env files
  - Configuration file
  - Default values`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default values",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration with tokens masked",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = ".photosync.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file already exists: %s", path)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}

	ui.PrintSuccess("Configuration file created: " + path)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Add your tokens, or store them with 'photosync auth login'")
	fmt.Println("2. Run 'photosync config validate'")
	fmt.Println("3. Run 'photosync sync <user> --folder <name>'")
	return nil
}

// maskedConfig returns a copy of cfg that is safe to print
func maskedConfig(cfg *config.Config) config.Config {
	display := *cfg
	if display.VK.Token != "" {
		display.VK.Token = auth.MaskToken(display.VK.Token)
	}
	if display.Disk.Token != "" {
		display.Disk.Token = auth.MaskToken(display.Disk.Token)
	}
	return display
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}

	display := maskedConfig(cfg)
	data, err := yaml.Marshal(&display)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintHighlight("Current configuration")
	fmt.Println()
	fmt.Print(string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}

	if err := cfg.ValidateRun(); err != nil {
		ui.PrintWarning("Not ready for a sync run", err)
	}

	ui.PrintSuccess("Configuration is valid")
	fmt.Printf("  Album:   %s\n", cfg.VK.Album)
	fmt.Printf("  Count:   %d\n", cfg.Upload.Count)
	fmt.Printf("  Policy:  %s\n", cfg.Upload.Policy)
	fmt.Printf("  Report:  %s\n", cfg.Report.Path)
	fmt.Printf("  Timeout: %s\n", cfg.HTTP.Timeout)
	return nil
}
