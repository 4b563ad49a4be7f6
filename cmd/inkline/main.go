// Package main is the entry point for the inkline CLI, a standalone
// front end to the diagram render pipeline: it discovers diagram
// blocks in a document and paints the rendered images inline in the
// terminal.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dshills/inkline/internal/config"
)

// Version information (set via ldflags during build).
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "inkline",
	Short: "Render embedded diagrams as inline terminal images",
	Long: `Inkline scans markdown and org documents for embedded diagram
blocks (mermaid, plantuml, d2, gnuplot), renders them through the
matching external tool, and displays the results inline using the
terminal's graphics protocol.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.Version = version

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(backendsCmd)
	rootCmd.AddCommand(clearCmd)

	rootCmd.PersistentFlags().String("config", "", "path to a TOML configuration file")
	rootCmd.PersistentFlags().String("setup", "", "path to a Lua setup file")
	rootCmd.PersistentFlags().String("log-level", "", "log verbosity (debug|info|warn|error)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig builds the effective configuration: defaults, then the
// TOML file, then the Lua setup file, then command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	tomlPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if tomlPath == "" {
		tomlPath = defaultConfigFile("inkline.toml")
	}
	if err := config.LoadTOML(cfg, tomlPath); err != nil {
		return nil, fmt.Errorf("load %s: %w", tomlPath, err)
	}

	luaPath, err := cmd.Flags().GetString("setup")
	if err != nil {
		return nil, fmt.Errorf("failed to get setup flag: %w", err)
	}
	if luaPath == "" {
		luaPath = defaultConfigFile("setup.lua")
	}
	if err := config.LoadLua(cfg, luaPath); err != nil {
		return nil, fmt.Errorf("load %s: %w", luaPath, err)
	}

	level, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get log-level flag: %w", err)
	}
	if level != "" {
		cfg.LogLevel = level
	}

	return cfg, nil
}

// defaultConfigFile resolves a file under the user config directory.
// A missing directory just yields a path no loader will find, which
// the loaders treat as "use defaults".
func defaultConfigFile(name string) string {
	base, err := os.UserConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(base, "inkline", name)
}
