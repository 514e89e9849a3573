package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	colorFlag string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "luasema",
	Short: "luasema — a semantic analyzer for Lua source",
	Long: `luasema parses Lua source and builds a symbol model: declarations,
their inferred types, their lexical scopes, and the modules a file
requires.

  luasema outline file.lua       Print a file's declaration outline
  luasema analyze file.lua       Print a file's imports and top-level symbols

This command is a demonstration harness around the analyzer package; it
is not itself the library's public interface.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is .luasema.toml in the current directory)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto",
		`Control colored output: "auto", "always", or "never".`)
}

// initConfig loads the optional TOML config file, falling back to
// defaults silently when none is present — the config surface here is
// small enough that a missing file is not an error.
func initConfig() {
	path := cfgFile
	if path == "" {
		path = ".luasema.toml"
	}
	cfg, err := loadConfig(path)
	if err != nil {
		if cfgFile != "" {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = defaultConfig()
	}
	activeConfig = cfg
	if colorFlag == "auto" && cfg.Color != "" {
		colorFlag = cfg.Color
	}
}
