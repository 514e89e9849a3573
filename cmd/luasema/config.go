package main

import "github.com/BurntSushi/toml"

// config is the CLI's optional TOML config surface: a default output
// format and per-document module-name overrides, the kind of small
// ambient config a CLI needs that doesn't justify a full viper stack
// (see DESIGN.md).
type config struct {
	// Format is the default -format value for the outline command
	// ("tree" or "json") when the flag isn't given explicitly.
	Format string `toml:"format"`
	// Color is the default --color value ("auto", "always", "never").
	Color string `toml:"color"`
	// ModuleNames overrides the module name the analyzer would
	// otherwise derive from a document's URI, keyed by file path.
	ModuleNames map[string]string `toml:"module_names"`
}

var activeConfig = defaultConfig()

func defaultConfig() *config {
	return &config{Format: "tree", Color: "auto"}
}

func loadConfig(path string) (*config, error) {
	cfg := defaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
