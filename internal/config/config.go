// Package config locates and decodes .svls.toml and .svlint.toml.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"svls/internal/lint"
)

type Config struct {
	Verilog Verilog `toml:"verilog"`
	Option  Option  `toml:"option"`
}

type Verilog struct {
	// IncludePaths are relative to the project root.
	IncludePaths []string `toml:"include_paths"`
	// Defines are NAME or NAME=VALUE strings, see ParseDefine.
	Defines []string `toml:"defines"`
}

type Option struct {
	// Linter enables rule checking.
	Linter bool `toml:"linter"`
}

// Default has no include paths, no defines and rule checking enabled.
func Default() Config {
	return Config{Option: Option{Linter: true}}
}

// Load decodes the analysis options at path. Without a path the defaults are
// returned. Keys missing from the file keep their default values.
func Load(path string, ok bool) (Config, error) {
	if !ok {
		return Default(), nil
	}
	cfg := Default()
	if err := decode(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadRuleSettings decodes the rule options at path. A missing file is an
// error; the caller decides on the fallback.
func LoadRuleSettings(path string, ok bool) (lint.Settings, error) {
	if !ok {
		return lint.Settings{}, &Error{Kind: KindMissing, Path: RuleFileName}
	}
	var s lint.Settings
	if err := decode(path, &s); err != nil {
		return lint.Settings{}, err
	}
	return s, nil
}

func decode(path string, v any) error {
	// #nosec G304 -- path comes from the ancestor search
	data, err := os.ReadFile(path)
	if err != nil {
		return &Error{Kind: KindRead, Path: path, Err: err}
	}
	if _, err := toml.Decode(string(data), v); err != nil {
		return &Error{Kind: KindParse, Path: path, Err: err}
	}
	return nil
}
