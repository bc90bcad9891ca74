// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the Spiral CLI.
//
// Configuration lives in a single YAML file passed explicitly via
// --config (or the SPIRAL_CONFIG environment variable). There is no
// automatic discovery and no hidden overrides: batch decode runs must
// be reproducible from the command line alone.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spiral-foundation/spiral/lib/op"
	"github.com/spiral-foundation/spiral/lib/types"
)

// EnvVar names the environment variable consulted when no --config
// flag is given.
const EnvVar = "SPIRAL_CONFIG"

// Config is the CLI configuration.
type Config struct {
	// TypeLists are paths to type list JSON dumps loaded (and
	// merged) by default when a command needs a schema.
	TypeLists []string `yaml:"type_lists"`

	// Serializer is the default decode configuration.
	Serializer SerializerConfig `yaml:"serializer"`
}

// SerializerConfig mirrors op.Options in YAML-friendly form. Zero
// values defer to the op defaults.
type SerializerConfig struct {
	// Flags is the serializer flag bitset.
	Flags uint32 `yaml:"flags"`

	// PropertyMask overrides the property mask when non-zero.
	PropertyMask uint32 `yaml:"property_mask"`

	// Shallow selects inline framing. Defaults to true, the game
	// file convention.
	Shallow *bool `yaml:"shallow"`

	// RecursionLimit overrides the depth bound when non-zero.
	RecursionLimit uint32 `yaml:"recursion_limit"`

	// SkipUnknownTypes tolerates unknown types and properties.
	SkipUnknownTypes bool `yaml:"skip_unknown_types"`

	// Djb2Only selects the Pirate101 hash convention.
	Djb2Only bool `yaml:"djb2_only"`
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{}
}

// Options converts the serializer section into op.Options, applying
// the op defaults for unset fields.
func (c *Config) Options() op.Options {
	opts := op.DefaultOptions()

	s := c.Serializer
	opts.Flags = op.Flags(s.Flags)
	if s.PropertyMask != 0 {
		opts.PropertyMask = types.PropertyFlags(s.PropertyMask)
	}
	if s.Shallow != nil {
		opts.Shallow = *s.Shallow
	}
	if s.RecursionLimit != 0 {
		opts.RecursionLimit = s.RecursionLimit
	}
	opts.SkipUnknownTypes = s.SkipUnknownTypes
	opts.Djb2Only = s.Djb2Only
	return opts
}
