// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

// The spiral command is the driver for the Spiral toolkit: it lists
// and extracts KIWAD archives, decodes ObjectProperty payloads into
// JSON or CBOR dumps, and exposes the game's hash functions.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spiral-foundation/spiral/cmd/spiral/cli"
	"github.com/spiral-foundation/spiral/lib/config"
	"github.com/spiral-foundation/spiral/lib/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := &cli.Command{
		Name:    "spiral",
		Summary: "Toolkit for KingsIsle file formats",
		Description: `Spiral reads the binary file formats of Wizard101 and Pirate101:
KIWAD archives and ObjectProperty-serialized game state. Decoding
requires a type list dumped from the game client, passed with --types
or configured in a YAML file (--config / SPIRAL_CONFIG).`,
		Subcommands: []*cli.Command{
			wadCommand(),
			opCommand(),
			hashCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Println(version.Full())
					return nil
				},
			},
		},
	}

	args := os.Args[1:]
	for _, argument := range args {
		if argument == "--version" {
			fmt.Printf("spiral %s\n", version.Info())
			return 0
		}
	}

	configureLogging()

	if err := root.Execute(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// configureLogging sets up slog on stderr. SPIRAL_DEBUG=1 enables
// decode diagnostics.
func configureLogging() {
	level := slog.LevelWarn
	if os.Getenv("SPIRAL_DEBUG") == "1" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// loadConfig resolves the configuration from an explicit path, the
// environment, or defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv(config.EnvVar)
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
