// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spiral-foundation/spiral/cmd/spiral/cli"
	"github.com/spiral-foundation/spiral/lib/wizhash"
)

func hashCommand() *cli.Command {
	return &cli.Command{
		Name:    "hash",
		Summary: "Compute the game's dictionary hashes",
		Subcommands: []*cli.Command{
			{
				Name:    "djb2",
				Summary: "Hash inputs with djb2",
				Usage:   "spiral hash djb2 <input>...",
				Run:     runHash(wizhash.Djb2String),
			},
			{
				Name:    "string-id",
				Summary: "Hash inputs with the StringID name hash",
				Usage:   "spiral hash string-id <input>...",
				Run:     runHash(wizhash.StringIDString),
			},
		},
	}
}

func runHash(hash func(string) uint32) func([]string) error {
	return func(args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("expected at least one input string")
		}
		for _, input := range args {
			fmt.Printf("%d\t%s\n", hash(input), input)
		}
		return nil
	}
}
