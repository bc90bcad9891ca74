// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/spiral-foundation/spiral/cmd/spiral/cli"
	"github.com/spiral-foundation/spiral/lib/wad"
)

func wadCommand() *cli.Command {
	return &cli.Command{
		Name:    "wad",
		Summary: "Inspect and extract KIWAD archives",
		Subcommands: []*cli.Command{
			wadListCommand(),
			wadExtractCommand(),
		},
	}
}

func wadListCommand() *cli.Command {
	var glob string
	var long bool

	return &cli.Command{
		Name:    "list",
		Summary: "List archive entries",
		Usage:   "spiral wad list <archive> [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flags.StringVar(&glob, "glob", "", "only list entries matching a glob pattern")
			flags.BoolVarP(&long, "long", "l", false, "show sizes and compression state")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one archive path")
			}

			archive, err := openArchive(args[0])
			if err != nil {
				return err
			}
			defer archive.Close()

			paths, err := selectPaths(archive, glob)
			if err != nil {
				return err
			}

			if !long {
				for _, path := range paths {
					fmt.Println(path)
				}
				return nil
			}

			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(tw, "PATH\tSIZE\tSTORED\n")
			for _, path := range paths {
				entry, err := archive.Entry(path)
				if err != nil {
					return err
				}
				stored := "plain"
				if entry.Compressed {
					stored = "zlib"
				}
				if entry.IsUnpatched {
					stored = "unpatched"
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\n", path, entry.UncompressedSize, stored)
			}
			return tw.Flush()
		},
	}
}

func wadExtractCommand() *cli.Command {
	var glob string
	var outDir string

	return &cli.Command{
		Name:    "extract",
		Summary: "Extract archive entries to a directory",
		Usage:   "spiral wad extract <archive> --out DIR [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("extract", pflag.ContinueOnError)
			flags.StringVar(&glob, "glob", "", "only extract entries matching a glob pattern")
			flags.StringVar(&outDir, "out", ".", "destination directory")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one archive path")
			}

			archive, err := openArchive(args[0])
			if err != nil {
				return err
			}
			defer archive.Close()

			paths, err := selectPaths(archive, glob)
			if err != nil {
				return err
			}

			extracted := 0
			for _, path := range paths {
				entry, err := archive.Entry(path)
				if err != nil {
					return err
				}
				if entry.IsUnpatched {
					slog.Debug("skipping unpatched entry", "path", path)
					continue
				}

				data, err := archive.Get(path)
				if err != nil {
					return err
				}

				target := filepath.Join(outDir, filepath.FromSlash(path))
				if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
					return fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
				}
				if err := os.WriteFile(target, data, 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", target, err)
				}
				extracted++
			}

			fmt.Fprintf(os.Stderr, "extracted %d of %d entries\n", extracted, len(paths))
			return nil
		},
	}
}

// openArchive memory-maps large archives and heap-reads small ones.
// The cutoff is arbitrary but keeps small test archives off the mmap
// path.
func openArchive(path string) (*wad.Archive, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() >= 1<<20 {
		return wad.Mmap(path)
	}
	return wad.Heap(path)
}

// selectPaths applies an optional glob filter to the archive listing.
func selectPaths(archive *wad.Archive, glob string) ([]string, error) {
	if glob == "" {
		return archive.Paths(), nil
	}
	return archive.IterGlob(glob)
}
