// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/spiral-foundation/spiral/cmd/spiral/cli"
	"github.com/spiral-foundation/spiral/lib/codec"
	"github.com/spiral-foundation/spiral/lib/op"
	"github.com/spiral-foundation/spiral/lib/types"
)

func opCommand() *cli.Command {
	return &cli.Command{
		Name:    "op",
		Summary: "Decode ObjectProperty payloads",
		Subcommands: []*cli.Command{
			opDecodeCommand(),
		},
	}
}

// opDecodeParams holds the flag values for op decode.
type opDecodeParams struct {
	configPath string
	typeLists  []string
	flags      uint32
	mask       uint32
	shallow    bool
	skip       bool
	djb2       bool
	asCBOR     bool
	rootType   string
}

func opDecodeCommand() *cli.Command {
	var params opDecodeParams

	return &cli.Command{
		Name:    "decode",
		Summary: "Decode payload files into JSON or CBOR dumps",
		Description: `Decode one or more ObjectProperty payload files against a type
list. A BINd container prefix is stripped automatically and switches
the decode to the game-file convention. Output goes to stdout as JSON
(default) or CBOR (--cbor), one document per input file.`,
		Usage: "spiral op decode <file>... --types LIST [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("decode", pflag.ContinueOnError)
			flags.StringVar(&params.configPath, "config", "", "YAML configuration file")
			flags.StringSliceVar(&params.typeLists, "types", nil, "type list JSON files (merged)")
			flags.Uint32Var(&params.flags, "flags", 0, "serializer flag bits")
			flags.Uint32Var(&params.mask, "mask", 0, "property mask override")
			flags.BoolVar(&params.shallow, "shallow", true, "use shallow framing")
			flags.BoolVar(&params.skip, "skip-unknown", false, "skip unknown types and properties")
			flags.BoolVar(&params.djb2, "djb2", false, "use djb2 type hashing (Pirate101)")
			flags.BoolVar(&params.asCBOR, "cbor", false, "emit CBOR instead of JSON")
			flags.StringVar(&params.rootType, "root", "", "expected root type name (required for shallow payloads)")
			return flags
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("expected at least one payload file")
			}
			return runOpDecode(&params, args)
		},
	}
}

func runOpDecode(params *opDecodeParams, paths []string) error {
	cfg, err := loadConfig(params.configPath)
	if err != nil {
		return err
	}

	listPaths := params.typeLists
	if len(listPaths) == 0 {
		listPaths = cfg.TypeLists
	}
	if len(listPaths) == 0 {
		return fmt.Errorf("no type lists given (use --types or a config file)")
	}

	list, err := types.OpenMany(listPaths...)
	if err != nil {
		return err
	}
	slog.Debug("type lists loaded", "types", list.Len(), "files", len(listPaths))

	opts := cfg.Options()
	if params.flags != 0 {
		opts.Flags = op.Flags(params.flags)
	}
	if params.mask != 0 {
		opts.PropertyMask = types.PropertyFlags(params.mask)
	}
	// Like --flags and --mask, the boolean flags override the
	// configuration only when set away from their defaults.
	if !params.shallow {
		opts.Shallow = false
	}
	if params.skip {
		opts.SkipUnknownTypes = true
	}
	if params.djb2 {
		opts.Djb2Only = true
	}

	serializer, err := op.NewSerializer(opts, list)
	if err != nil {
		return err
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		stripped, bound := op.StripBind(data)
		var value op.Value
		switch {
		case bound:
			value, err = serializer.DeserializeBind(stripped)
		case params.rootType != "":
			var root *types.TypeDef
			root, err = list.LookupName(params.rootType)
			if err == nil {
				value, err = serializer.DeserializeTyped(stripped, root.Hash)
			}
		default:
			value, err = serializer.Deserialize(stripped)
		}
		if err != nil {
			return fmt.Errorf("decoding %s: %w", path, err)
		}

		if err := emit(value, params.asCBOR); err != nil {
			return fmt.Errorf("writing dump for %s: %w", path, err)
		}
	}
	return nil
}

// emit writes one decoded tree to stdout.
func emit(value op.Value, asCBOR bool) error {
	if asCBOR {
		data, err := codec.Marshal(value.Interface())
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
