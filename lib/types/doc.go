// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

// Package types implements the in-memory schema for the game's
// reflection system: a registry of type definitions keyed by type
// hash, each carrying an ordered property table, a base-class chain,
// per-property flag bits, and enum option tables.
//
// Type lists are ingested from JSON dumps. Two historical document
// shapes exist and are auto-detected: v1 lists lack per-type hashes
// (they are computed from the type name at load time) while v2 lists
// carry explicit hashes which are always trusted as-is. Schemas may
// contain comments and trailing commas; input is normalized through
// tidwall/jsonc before strict decoding.
//
// A TypeList is immutable once loaded and safe for concurrent readers.
package types
