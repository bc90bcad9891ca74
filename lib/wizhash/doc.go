// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

// Package wizhash implements the two dictionary hashes used by the
// game's reflection system: djb2 and the hand-rolled StringID name
// hash. On-wire property identifiers and type hashes are matched by
// these values, so both algorithms are byte-exact contracts.
package wizhash
