// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding used for binary dumps of
// decoded object trees. Encoding is deterministic (RFC 8949 Core
// Deterministic Encoding) so identical inputs produce identical dump
// bytes.
package codec
