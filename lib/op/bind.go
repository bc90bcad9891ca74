// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

package op

import "bytes"

// BindMagic is the four-byte ASCII prefix wrapping persistent object
// state shipped with the game client.
var BindMagic = []byte("BINd")

// StripBind removes a leading BINd container prefix, reporting
// whether one was present. BINd payloads use the game-file encoding
// convention: stateful flags and non-shallow framing. Callers that
// find the prefix should configure their serializer accordingly (or
// use the archive glue, which does so automatically).
//
// Feeding unstripped BINd bytes to [Serializer.Deserialize] is not
// silently lossy: the magic is not a registered type hash, so the
// decode fails with an unknown-type error.
func StripBind(data []byte) ([]byte, bool) {
	if bytes.HasPrefix(data, BindMagic) {
		return data[len(BindMagic):], true
	}
	return data, false
}
