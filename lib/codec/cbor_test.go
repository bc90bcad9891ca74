// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
)

func TestMarshalDeterministic(t *testing.T) {
	value := map[string]any{
		"$__type": uint32(1234),
		"m_name":  "Fire Cat",
		"m_rank":  int64(3),
	}

	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	second, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("repeated Marshal produced differing bytes")
	}
}

func TestRoundTrip(t *testing.T) {
	in := map[string]any{
		"m_values": []any{int64(1), int64(2)},
		"m_label":  "spell",
	}

	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var out map[string]any
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if out["m_label"] != "spell" {
		t.Errorf("m_label = %v, want spell", out["m_label"])
	}
	values, ok := out["m_values"].([]any)
	if !ok || len(values) != 2 {
		t.Errorf("m_values = %v", out["m_values"])
	}
}

func TestDiagnose(t *testing.T) {
	data, err := Marshal(map[string]any{"a": uint64(1)})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	diag, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose failed: %v", err)
	}
	if diag == "" {
		t.Error("Diagnose returned empty notation")
	}
}
