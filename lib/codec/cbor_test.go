// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
)

// sampleManifest is a representative manifest fragment using json
// struct tags, the convention for types that serve both JSON and CBOR.
type sampleManifest struct {
	FileType string `json:"fileType"`
	Comment  string `json:"comment,omitempty"`
	Version  uint32 `json:"version"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleManifest{
		FileType: "ffnt",
		Comment:  "system font",
		Version:  0x04000000,
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Marshal produced empty output")
	}

	var decoded sampleManifest
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if decoded != original {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	// Map iteration order is random in Go; deterministic encoding
	// must still produce identical bytes on every call.
	value := map[string]any{
		"glyphMap":    map[string]any{"A": 33, "B": 34, "z": 90},
		"fileType":    "cfnt",
		"version":     0x03000000,
		"glyphWidths": []any{1, 2, 3},
	}

	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	second, err := Marshal(value)
	if err != nil {
		t.Fatalf("second Marshal: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("deterministic encoding violated: %x != %x", first, second)
	}
}

func TestEncoderDecoderStreamRoundtrip(t *testing.T) {
	manifests := []sampleManifest{
		{FileType: "ffnt", Version: 0x04000000},
		{FileType: "cfnu", Comment: "extended", Version: 0x03000000},
	}

	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	for _, manifest := range manifests {
		if err := encoder.Encode(manifest); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	decoder := NewDecoder(&buffer)
	for i, want := range manifests {
		var got sampleManifest
		if err := decoder.Decode(&got); err != nil {
			t.Fatalf("Decode manifest %d: %v", i, err)
		}
		if got != want {
			t.Errorf("manifest %d: got %+v, want %+v", i, got, want)
		}
	}
}

func TestOmitemptyRespected(t *testing.T) {
	withComment := sampleManifest{FileType: "ffnt", Comment: "x", Version: 1}
	withoutComment := sampleManifest{FileType: "ffnt", Version: 1}

	dataWith, err := Marshal(withComment)
	if err != nil {
		t.Fatal(err)
	}
	dataWithout, err := Marshal(withoutComment)
	if err != nil {
		t.Fatal(err)
	}

	if len(dataWithout) >= len(dataWith) {
		t.Errorf("omitempty not effective: without=%d bytes, with=%d bytes",
			len(dataWithout), len(dataWith))
	}
}

func TestUnmarshalInvalidCBOR(t *testing.T) {
	var manifest sampleManifest
	err := Unmarshal([]byte{0xFF, 0xFE, 0xFD}, &manifest)
	if err == nil {
		t.Error("Unmarshal should reject invalid CBOR")
	}
}

func TestAnyTargetsDecodeToStringKeyedMaps(t *testing.T) {
	data, err := Marshal(map[string]any{"sheetInfo": map[string]any{"cols": 8}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	top, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded top level is %T, want map[string]any", decoded)
	}
	if _, ok := top["sheetInfo"].(map[string]any); !ok {
		t.Fatalf("nested value is %T, want map[string]any", top["sheetInfo"])
	}
}

func TestDiagnose(t *testing.T) {
	data, err := Marshal(map[string]any{"fileType": "ffnt"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	notation, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}

	if !strings.Contains(notation, `"fileType"`) {
		t.Errorf("notation %q does not contain \"fileType\"", notation)
	}
	if !strings.Contains(notation, `"ffnt"`) {
		t.Errorf("notation %q does not contain \"ffnt\"", notation)
	}
}

func BenchmarkMarshal(b *testing.B) {
	manifest := sampleManifest{
		FileType: "ffnt",
		Comment:  "system font",
		Version:  0x04000000,
	}

	b.ReportAllocs()
	for b.Loop() {
		Marshal(manifest)
	}
}
