// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package canon

import (
	"errors"
	"strings"
	"testing"

	"github.com/atomicledger/ledger/lib/config"
	"github.com/atomicledger/ledger/lib/ublerr"
)

func TestS1_MapKeyOrderIrrelevant(t *testing.T) {
	a := map[string]any{"b": int64(1), "a": int64(2)}
	b := map[string]any{"a": int64(2), "b": int64(1)}

	encodedA, err := Canonize(a, nil)
	if err != nil {
		t.Fatalf("Canonize(a): %v", err)
	}
	encodedB, err := Canonize(b, nil)
	if err != nil {
		t.Fatalf("Canonize(b): %v", err)
	}

	want := `{"a":2,"b":1}`
	if string(encodedA) != want {
		t.Errorf("Canonize(a) = %s, want %s", encodedA, want)
	}
	if string(encodedA) != string(encodedB) {
		t.Errorf("Canonize(a) != Canonize(b): %s vs %s", encodedA, encodedB)
	}
}

func TestCanonize_Primitives(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "null"},
		{"true", true, "true"},
		{"false", false, "false"},
		{"int", int64(42), "42"},
		{"negative int", int64(-7), "-7"},
		{"string", "hello", `"hello"`},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
		{"array", []any{int64(1), int64(2), int64(3)}, "[1,2,3]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonize(tt.in, nil)
			if err != nil {
				t.Fatalf("Canonize(%v): %v", tt.in, err)
			}
			if string(got) != tt.want {
				t.Errorf("Canonize(%v) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestCanonize_RejectsFloat(t *testing.T) {
	if _, err := Canonize(3.14, nil); err == nil {
		t.Error("Canonize should reject float64")
	}
	if _, err := Canonize(float32(1.0), nil); err == nil {
		t.Error("Canonize should reject float32")
	}
}

func TestCanonize_Fraction(t *testing.T) {
	f := Fraction{Scale: 2, Value: "1234"}
	got, err := Canonize(f, nil)
	if err != nil {
		t.Fatalf("Canonize(Fraction): %v", err)
	}
	want := `{"scale":2,"value":"1234"}`
	if string(got) != want {
		t.Errorf("Canonize(Fraction) = %s, want %s", got, want)
	}
}

func TestCanonize_NFCNormalization(t *testing.T) {
	// "é" as a single codepoint (NFC) vs "e" + combining acute (NFD)
	// must canonicalize to the same bytes.
	nfc := "café"
	nfd := "café"

	encNFC, err := Canonize(nfc, nil)
	if err != nil {
		t.Fatalf("Canonize(nfc): %v", err)
	}
	encNFD, err := Canonize(nfd, nil)
	if err != nil {
		t.Fatalf("Canonize(nfd): %v", err)
	}
	if string(encNFC) != string(encNFD) {
		t.Errorf("NFC and NFD forms canonicalized differently: %s vs %s", encNFC, encNFD)
	}
}

func TestCanonize_DepthLimit(t *testing.T) {
	cfg := config.Default()
	cfg.CanonMaxDepth = 2

	nested := map[string]any{
		"a": map[string]any{
			"b": map[string]any{
				"c": int64(1),
			},
		},
	}

	if _, err := Canonize(nested, cfg); err == nil {
		t.Error("Canonize should reject depth exceeding the configured limit")
	}
}

func TestCanonize_SizeLimit(t *testing.T) {
	cfg := config.Default()
	cfg.CanonMaxBytes = 8

	if _, err := Canonize(strings.Repeat("x", 100), cfg); err == nil {
		t.Error("Canonize should reject output exceeding the configured byte limit")
	}
}

func TestCanonize_ValueInterface(t *testing.T) {
	f := Fraction{Scale: 0, Value: "5"}
	wrapped := map[string]any{"amount": f}

	got, err := Canonize(wrapped, nil)
	if err != nil {
		t.Fatalf("Canonize: %v", err)
	}
	want := `{"amount":{"scale":0,"value":"5"}}`
	if string(got) != want {
		t.Errorf("Canonize = %s, want %s", got, want)
	}
}

func TestJSONToCanonical_SortsKeys(t *testing.T) {
	got, err := JSONToCanonical([]byte(`{"b":1,"a":2}`), nil)
	if err != nil {
		t.Fatalf("JSONToCanonical: %v", err)
	}
	want := `{"a":2,"b":1}`
	if string(got) != want {
		t.Errorf("JSONToCanonical = %s, want %s", got, want)
	}
}

func TestJSONToCanonical_RejectsFloat(t *testing.T) {
	if _, err := JSONToCanonical([]byte(`{"x":1.5}`), nil); err == nil {
		t.Error("JSONToCanonical should reject a floating-point field")
	}
}

func TestJSONToCanonical_RejectsDuplicateKeys(t *testing.T) {
	_, err := JSONToCanonical([]byte(`{"a":1,"a":2}`), nil)
	if !errors.Is(err, ublerr.ErrNonCanonicalizable) {
		t.Fatalf("JSONToCanonical error = %v, want ErrNonCanonicalizable", err)
	}
}

func TestJSONCToCanonical_StripsComments(t *testing.T) {
	input := []byte(`{
		// a comment
		"a": 2,
		"b": 1, /* trailing comma below */
	}`)
	got, err := JSONCToCanonical(input, nil)
	if err != nil {
		t.Fatalf("JSONCToCanonical: %v", err)
	}
	want := `{"a":2,"b":1}`
	if string(got) != want {
		t.Errorf("JSONCToCanonical = %s, want %s", got, want)
	}
}

func TestYAMLToCanonical_MatchesJSON(t *testing.T) {
	yamlText := []byte("a: 2\nb: 1\n")
	jsonText := []byte(`{"a":2,"b":1}`)

	fromYAML, err := YAMLToCanonical(yamlText, nil)
	if err != nil {
		t.Fatalf("YAMLToCanonical: %v", err)
	}
	fromJSON, err := JSONToCanonical(jsonText, nil)
	if err != nil {
		t.Fatalf("JSONToCanonical: %v", err)
	}
	if string(fromYAML) != string(fromJSON) {
		t.Errorf("YAMLToCanonical = %s, want %s", fromYAML, fromJSON)
	}
}

func TestYAMLToCanonical_RejectsFloat(t *testing.T) {
	if _, err := YAMLToCanonical([]byte("x: 1.5\n"), nil); err == nil {
		t.Error("YAMLToCanonical should reject a floating-point scalar")
	}
}

func TestIsCanonical(t *testing.T) {
	canonical := []byte(`{"a":2,"b":1}`)
	if !IsCanonical(canonical, nil) {
		t.Error("IsCanonical should accept already-canonical bytes")
	}

	nonCanonical := []byte(`{"b": 1, "a": 2}`)
	if IsCanonical(nonCanonical, nil) {
		t.Error("IsCanonical should reject bytes with whitespace and unsorted keys")
	}
}

func TestCanonize_UnsupportedType(t *testing.T) {
	type custom struct{ X int }
	if _, err := Canonize(custom{X: 1}, nil); err == nil {
		t.Error("Canonize should reject a type outside the generic value set")
	} else if !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("error = %v, want mention of unsupported type", err)
	}
}

func TestCanonize_ErrorIsNonCanonicalizable(t *testing.T) {
	_, err := Canonize(3.14, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ublerr.ErrNonCanonicalizable) {
		t.Errorf("error should wrap ErrNonCanonicalizable: %v", err)
	}
}
