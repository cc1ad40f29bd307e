// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package canon

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/atomicledger/ledger/lib/config"
	"github.com/atomicledger/ledger/lib/ublerr"
)

// JSONToCanonical parses text as JSON (numbers preserved exactly, no
// float coercion) and returns its canonical encoding.
func JSONToCanonical(text []byte, cfg *config.Config) ([]byte, error) {
	value, err := decodeJSON(text)
	if err != nil {
		return nil, err
	}
	return Canonize(value, cfg)
}

// JSONCToCanonical strips `//` and `/* */` comments and trailing
// commas from text (JSON-with-comments), then canonicalizes the
// resulting JSON exactly as [JSONToCanonical] would.
func JSONCToCanonical(text []byte, cfg *config.Config) ([]byte, error) {
	stripped := jsonc.ToJSON(text)
	return JSONToCanonical(stripped, cfg)
}

// YAMLToCanonical parses text as YAML and returns its canonical
// encoding. YAML's richer type set is narrowed to the canonical value
// set during decode: a mapping key that is not a string, and any
// floating point scalar, is rejected.
func YAMLToCanonical(text []byte, cfg *config.Config) ([]byte, error) {
	var raw any
	if err := yaml.Unmarshal(text, &raw); err != nil {
		return nil, fmt.Errorf("canon: %w: yaml parse: %v", ublerr.ErrNonCanonicalizable, err)
	}
	generic, err := fromYAML(raw)
	if err != nil {
		return nil, err
	}
	return Canonize(generic, cfg)
}

func decodeJSON(text []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()
	value, err := decodeJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("canon: %w: trailing data after JSON value", ublerr.ErrNonCanonicalizable)
	}
	return value, nil
}

// decodeJSONValue walks the token stream by hand rather than decoding
// straight into map[string]any, since encoding/json's map decode is
// last-wins on a repeated key. Spec §3.1 makes object keys unique; a
// repeated key makes the input NonCanonicalizable rather than silently
// picking the last occurrence.
func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("canon: %w: json parse: %v", ublerr.ErrNonCanonicalizable, err)
	}
	return decodeJSONToken(dec, tok)
}

func decodeJSONToken(dec *json.Decoder, tok json.Token) (any, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeJSONObject(dec)
		case '[':
			return decodeJSONArray(dec)
		default:
			return nil, fmt.Errorf("canon: %w: unexpected delimiter %q", ublerr.ErrNonCanonicalizable, t)
		}
	default:
		// nil, bool, string, json.Number.
		return tok, nil
	}
}

func decodeJSONObject(dec *json.Decoder) (any, error) {
	out := make(map[string]any)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("canon: %w: json parse: %v", ublerr.ErrNonCanonicalizable, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("canon: %w: object key is not a string", ublerr.ErrNonCanonicalizable)
		}
		if _, exists := out[key]; exists {
			return nil, fmt.Errorf("canon: %w: duplicate object key %q", ublerr.ErrNonCanonicalizable, key)
		}
		value, err := decodeJSONValue(dec)
		if err != nil {
			return nil, err
		}
		out[key] = value
	}
	if _, err := dec.Token(); err != nil { // consume closing '}'
		return nil, fmt.Errorf("canon: %w: json parse: %v", ublerr.ErrNonCanonicalizable, err)
	}
	return out, nil
}

func decodeJSONArray(dec *json.Decoder) (any, error) {
	out := []any{}
	for dec.More() {
		value, err := decodeJSONValue(dec)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	if _, err := dec.Token(); err != nil { // consume closing ']'
		return nil, fmt.Errorf("canon: %w: json parse: %v", ublerr.ErrNonCanonicalizable, err)
	}
	return out, nil
}

// fromYAML converts yaml.v3's decode tree (map[string]any,
// map[any]any, []any, and scalars) into this package's generic value
// set.
func fromYAML(v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case bool, string:
		return val, nil
	case int:
		return val, nil
	case int64:
		return val, nil
	case uint64:
		return val, nil
	case float32, float64:
		return nil, fmt.Errorf("canon: %w: floating point values are not permitted, use Fraction", ublerr.ErrNonCanonicalizable)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			converted, err := fromYAML(item)
			if err != nil {
				return nil, err
			}
			out[k] = converted
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("canon: %w: yaml mapping key %v is not a string", ublerr.ErrNonCanonicalizable, k)
			}
			converted, err := fromYAML(item)
			if err != nil {
				return nil, err
			}
			out[key] = converted
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			converted, err := fromYAML(item)
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	default:
		return nil, fmt.Errorf("canon: %w: unsupported yaml value type %T", ublerr.ErrNonCanonicalizable, v)
	}
}
