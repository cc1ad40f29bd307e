// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package canon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/atomicledger/ledger/lib/config"
	"github.com/atomicledger/ledger/lib/ublerr"
)

// Canonize encodes value to canonical bytes under the limits in cfg. A
// nil cfg uses [config.Default].
func Canonize(value any, cfg *config.Config) ([]byte, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	var out bytes.Buffer
	w := &writer{maxDepth: cfg.CanonMaxDepth, visiting: make(map[any]bool)}
	if err := w.write(value, &out, 0); err != nil {
		return nil, err
	}
	if int64(out.Len()) > cfg.CanonMaxBytes {
		return nil, fmt.Errorf("canon: %w: encoded size %d exceeds limit %d", ublerr.ErrSizeLimit, out.Len(), cfg.CanonMaxBytes)
	}
	return out.Bytes(), nil
}

// IsCanonical reports whether b is already the canonical encoding of
// the JSON value it represents: parsing b and re-canonicalizing
// produces exactly b again.
func IsCanonical(b []byte, cfg *config.Config) bool {
	reparsed, err := JSONToCanonical(b, cfg)
	if err != nil {
		return false
	}
	return bytes.Equal(reparsed, b)
}

// writer walks a value tree and emits canonical bytes, tracking
// recursion depth and the set of composite values currently on the
// call stack (for cycle detection).
type writer struct {
	maxDepth int
	visiting map[any]bool
}

func (w *writer) write(v any, out *bytes.Buffer, depth int) error {
	if depth > w.maxDepth {
		return fmt.Errorf("canon: %w: depth %d exceeds limit %d", ublerr.ErrNonCanonicalizable, depth, w.maxDepth)
	}

	if cv, ok := v.(Value); ok {
		return w.write(cv.CanonicalValue(), out, depth)
	}

	switch val := v.(type) {
	case nil:
		out.WriteString("null")
		return nil
	case bool:
		if val {
			out.WriteString("true")
		} else {
			out.WriteString("false")
		}
		return nil
	case string:
		return writeString(val, out)
	case json.Number:
		return writeJSONNumber(val, out)
	case int:
		out.WriteString(strconv.FormatInt(int64(val), 10))
		return nil
	case int8, int16, int32, int64:
		out.WriteString(fmt.Sprintf("%d", val))
		return nil
	case uint, uint8, uint16, uint32, uint64:
		out.WriteString(fmt.Sprintf("%d", val))
		return nil
	case float32, float64:
		return fmt.Errorf("canon: %w: floating point values are not permitted, use Fraction", ublerr.ErrNonCanonicalizable)
	case map[string]any:
		return w.writeObject(val, out, depth)
	case []any:
		return w.writeArray(val, out, depth)
	default:
		return fmt.Errorf("canon: %w: unsupported value type %T", ublerr.ErrNonCanonicalizable, v)
	}
}

func (w *writer) writeObject(obj map[string]any, out *bytes.Buffer, depth int) error {
	if w.visiting[objectKey(obj)] {
		return fmt.Errorf("canon: %w: cyclic object", ublerr.ErrNonCanonicalizable)
	}
	w.visiting[objectKey(obj)] = true
	defer delete(w.visiting, objectKey(obj))

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			out.WriteByte(',')
		}
		if err := writeString(k, out); err != nil {
			return err
		}
		out.WriteByte(':')
		if err := w.write(obj[k], out, depth+1); err != nil {
			return err
		}
	}
	out.WriteByte('}')
	return nil
}

func (w *writer) writeArray(arr []any, out *bytes.Buffer, depth int) error {
	out.WriteByte('[')
	for i, item := range arr {
		if i > 0 {
			out.WriteByte(',')
		}
		if err := w.write(item, out, depth+1); err != nil {
			return err
		}
	}
	out.WriteByte(']')
	return nil
}

// objectKey returns a stable identity for a map value so the cycle
// guard can key off it. Go maps are not comparable, so we key off the
// address of the underlying data via a pointer-sized proxy: the map
// header itself is comparable when converted to an interface holding
// the same map, so we key by its formatted pointer representation.
func objectKey(obj map[string]any) any {
	return fmt.Sprintf("%p", obj)
}

func writeString(s string, out *bytes.Buffer) error {
	normalized, err := normalizeNFC(s)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(normalized)
	if err != nil {
		return fmt.Errorf("canon: %w: %v", ublerr.ErrNonCanonicalizable, err)
	}
	out.Write(encoded)
	return nil
}

func normalizeNFC(s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("canon: %w: string is not valid UTF-8", ublerr.ErrNonCanonicalizable)
	}
	return norm.NFC.String(s), nil
}

func writeJSONNumber(n json.Number, out *bytes.Buffer) error {
	s := n.String()
	for _, r := range s {
		if r == '.' || r == 'e' || r == 'E' {
			return fmt.Errorf("canon: %w: floating point values are not permitted, use Fraction", ublerr.ErrNonCanonicalizable)
		}
	}
	// Validate it is a well-formed integer with no leading zeros.
	var formatted string
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		formatted = strconv.FormatInt(i, 10)
	} else if u, uerr := strconv.ParseUint(s, 10, 64); uerr == nil {
		formatted = strconv.FormatUint(u, 10)
	}
	if formatted != s {
		return fmt.Errorf("canon: %w: %q is not a valid integer", ublerr.ErrNonCanonicalizable, s)
	}
	out.WriteString(s)
	return nil
}
