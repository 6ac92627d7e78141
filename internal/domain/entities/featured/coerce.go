package featured

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// CoercePool turns loosely typed values into image ids. Integers, integral
// floats and numeric strings are kept. Anything else, including zero and
// negative numbers, is dropped rather than stored as a bogus id.
func CoercePool(values []any) ImagePool {
	pool := make(ImagePool, 0, len(values))
	for _, v := range values {
		if id, ok := coerceID(v); ok {
			pool = append(pool, id)
		}
	}
	return pool
}

func coerceID(v any) (ImageID, bool) {
	var n int64
	switch val := v.(type) {
	case int:
		n = int64(val)
	case int32:
		n = int64(val)
	case int64:
		n = val
	case ImageID:
		n = int64(val)
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) || val != math.Trunc(val) || val >= math.MaxInt64 {
			return 0, false
		}
		n = int64(val)
	case json.Number:
		if parsed, err := val.Int64(); err == nil {
			n = parsed
			break
		}
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		return coerceID(f)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if n <= 0 {
		return 0, false
	}
	return ImageID(n), true
}

// ParsePool decodes a JSON array into a pool. Input that is not a JSON array
// yields an empty pool and ok=false.
func ParsePool(raw []byte) (ImagePool, bool) {
	values, ok := decodeArray(raw)
	if !ok {
		return ImagePool{}, false
	}
	return CoercePool(values), true
}

// ParsePoolJSON is ParsePool for the hidden form field value
func ParsePoolJSON(raw string) (ImagePool, bool) {
	return ParsePool([]byte(raw))
}

// ParseContentTypes decodes a persisted JSON array of names. Malformed input
// is treated as an empty set.
func ParseContentTypes(raw []byte) ContentTypes {
	values, ok := decodeArray(raw)
	if !ok {
		return NewContentTypes()
	}
	names := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			names = append(names, s)
		}
	}
	return NewContentTypes(SanitizeContentTypes(names)...)
}

func decodeArray(raw []byte) ([]any, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	var values []any
	if err := dec.Decode(&values); err != nil {
		return nil, false
	}
	if values == nil {
		return nil, false
	}
	return values, true
}

var markupPattern = regexp.MustCompile(`<[^>]*>`)

// SanitizeContentTypes cleans submitted type names: markup and control
// characters are stripped, whitespace trimmed, empties and duplicates dropped.
func SanitizeContentTypes(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		clean := markupPattern.ReplaceAllString(name, "")
		clean = strings.Map(func(r rune) rune {
			if unicode.IsControl(r) {
				return -1
			}
			return r
		}, clean)
		clean = strings.TrimSpace(clean)
		if clean == "" {
			continue
		}
		if _, dup := seen[clean]; dup {
			continue
		}
		seen[clean] = struct{}{}
		out = append(out, clean)
	}
	return out
}
