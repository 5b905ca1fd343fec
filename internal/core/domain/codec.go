package domain

import "time"

// Helpers for reading loosely typed row documents. The row store hands
// back map[string]any with whatever numeric types its JSON decoding
// produced, so every accessor tolerates the common variants.

func docString(doc map[string]any, key string) string {
	if v, ok := doc[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func docStringPtr(doc map[string]any, key string) *string {
	if v, ok := doc[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return &s
		}
	}
	return nil
}

func docInt(doc map[string]any, key string) int {
	if v, ok := doc[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		case float32:
			return int(n)
		}
	}
	return 0
}

func docFloat(doc map[string]any, key string) float64 {
	if v, ok := doc[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case float32:
			return float64(n)
		case int:
			return float64(n)
		case int64:
			return float64(n)
		}
	}
	return 0
}

func docBool(doc map[string]any, key string) bool {
	if v, ok := doc[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

func docStrings(doc map[string]any, key string) []string {
	v, ok := doc[key]
	if !ok {
		return nil
	}
	switch items := v.(type) {
	case []string:
		out := make([]string, len(items))
		copy(out, items)
		return out
	case []any:
		out := make([]string, 0, len(items))
		for _, it := range items {
			if s, ok := it.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func docMap(doc map[string]any, key string) map[string]any {
	if v, ok := doc[key]; ok {
		if m, ok := v.(map[string]any); ok {
			return m
		}
	}
	return nil
}

// docTime parses an RFC 3339 timestamp field. A missing or malformed
// value yields the zero time rather than an error; timestamps are
// informational, not load-bearing, except as an ordering tie-break.
func docTime(doc map[string]any, key string) time.Time {
	s := docString(doc, key)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func timeDoc(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
