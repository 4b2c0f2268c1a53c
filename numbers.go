package cart

import "encoding/json"

// restoreNumbers replaces json.Number values with int64 when the literal is
// integral and float64 otherwise, walking nested maps and slices. Restored
// metadata keeps integer IDs and counters exact instead of widening them to
// float64.
func restoreNumbers(value any) any {
	switch v := value.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case map[string]any:
		for key, nested := range v {
			v[key] = restoreNumbers(nested)
		}
		return v
	case []any:
		for i, nested := range v {
			v[i] = restoreNumbers(nested)
		}
		return v
	default:
		return value
	}
}
