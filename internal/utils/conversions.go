// Package utils holds small claim-decoding helpers. JSON claim sets
// arrive as []any / map[string]any; these narrow them without panicking
// on foreign shapes.
package utils

func ToStringSlice(slice []any) []string {
	stringSlice := make([]string, 0)
	for _, v := range slice {
		if s, ok := v.(string); ok {
			stringSlice = append(stringSlice, s)
		}
	}
	return stringSlice
}

func ToMapSlice(slice []any) []map[string]any {
	mapSlice := make([]map[string]any, 0)
	for _, v := range slice {
		if m, ok := v.(map[string]any); ok {
			mapSlice = append(mapSlice, m)
		}
	}
	return mapSlice
}

func String(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func Bool(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func Int(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
