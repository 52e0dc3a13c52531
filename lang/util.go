package lang

import (
	"maps"
	"reflect"
	"slices"
)

// sortedKeys returns the keys of m in lexical order.
func sortedKeys[T any](m map[string]T) []string {
	return slices.Sorted(maps.Keys(m))
}

func resultTypeName(value any) string {
	if value == nil {
		return "nil"
	}

	return reflect.TypeOf(value).String()
}
