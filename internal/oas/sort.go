package oas

import "sort"

// SortedPaths returns the document path templates in lexical order. Map
// iteration order would otherwise leak into violation ordering and break
// the idempotence guarantee of an evaluation.
func SortedPaths(doc *Document) []string {
	if doc == nil || len(doc.Paths) == 0 {
		return nil
	}
	paths := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// SortedKeys returns the map keys in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
