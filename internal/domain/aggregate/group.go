// Package aggregate implements the pure grouping, filtering and summary
// transforms the dashboard views are built from.
package aggregate

// Group is a set of items sharing one key, in input order.
type Group[T any] struct {
	Key   string
	Items []T
}

// GroupBy partitions items by key. Groups appear in order of first key
// occurrence and every item lands in exactly one group.
func GroupBy[T any](items []T, key func(T) string) []Group[T] {
	if len(items) == 0 {
		return nil
	}
	index := make(map[string]int)
	groups := make([]Group[T], 0)
	for _, it := range items {
		k := key(it)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[T]{Key: k})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}
