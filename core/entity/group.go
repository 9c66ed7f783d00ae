package entity

import (
	"refsync/core/errors"

	mapset "github.com/deckarep/golang-set/v2"
)

// Group attaches every item whose parent is present in items to that parent.
// With deleteChildren the attached items are removed from the top-level result,
// leaving a forest; otherwise they appear both nested and at the top level.
// The result keeps first-seen order of keys.
func Group[T Hierarchical[T]](items []T, deleteChildren bool) []T {
	index := make(map[string]T, len(items))
	order := make([]string, 0, len(items))
	for _, item := range items {
		if _, seen := index[item.Key()]; !seen {
			order = append(order, item.Key())
		}
		index[item.Key()] = item
	}

	children := mapset.NewThreadUnsafeSet[string]()
	for _, key := range order {
		item := index[key]
		parentKey := item.ParentKey()
		if parentKey == "" || parentKey == key {
			continue
		}
		if parent, ok := index[parentKey]; ok {
			parent.AttachChild(item)
			children.Add(key)
		}
	}

	result := make([]T, 0, len(order))
	for _, key := range order {
		if deleteChildren && children.Contains(key) {
			continue
		}
		result = append(result, index[key])
	}
	return result
}

// AncestorSets returns, for every item, the keys of all its transitive ancestors
// present in items. Roots map to an empty set. A parent chain that loops back on
// itself yields a CycleError.
func AncestorSets[T Hierarchical[T]](items []T) (map[string]mapset.Set[string], error) {
	index := Index(items)
	sets := make(map[string]mapset.Set[string], len(index))

	for key := range index {
		ancestors := mapset.NewThreadUnsafeSet[string]()
		current := index[key]
		for {
			parentKey := current.ParentKey()
			parent, ok := index[parentKey]
			if parentKey == "" || !ok {
				break
			}
			if parentKey == key || ancestors.Contains(parentKey) {
				return nil, &errors.CycleError{Key: key}
			}
			ancestors.Add(parentKey)
			current = parent
		}
		sets[key] = ancestors
	}

	return sets, nil
}

// Lineage returns key together with its ancestors.
func Lineage(sets map[string]mapset.Set[string], key string) mapset.Set[string] {
	lineage := mapset.NewThreadUnsafeSet(key)
	if ancestors, ok := sets[key]; ok {
		lineage = lineage.Union(ancestors)
	}
	return lineage
}
