package reconcile

import (
	"sort"

	"refsync/core/errors"
)

// TopoSort orders keys so that parents precede their children.
//
// Keys are walked breadth-first, children re-enqueued every time their parent
// is visited, and each key is assigned the latest traversal position at which
// it was seen. Sorting by that position places every child after each of its
// ancestors. children may return keys outside of keys; those are traversed but
// not returned. Cyclic input fails with a CycleError.
func TopoSort(keys []string, children func(key string) []string) ([]string, error) {
	if err := detectCycle(keys, children); err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		wanted[key] = struct{}{}
	}

	counter := make(map[string]int, len(keys))
	var discovered []string

	queue := append([]string(nil), keys...)
	depth := 0
	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]

		if prev, seen := counter[key]; !seen {
			discovered = append(discovered, key)
			counter[key] = depth
		} else if depth > prev {
			counter[key] = depth
		}
		depth++

		queue = append(queue, children(key)...)
	}

	ordered := make([]string, 0, len(keys))
	for _, key := range discovered {
		if _, ok := wanted[key]; ok {
			ordered = append(ordered, key)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return counter[ordered[i]] < counter[ordered[j]]
	})
	return ordered, nil
}

func detectCycle(keys []string, children func(key string) []string) error {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int)

	var visit func(key string) error
	visit = func(key string) error {
		switch state[key] {
		case visiting:
			return &errors.CycleError{Key: key}
		case done:
			return nil
		}
		state[key] = visiting
		for _, child := range children(key) {
			if err := visit(child); err != nil {
				return err
			}
		}
		state[key] = done
		return nil
	}

	for _, key := range keys {
		if err := visit(key); err != nil {
			return err
		}
	}
	return nil
}
