package entity

// Entity is a synchronizable record identified by a stable external key.
// Version increases with every mutation at the origin.
type Entity interface {
	Key() string
	Version() int
}

// Hierarchical is an entity that may reference a parent in its own collection.
// AttachChild is only ever called by Group; origin transports never populate children.
type Hierarchical[T any] interface {
	Entity
	// ParentKey returns the key of the parent entity, or "" for roots.
	ParentKey() string
	// AttachChild records child under its own key.
	AttachChild(child T)
}

// Index builds a key to entity mapping. Later items win on duplicate keys.
func Index[T Entity](items []T) map[string]T {
	index := make(map[string]T, len(items))
	for _, item := range items {
		index[item.Key()] = item
	}
	return index
}
