// Package entity defines the records the sync engine reconciles and the
// grouping algorithms that turn flat origin collections into forests.
//
// # Grouping
//
// Origin transports return flat lists where children reference their parent by
// key. Group attaches each child to its parent:
//
//	roots := entity.Group(collections, true) // forest
//	flat := entity.Group(collections, false) // every item, children populated
//
// # Ancestor sets
//
// AncestorSets answers "which containers does this node belong to, including
// inherited ones". Cyclic parent chains are rejected with errors.ErrCycle.
package entity
