// Package library mirrors a reference library into workspace databases.
//
// Two one-way syncs are provided, both running on the reconcile engine with
// the version policy:
//
//   - RefsSync writes one page per top-level item into the references
//     database, with cite key, bibliographic fields, tags and the names of
//     every collection the item belongs to directly or through a parent.
//   - CollectionsSync writes one page per collection into the collections
//     database, parents first, linking each page to its parent page.
//
// Both check the destination schema before reading it and archive pages whose
// origin record is gone. Templates creates databases with the required schema.
package library
