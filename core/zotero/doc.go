// Package zotero is the origin side of the library syncs: a read-only client
// for the Zotero web API (version 3) and the item and collection records it
// returns.
//
// Listings are paged with start and limit; the All* helpers keep requesting
// pages until one comes back short. The *Grouped helpers attach children to
// their parents using entity.Group.
//
//	c := zotero.New(cfg.Zotero)
//	items, err := c.AllItemsGrouped(ctx, true)
//	key := zotero.GenerateCiteKey(items[0]) // "smithShaderbasedAntialiasedDashed2020"
package zotero
