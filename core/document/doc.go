// Package document provides a typed block tree and its markdown renderer.
//
// Nodes form a closed set of kinds. Container kinds (paragraphs, list items,
// to-dos, toggles, quotes) implement HasChildren; asking a leaf kind for
// children fails with errors.ErrChildrenUnsupported.
//
// # Rendering
//
// RenderChain threads a Context through siblings. The counter restarts on any
// node that is not Countable, so ordered lists restart after an interruption:
//
//	out, err := document.RenderNodes([]document.Node{one, two, para, three})
//	// 1. One
//	// 2. Two
//	// Break
//	// 1. Three
//
// Inline runs apply their markers in a fixed order (bold, italic,
// strikethrough, underline, code, color) so a bold italic run renders as
// "_**text**_".
package document
