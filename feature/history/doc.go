// Package history keeps one row per sync run through gorm.
//
// Rows are written after a run finishes and are only read for display; no
// sync decision depends on them.
package history
