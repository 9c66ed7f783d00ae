// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to open
// either a sqlite file (the default, suited to a local CLI) or a MySQL server.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table using PRAGMA table_info on
// sqlite and SHOW COLUMNS on MySQL. MissingColumns compares that list with
// the columns a model expects, which the run history uses after migrating.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "sync_runs", []string{"id", "sync"})
package database
