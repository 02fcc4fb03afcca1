// Package sqlite persists raw search pages in ~/.acqscope/data/cache.db
// using the pure Go modernc.org/sqlite driver.
//
// The schema lives in numbered migrations under migrations/, applied in
// order on open and recorded in schema_migrations.
package sqlite
