// Package sqlite stores the chunk table in a single SQLite file.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// The chunks table is keyed by position, the row index shared with the vector
// index. The index_meta table holds the generation stamp that pairs the file
// with a particular index artifact.
//
// # Journal Mode
//
// The database uses the rollback journal rather than WAL so that a closed
// database is exactly one file and can be renamed into place.
package sqlite
