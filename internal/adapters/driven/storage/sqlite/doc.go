// Package sqlite provides the SQLite-backed implementation of the
// DocumentStore driven port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. A single database
// connection holds documents, their embedded chunks and the chat history.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Chunk embeddings are stored as little-endian
// float32 blobs; chat message sources are stored as JSON.
//
// # Data Location
//
// By default, the database is stored at ~/.docuchat/data/docuchat.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
