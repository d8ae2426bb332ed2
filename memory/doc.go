// Package memory implements the working-memory persistent/transient
// duality (spec.md §4.A): a Persistent snapshot is an immutable,
// freely-shareable value; a Transient is a single-threaded mutable view
// obtained from a Persistent and converted back at the end of one
// insert/retract/fire call.
//
// This mirrors the teacher's store.Store write/read split and the
// single-writer discipline documented on engine.Engine.Run — retargeted
// from SQLite rows to in-process maps, since the core has no persisted
// state in scope (spec.md §6).
package memory
