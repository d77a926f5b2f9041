// ABOUTME: Package store keeps all room state in memory for the process lifetime.
// ABOUTME: Rooms, append-only logs, per-room busy flags, and a change feed for the UI.
//
// The busy flag is a test-and-set owned by the store: exactly one turn may
// be in flight per room, and rooms never block each other. Readers always
// get snapshots; the store's internals are never shared.
package store
