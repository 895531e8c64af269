// Package store implements the local record store behind the kedoo dashboard.
//
// Records are kept as JSON documents under fixed keys (see [KeyUsers], [KeyReleases], [KeyTickets],
// [KeyTrash], [KeyCurrentUser], [KeyTheme]), the same layout the browser dashboard used in local storage.
// The [Store] reads and rewrites whole collections; it offers no indexing or query beyond an owner filter.
//
// # Backends
//
// A [Store] is built on an injected [Backend]:
//   - [MemoryBackend] : process-local map, used by tests
//   - [FileBackend] : one JSON object on disk, shaped like a local storage dump
//   - [SQLiteBackend] : kv table managed by the embedded SQL migrations
//   - [RedisBackend] : namespaced keys with optimistic WATCH/MULTI transactions
//
// Every backend runs [Backend.Update] callbacks atomically: either every write is applied or none is.
// Moving a release between the active list and the trash is one such callback, so a release is never in
// both collections and never lost between them.
//
// # Schema revisions
//
// Documents written by the browser dashboard are revision 1. [Store.Migrate] upgrades them to the current
// revision and records it under [KeySchemaVersion].
package store
