// Package storage defines the persistence contract used by carts to load and
// save serialized snapshots, plus two small implementations.
//
// Responsibilities:
//   - Store only loads/saves one opaque string value for one key.
//   - Serialization, key derivation, and retry policy stay with the caller; the
//     cart package serializes snapshots as JSON and keys them `cart-<id>`.
//   - MemoryStore is intended for tests and examples; FileStore keeps one file
//     per key inside a directory, the on-disk analogue of browser localStorage.
//
// Keys are opaque to the stores, but FileStore rejects keys that would escape
// its directory.
package storage
