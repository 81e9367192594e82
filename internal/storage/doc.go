// Package storage provides durable key-value storage for taskdeck.
//
// The CLI persists a single credential between runs. KV abstracts the engine
// holding it:
//
//   - badger: embedded database under ~/.taskdeck/data (default)
//   - redis: shared Redis server, keys namespaced by a prefix
//   - memory: process-local map, nothing survives a restart
//
// Any engine can be wrapped with EncryptedKV to seal values at rest.
package storage
