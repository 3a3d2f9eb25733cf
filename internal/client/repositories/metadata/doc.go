// Package metadata is the client-durable key/value store behind the session
// token and the remember-me preferences.
//
// # Overview
//
// Repository has interchangeable backends:
//
//   - SQLiteRepository: local SQLite database (default)
//   - FileRepository: single AES-GCM encrypted JSON file
//   - RedisRepository: shared Redis instance, keys namespaced by prefix
//   - MemoryRepository: process memory, for ephemeral sessions and tests
//
// Get of a missing key returns (nil, nil). Delete of a missing key is not an
// error. SetMany and Delete with several keys apply all-or-nothing.
package metadata
