// Package repo contains in-memory implementations of repository interfaces.
//
// This package implements the ports defined in src/core/ports. Form sessions
// live only for the lifetime of the process; nothing is written to disk.
//
// Naming convention:
//   - Files: <entity>_repository.go
//   - Types: Memory<Entity>Repository
package repo
