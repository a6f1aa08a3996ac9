// Package models defines domain entities and persistence interfaces for the vibemix playlist generation service.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs produced by the pipeline
//   - [Song] : A single "Artist - Title" entry
//   - [Draft] : An in-memory, not-yet-necessarily-persisted playlist
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [User] : Accounts that own saved playlists
//   - [PersistedPlaylist] : Saved playlists with their ordered song lists
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
