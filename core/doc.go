// Package core provides the foundational domain types and collaborator
// interfaces used by DialogMesh. It defines the core abstractions for:
//
//   - Messages (role/content pairs exchanged with generation services)
//   - Decisions (the thought/action/observation unit of one loop iteration)
//   - Final answers and turn results returned to callers
//   - ActionInput (immutable value passed to tools)
//   - Pluggable record store and user-context collaborators
//
// The package intentionally keeps implementation concerns (persistence,
// prompt assembly, the orchestration loop itself) out of scope, exposing
// small interfaces so the surrounding CRUD/transport layers can supply
// their own backends.
package core
