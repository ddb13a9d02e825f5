// Package agent contains the turn orchestration machinery of DialogMesh.
// The package focuses on four concerns:
//
//  1. Bounded iteration control (Looper)
//  2. Per-turn and per-session data (State)
//  3. The generation/parse/dispatch loop itself (Agent)
//  4. Session affinity and lifecycle (Manager)
//
// Design principles:
//   - Recover, don't abort: parse failures and tool failures become
//     observations fed back to the model; only persistence failures
//     propagate to the caller
//   - Strict per-session serialization: one live Agent per session, guarded
//     by its own lock, while distinct sessions run fully in parallel
//   - Minimal hidden global state: collaborators (generation client, tool
//     registry, record store) are wired explicitly at construction
//
// The package intentionally keeps parsing, prompt assembly and provider
// specifics in their respective packages to avoid cyclic deps.
package agent
