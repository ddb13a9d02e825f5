// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. It also offers a richer DialogMeshLogger with contextual
// helpers (session, conversation, component) and domain specific logging
// helpers for tool calls, model calls and turns.
package logging
