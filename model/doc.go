// Package model defines the generation-service client abstraction consumed
// by the orchestration loop, plus a scripted in-memory implementation for
// tests. Concrete provider adapters live in the openai and anthropic
// subpackages; each aggregates any internal streaming into the single string
// the loop expects.
package model
