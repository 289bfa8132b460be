// Package orchestrator wires the config → rules → transformer → theme →
// renderer pipeline behind a single Generate call.
package orchestrator
