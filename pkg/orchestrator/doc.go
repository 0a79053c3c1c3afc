// Package orchestrator wires the loader, parser, model derivation, editor and
// renderer stages into a single call for callers that start from an OpenAPI
// document and want a rendered parameter editor.
package orchestrator
