// Package openapi exposes the loader and parser contracts used to seed an
// editor from an OpenAPI document. A Parser lists each operation's parameters
// and form-urlencoded body fields; ModelFromOperation turns either set into a
// params.Model. Implementations live under internal/openapi so kin-openapi
// types never leak to callers.
package openapi
