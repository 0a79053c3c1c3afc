package render

import (
	theme "github.com/goliatone/go-theme"
)

// RenderOptions carry per-request data that renderers use without touching the
// editor state.
type RenderOptions struct {
	// ID prefixes element ids so several editors can share a page.
	ID string
	// Title is shown above the rows when set.
	Title string
	// Name is the form field name carrying the encoded value on submit.
	// Empty means no form wrapper is emitted.
	Name string
	// Action and Method configure the form wrapper when Name is set.
	Action string
	Method string
	// Hidden inputs emitted inside the form wrapper (CSRF tokens and the like).
	Hidden map[string]string
	// Subset restricts the rendered rows.
	Subset FieldSubset
	// Errors are server-side messages keyed by parameter name or by a path
	// such as "/query/limit". See MapErrorPayload.
	Errors map[string][]string

	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler

	Theme *theme.RendererConfig
}
