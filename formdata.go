// Package formdata is the entry point for editing
// application/x-www-form-urlencoded values as a list of parameters. It
// re-exports the common constructors so simple callers need a single import.
package formdata

import (
	"context"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	internalLoader "github.com/goliatone/go-formdata/internal/openapi/loader"
	internalParser "github.com/goliatone/go-formdata/internal/openapi/parser"
	"github.com/goliatone/go-formdata/pkg/editor"
	pkgopenapi "github.com/goliatone/go-formdata/pkg/openapi"
	"github.com/goliatone/go-formdata/pkg/orchestrator"
	"github.com/goliatone/go-formdata/pkg/params"
	"github.com/goliatone/go-formdata/pkg/render"
	"github.com/goliatone/go-formdata/pkg/renderers/html"
)

// Model aliases params.Model.
type Model = params.Model

// Record aliases params.Record.
type Record = params.Record

// RenderOptions aliases render.RenderOptions.
type RenderOptions = render.RenderOptions

// FieldSubset aliases render.FieldSubset for callers rendering a subset of the
// rows.
type FieldSubset = render.FieldSubset

// Decode parses an encoded string into a model. It never fails.
func Decode(value string) Model {
	return params.Decode(value)
}

// Encode serialises the enabled records of model.
func Encode(model Model) string {
	return params.Encode(model)
}

// NewEditor constructs an editor seeded with value.
func NewEditor(value string, options ...editor.Option) *editor.Editor {
	ed := editor.New(options...)
	ed.SetEncoded(value)
	return ed
}

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	return internalLoader.New(pkgopenapi.NewLoaderOptions(options...))
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	return internalParser.New(pkgopenapi.NewParserOptions(options...))
}

// NewOrchestrator exposes the orchestrator constructor.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// RenderHTML renders ed with the built-in HTML renderer.
func RenderHTML(ctx context.Context, ed *editor.Editor, opts RenderOptions, options ...html.Option) ([]byte, error) {
	renderer, err := html.New(options...)
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, ed, opts)
}

// GenerateHTML loads the OpenAPI source and renders an editor for the query
// parameters of the operation.
func GenerateHTML(ctx context.Context, source pkgopenapi.Source, operationID string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Source:      source,
		OperationID: operationID,
	})
}

// WithThemeSelector passes a go-theme selector through to the orchestrator.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// EmbeddedTemplates exposes the built-in HTML templates so callers can copy or
// extend them.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// EmbeddedAssets exposes the default stylesheet.
//
// Typical mount:
//
//	mux.Handle("/formdata/",
//	  http.StripPrefix("/formdata/",
//	    http.FileServerFS(formdata.EmbeddedAssets()),
//	  ),
//	)
func EmbeddedAssets() fs.FS {
	return html.AssetsFS()
}
