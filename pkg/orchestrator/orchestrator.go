package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"

	theme "github.com/goliatone/go-theme"
	"github.com/sirupsen/logrus"

	internalLoader "github.com/goliatone/go-formdata/internal/openapi/loader"
	internalParser "github.com/goliatone/go-formdata/internal/openapi/parser"
	"github.com/goliatone/go-formdata/pkg/editor"
	pkgopenapi "github.com/goliatone/go-formdata/pkg/openapi"
	"github.com/goliatone/go-formdata/pkg/params"
	"github.com/goliatone/go-formdata/pkg/render"
	"github.com/goliatone/go-formdata/pkg/renderers/html"
)

const defaultRendererName = "html"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom OpenAPI loader.
func WithLoader(loader pkgopenapi.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser injects a custom OpenAPI parser.
func WithParser(parser pkgopenapi.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithModelTransformer registers a Transformer that runs on the derived model
// before the editor is built.
func WithModelTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithEditorOptions sets the policy applied to every editor the orchestrator
// builds.
func WithEditorOptions(options ...editor.Option) Option {
	return func(o *Orchestrator) {
		o.editorOptions = append(o.editorOptions, options...)
	}
}

// WithThemeSelector resolves a go-theme selection per request.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithThemeFallbacks overrides the partials used when the theme manifest does
// not provide them.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = fallbacks
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates the pipeline from OpenAPI document to rendered
// editor. Missing dependencies get the built-in implementations (file/fs/URL
// loader, kin-openapi parser, HTML renderer).
type Orchestrator struct {
	loader          pkgopenapi.Loader
	parser          pkgopenapi.Parser
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	editorOptions   []editor.Option
	themeSelector   theme.ThemeSelector
	themeFallbacks  map[string]string
	logger          logrus.FieldLogger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to render an editor for an OpenAPI
// operation.
type Request struct {
	// Source identifies where the OpenAPI document lives. Optional when Document
	// is supplied.
	Source pkgopenapi.Source

	// Document allows callers to bypass the loader.
	Document *pkgopenapi.Document

	// OperationID selects the operation whose parameters are edited.
	OperationID string

	// ModelOptions select which parameters become records (query parameters
	// by default).
	ModelOptions []pkgopenapi.ModelOption

	// Value is an encoded string applied over the derived model. See Prefill.
	Value string

	// Renderer names the renderer to use. Empty falls back to the default.
	Renderer string

	// ThemeName and ThemeVariant are handed to the theme selector.
	ThemeName    string
	ThemeVariant string

	// RenderOptions are passed through to the renderer. A resolved theme
	// replaces RenderOptions.Theme only when it is nil.
	RenderOptions render.RenderOptions
}

// Generate runs the whole pipeline and returns the rendered bytes.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	ed, err := o.Editor(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	opts := req.RenderOptions
	if opts.Theme == nil {
		cfg, err := o.resolveTheme(req)
		if err != nil {
			return nil, err
		}
		opts.Theme = cfg
	}

	output, err := renderer.Render(ctx, ed, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Editor runs the pipeline up to the editor, for callers that drive their own
// rendering or mutate the editor first.
func (o *Orchestrator) Editor(ctx context.Context, req Request) (*editor.Editor, error) {
	model, err := o.Model(ctx, req)
	if err != nil {
		return nil, err
	}
	if req.Value != "" {
		model = Prefill(model, req.Value)
	}

	ed := editor.New(append([]editor.Option{editor.WithLogger(o.logger)}, o.editorOptions...)...)
	ed.SetModel(model)
	return ed, nil
}

// Model loads and parses the document and derives the parameter model of the
// requested operation, applying the configured transformer.
func (o *Orchestrator) Model(ctx context.Context, req Request) (params.Model, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	if req.OperationID == "" {
		return nil, errors.New("orchestrator: operation id is required")
	}

	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return nil, err
	}

	operations, err := o.parser.Operations(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: parse operations: %w", err)
	}
	op, ok := operations[req.OperationID]
	if !ok {
		return nil, fmt.Errorf("orchestrator: operation %q not found", req.OperationID)
	}

	model := pkgopenapi.ModelFromOperation(op, req.ModelOptions...)
	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &model); err != nil {
			return nil, fmt.Errorf("orchestrator: transform model: %w", err)
		}
	}

	o.logger.WithFields(logrus.Fields{
		"operation": req.OperationID,
		"records":   model.Len(),
	}).Debug("orchestrator: model derived")
	return model, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (pkgopenapi.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return pkgopenapi.Document{}, errors.New("orchestrator: source or document is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	renderer, ok := o.registry.First()
	if !ok {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	return renderer, nil
}

func (o *Orchestrator) resolveTheme(req Request) (*theme.RendererConfig, error) {
	if o.themeSelector == nil {
		return nil, nil
	}
	selection, err := o.themeSelector.Select(req.ThemeName, req.ThemeVariant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme: %w", err)
	}
	if selection == nil {
		return nil, nil
	}
	fallbacks := o.themeFallbacks
	if fallbacks == nil {
		fallbacks = render.DefaultThemeFallbacks()
	}
	return render.ThemeConfig(selection, fallbacks), nil
}

func (o *Orchestrator) applyDefaults() {
	if o.logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		o.logger = logger
	}
	if o.loader == nil {
		o.loader = internalLoader.New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithLoaderLogger(o.logger)))
	}
	if o.parser == nil {
		o.parser = internalParser.New(pkgopenapi.NewParserOptions(pkgopenapi.WithParserLogger(o.logger)))
	}
	if o.registry == nil {
		renderer, err := html.New(html.WithLogger(o.logger))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		registry, err := render.NewRegistry(renderer)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default registry: %w", err)
			return
		}
		o.registry = registry
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
