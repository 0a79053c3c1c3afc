// Package html renders a form data editor as an HTML fragment: one row per
// parameter with its enable checkbox, name, value and documentation, the
// optional toggle, the add button and the current encoded value.
package html

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formdata/pkg/docs"
	"github.com/goliatone/go-formdata/pkg/editor"
	"github.com/goliatone/go-formdata/pkg/render"
	rendertemplate "github.com/goliatone/go-formdata/pkg/render/template"
	"github.com/goliatone/go-formdata/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formdata/pkg/widgets"
)

// DefaultID is used when RenderOptions.ID is empty.
const DefaultID = "form-data-editor"

// Renderer implements render.Renderer for HTML output.
type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	inlineStyles bool
	widgets      *widgets.Registry
	logger       logrus.FieldLogger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.widgets == nil {
		cfg.widgets = widgets.NewRegistry()
	}
	if cfg.logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		cfg.logger = logger
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engineOptions := []gotemplate.Option{
			gotemplate.WithName("html"),
			gotemplate.WithExtension(".tmpl"),
		}
		if cfg.templateFS != nil {
			engineOptions = append(engineOptions, gotemplate.WithFS(cfg.templateFS))
		}
		engineOptions = append(engineOptions, gotemplate.WithFS(TemplatesFS()))
		if len(cfg.templateFuncs) > 0 {
			engineOptions = append(engineOptions, gotemplate.WithTemplateFunc(cfg.templateFuncs))
		}
		engine, err := gotemplate.New(engineOptions...)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	return &Renderer{
		templates:    templates,
		inlineStyles: cfg.inlineStyles,
		widgets:      cfg.widgets,
		logger:       cfg.logger,
	}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the editor fragment, wrapped in a <form> when
// options.Name is set.
func (r *Renderer) Render(ctx context.Context, ed *editor.Editor, options render.RenderOptions) ([]byte, error) {
	if ed == nil {
		return nil, fmt.Errorf("html renderer: editor is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := options.ID
	if id == "" {
		id = DefaultID
	}
	settings := ed.Settings()
	rows := render.ApplySubset(ed.Rows(), options.Subset)
	errs := render.MapErrorPayload(rows, options.Errors)
	labels := labelsView(options)

	rowTemplate := render.Partial(options.Theme, render.PartialRow)
	renderedRows := make([]string, 0, len(rows))
	for _, row := range rows {
		view, err := rowView(id, row, r.widgets.Resolve(row.Record), errs.For(row.Name))
		if err != nil {
			return nil, err
		}
		out, err := r.templates.RenderTemplate(rowTemplate, map[string]any{
			"id":       id,
			"row":      view,
			"labels":   labels,
			"settings": settingsView(settings),
		})
		if err != nil {
			return nil, fmt.Errorf("html renderer: render row %d: %w", row.Index, err)
		}
		renderedRows = append(renderedRows, out)
	}

	data := map[string]any{
		"id":              id,
		"title":           options.Title,
		"name":      options.Name,
		"action":          options.Action,
		"method":          formMethod(options.Method),
		"hidden":    hiddenView(options.Hidden),
		"value":     ed.Value(),
		"rows":            renderedRows,
		"labels":          labels,
		"settings":        settingsView(settings),
		"hasOptional":     ed.HasOptional(),
		"optionalVisible": ed.OptionalVisible(),
		"formErrors":      errs.Form,
		"style":           render.CSSVarsStyle(options.Theme),
		"theme":           themeView(options),
	}
	if r.inlineStyles {
		data["inlineStyles"] = defaultStylesheet()
	}

	out, err := r.templates.RenderTemplate(render.Partial(options.Theme, render.PartialEditor), data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"id":    id,
		"rows":  len(rows),
		"bytes": len(out),
	}).Debug("html renderer: rendered editor")

	return []byte(out), nil
}

func rowView(id string, row editor.Row, widget string, errors []string) (map[string]any, error) {
	docsHTML := ""
	if row.HasDocs {
		converted, err := docs.HTML(row.Docs)
		if err != nil {
			return nil, fmt.Errorf("html renderer: docs for %q: %w", row.Name, err)
		}
		docsHTML = converted
	}
	prefix := id + "-" + strconv.Itoa(row.Index)
	return map[string]any{
		"index":     row.Index,
		"name":      row.Name,
		"value":     row.Value,
		"label":     row.Label,
		"binding":   row.Binding,
		"required":  row.Required,
		"enabled":   row.Enabled,
		"custom":    row.Custom,
		"hidden":    row.Hidden,
		"disabled":  row.Disabled,
		"removable": row.Removable,
		"hasDocs":   docsHTML != "",
		"docs":      docsHTML,
		"pattern":   row.Record.Schema.Pattern,
		"widget":    widget,
		"options":   widgets.Options(widget, row.Record),
		"errors":    errors,
		"nameId":    prefix + "-name",
		"valueId":   prefix + "-value",
		"docsId":    prefix + "-docs",
	}, nil
}

func settingsView(settings editor.Settings) map[string]any {
	return map[string]any{
		"allowCustom":        settings.AllowCustom,
		"allowDisableParams": settings.AllowDisableParams,
		"allowHideOptional":  settings.AllowHideOptional,
		"readOnly":           settings.ReadOnly,
		"disabled":           settings.Disabled,
		"locked":             settings.ReadOnly || settings.Disabled,
		"noDocs":             settings.NoDocs,
		"narrow":             settings.Narrow,
	}
}

func labelsView(options render.RenderOptions) map[string]any {
	labels := render.Labels(options)
	out := make(map[string]any, len(labels))
	for key, value := range labels {
		out[render.LabelKey(key)] = value
	}
	return out
}

func hiddenView(fields map[string]string) []any {
	sorted := render.SortedHiddenFields(fields)
	out := make([]any, 0, len(sorted))
	for _, field := range sorted {
		out = append(out, map[string]any{"name": field.Name, "value": field.Value})
	}
	return out
}

func themeView(options render.RenderOptions) map[string]any {
	view := map[string]any{"name": "", "variant": "", "stylesheet": ""}
	if cfg := options.Theme; cfg != nil {
		view["name"] = cfg.Theme
		view["variant"] = cfg.Variant
		if cfg.AssetURL != nil {
			view["stylesheet"] = cfg.AssetURL("formdata.stylesheet")
		}
	}
	return view
}

func formMethod(method string) string {
	if method == "" {
		return "post"
	}
	return method
}
