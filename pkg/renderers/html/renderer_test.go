package html_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"
	nethtml "golang.org/x/net/html"

	"github.com/goliatone/go-formdata/pkg/editor"
	"github.com/goliatone/go-formdata/pkg/params"
	"github.com/goliatone/go-formdata/pkg/render"
	"github.com/goliatone/go-formdata/pkg/renderers/html"
	"github.com/goliatone/go-formdata/pkg/testsupport"
	"github.com/goliatone/go-formdata/pkg/widgets"
)

func newRenderer(t *testing.T, options ...html.Option) *html.Renderer {
	t.Helper()
	r, err := html.New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func mixedEditor(t *testing.T, options ...editor.Option) *editor.Editor {
	t.Helper()
	base := []editor.Option{
		editor.WithAllowCustom(true),
		editor.WithAllowDisableParams(true),
		editor.WithAllowHideOptional(true),
	}
	ed := editor.New(append(base, options...)...)
	ed.SetModel(testsupport.MustLoadModel(t, filepath.Join("..", "..", "testsupport", "testdata", "mixed.yaml")))
	return ed
}

func renderDoc(t *testing.T, r *html.Renderer, ed *editor.Editor, opts render.RenderOptions) (*nethtml.Node, string) {
	t.Helper()
	out, err := r.Render(context.Background(), ed, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc, err := nethtml.Parse(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	return doc, string(out)
}

func byClass(root *nethtml.Node, class string) []*nethtml.Node {
	var out []*nethtml.Node
	var walk func(*nethtml.Node)
	walk = func(n *nethtml.Node) {
		if n.Type == nethtml.ElementNode {
			for _, field := range strings.Fields(attr(n, "class")) {
				if field == class {
					out = append(out, n)
					break
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func attr(n *nethtml.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *nethtml.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func text(n *nethtml.Node) string {
	var b strings.Builder
	var walk func(*nethtml.Node)
	walk = func(n *nethtml.Node) {
		if n.Type == nethtml.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func TestRenderer_Contract(t *testing.T) {
	r := newRenderer(t)
	if r.Name() != "html" || r.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("unexpected renderer identity %s %s", r.Name(), r.ContentType())
	}
	if _, err := r.Render(context.Background(), nil, render.RenderOptions{}); err == nil {
		t.Fatalf("expected error for nil editor")
	}
}

func TestRenderer_EmptyGolden(t *testing.T) {
	out, err := newRenderer(t).Render(context.Background(), editor.New(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	testsupport.AssertGolden(t, filepath.Join("testdata", "empty.golden"), out)
}

func TestRenderer_MixedModel(t *testing.T) {
	doc, _ := renderDoc(t, newRenderer(t), mixedEditor(t), render.RenderOptions{})

	items := byClass(doc, "form-item")
	if len(items) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(items))
	}
	if !hasAttr(items[0], "hidden") || hasAttr(items[1], "hidden") || hasAttr(items[2], "hidden") {
		t.Fatalf("only the optional non-custom row should be hidden")
	}
	if got := len(byClass(doc, "enable-checkbox")); got != 3 {
		t.Fatalf("expected 3 enable checkboxes, got %d", got)
	}
	if got := len(byClass(doc, "delete-icon")); got != 3 {
		t.Fatalf("expected delete icons on every row, got %d", got)
	}
	if got := len(byClass(doc, "optional-checkbox")); got != 1 {
		t.Fatalf("expected the optional toggle, got %d", got)
	}
	if got := len(byClass(doc, "add-param")); got != 1 {
		t.Fatalf("expected the add button, got %d", got)
	}

	names := byClass(doc, "param-name")
	if names[0].Data != "label" || text(names[0]) != "label1" {
		t.Fatalf("declared rows render a label, got <%s> %q", names[0].Data, text(names[0]))
	}
	if names[1].Data != "input" || attr(names[1], "value") != "i2" {
		t.Fatalf("custom rows render a name input, got <%s>", names[1].Data)
	}

	docs := byClass(doc, "docs")
	if len(docs) != 1 || strings.TrimSpace(text(docs[0])) != "First parameter." {
		t.Fatalf("expected docs on the declared row only, got %d", len(docs))
	}

	output := byClass(doc, "encoded-value")
	if len(output) != 1 || text(output[0]) != "i1=v1&i2=v2&i3=v3" {
		t.Fatalf("unexpected encoded output")
	}
}

func TestRenderer_RemoveIcon(t *testing.T) {
	ed := editor.New()
	ed.SetModel(params.Model{
		{Name: "q", Value: "go"},
		{Name: "extra", Value: "1", Schema: params.Schema{IsCustom: true}},
	})
	doc, _ := renderDoc(t, newRenderer(t), ed, render.RenderOptions{})

	icons := byClass(doc, "delete-icon")
	if len(icons) != 1 || attr(icons[0], "data-index") != "1" {
		t.Fatalf("expected the remove icon on the custom row only, got %d", len(icons))
	}
}

func TestRenderer_ShowOptionalAndDisabledRecord(t *testing.T) {
	ed := mixedEditor(t)
	ed.ShowOptional(true)
	if err := ed.SetEnabled(1, false); err != nil {
		t.Fatalf("disable: %v", err)
	}

	doc, _ := renderDoc(t, newRenderer(t), ed, render.RenderOptions{})
	items := byClass(doc, "form-item")
	if hasAttr(items[0], "hidden") {
		t.Fatalf("optional row should be visible")
	}
	if !strings.Contains(attr(items[1], "class"), "param-disabled") {
		t.Fatalf("disabled record should be marked")
	}
	toggle := byClass(doc, "optional-checkbox")[0]
	if !hasAttr(toggle, "checked") {
		t.Fatalf("optional toggle should be checked")
	}
	if got := text(byClass(doc, "encoded-value")[0]); got != "i1=v1&i3=v3" {
		t.Fatalf("unexpected encoded output %q", got)
	}
}

func TestRenderer_ReadOnly(t *testing.T) {
	doc, _ := renderDoc(t, newRenderer(t), mixedEditor(t, editor.WithReadOnly(true)), render.RenderOptions{})

	if len(byClass(doc, "add-param")) != 0 || len(byClass(doc, "delete-icon")) != 0 {
		t.Fatalf("read-only editors must not offer add or delete")
	}
	for _, input := range byClass(doc, "param-value") {
		if !hasAttr(input, "disabled") || !hasAttr(input, "readonly") {
			t.Fatalf("value inputs should be readonly and disabled")
		}
	}
}

func TestRenderer_NoDocs(t *testing.T) {
	doc, _ := renderDoc(t, newRenderer(t), mixedEditor(t, editor.WithNoDocs(true)), render.RenderOptions{})
	if got := len(byClass(doc, "docs")); got != 0 {
		t.Fatalf("noDocs must suppress docs, got %d", got)
	}
}

func TestRenderer_FormWrapperAndErrors(t *testing.T) {
	opts := render.RenderOptions{
		ID:     "query",
		Title:  "Query parameters",
		Name:   "payload",
		Action: "/submit",
		Hidden: render.MergeHiddenFields(nil, render.CSRFToken("_csrf", "tok")),
		Errors: map[string][]string{
			"/query/i1": {"i1 is invalid"},
			"__all__":   {"request rejected"},
		},
	}
	doc, _ := renderDoc(t, newRenderer(t), mixedEditor(t), opts)

	forms := byClass(doc, "form-data-form")
	if len(forms) != 1 || attr(forms[0], "action") != "/submit" || attr(forms[0], "method") != "post" {
		t.Fatalf("expected a form wrapper")
	}
	if text(byClass(doc, "title")[0]) != "Query parameters" {
		t.Fatalf("title not rendered")
	}
	if errs := byClass(doc, "error"); len(errs) != 1 || text(errs[0]) != "i1 is invalid" {
		t.Fatalf("expected row error on i1")
	}
	if !strings.Contains(attr(byClass(doc, "form-item")[0], "class"), "invalid") {
		t.Fatalf("row with errors should be marked invalid")
	}
	if text(byClass(doc, "form-errors")[0]) == "" {
		t.Fatalf("expected form-level errors")
	}

	var hidden []string
	var walk func(*nethtml.Node)
	walk = func(n *nethtml.Node) {
		if n.Type == nethtml.ElementNode && n.Data == "input" && attr(n, "type") == "hidden" {
			hidden = append(hidden, attr(n, "name")+"="+attr(n, "value"))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	want := []string{"_csrf=tok", "payload=i1=v1&i2=v2&i3=v3"}
	if strings.Join(hidden, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected hidden inputs %v", hidden)
	}
}

func TestRenderer_SubsetAndEnum(t *testing.T) {
	ed := editor.New()
	ed.SetEncoded("status=sold&limit=10")
	model := ed.Model()
	model[0].Schema.Enum = []string{"available", "sold"}
	model[0].Required = true
	model[1].Binding = "header"
	ed.SetModel(model)

	doc, _ := renderDoc(t, newRenderer(t), ed, render.RenderOptions{
		Subset: render.FieldSubset{Names: []string{"status"}},
	})
	if got := len(byClass(doc, "form-item")); got != 1 {
		t.Fatalf("expected subset to keep one row, got %d", got)
	}
	selects := byClass(doc, "param-value")
	if len(selects) != 1 || selects[0].Data != "select" {
		t.Fatalf("enum rows should render a select")
	}
	var selected string
	for c := selects[0].FirstChild; c != nil; c = c.NextSibling {
		if c.Type == nethtml.ElementNode && hasAttr(c, "selected") {
			selected = attr(c, "value")
		}
	}
	if selected != "sold" {
		t.Fatalf("expected sold selected, got %q", selected)
	}
}

func TestRenderer_Widgets(t *testing.T) {
	ed := editor.New()
	ed.SetModel(params.Model{
		{Name: "flag", Value: "true", Required: true, Schema: params.Schema{Enabled: params.Bool(true), Type: "boolean"}},
		{Name: "limit", Value: "10", Schema: params.Schema{Enabled: params.Bool(true), Type: "integer"}},
		{Name: "q", Schema: params.Schema{Enabled: params.Bool(true), Type: "string"}},
	})

	doc, _ := renderDoc(t, newRenderer(t), ed, render.RenderOptions{})
	values := byClass(doc, "param-value")
	if len(values) != 3 {
		t.Fatalf("expected three value controls, got %d", len(values))
	}
	if values[0].Data != "select" || !strings.Contains(attr(values[0], "class"), "widget-toggle") {
		t.Fatalf("boolean rows should render a toggle select, got <%s class=%q>", values[0].Data, attr(values[0], "class"))
	}
	if attr(values[1], "inputmode") != "decimal" {
		t.Fatalf("integer rows should ask for a decimal keyboard")
	}
	if hasAttr(values[2], "inputmode") || !strings.Contains(attr(values[2], "class"), "widget-text") {
		t.Fatalf("string rows should stay plain text inputs")
	}

	reg := &widgets.Registry{}
	reg.Register("search", 1, func(record params.Record) bool { return record.Name == "q" })
	doc, _ = renderDoc(t, newRenderer(t, html.WithWidgetRegistry(reg)), ed, render.RenderOptions{})
	values = byClass(doc, "param-value")
	if values[0].Data == "select" {
		t.Fatalf("custom registry without a toggle matcher should render text")
	}
	if !strings.Contains(attr(values[2], "class"), "widget-search") {
		t.Fatalf("expected custom widget class, got %q", attr(values[2], "class"))
	}
}

func TestRenderer_ThemeAndEscaping(t *testing.T) {
	ed := editor.New()
	ed.SetEncoded("q=%3Cscript%3E")

	selection := &theme.Selection{
		Theme:   "acme",
		Variant: "dark",
		Manifest: &theme.Manifest{
			Name:    "acme",
			Version: "1.0.0",
			Tokens:  map[string]string{"brand": "#123456"},
			Assets: theme.Assets{
				Prefix: "/assets",
				Files:  map[string]string{"formdata.stylesheet": "formdata.css"},
			},
		},
	}
	opts := render.RenderOptions{Theme: render.ThemeConfig(selection, render.DefaultThemeFallbacks())}
	doc, raw := renderDoc(t, newRenderer(t, html.WithInlineStyles(true)), ed, opts)

	section := byClass(doc, "form-data-editor")[0]
	if attr(section, "data-theme") != "acme" || attr(section, "data-variant") != "dark" {
		t.Fatalf("theme attributes missing")
	}
	if attr(section, "style") != "--brand: #123456;" {
		t.Fatalf("unexpected style %q", attr(section, "style"))
	}
	if !strings.Contains(raw, `<link rel="stylesheet" href="/assets/formdata.css">`) {
		t.Fatalf("stylesheet link missing")
	}
	if !strings.Contains(raw, "<style>") {
		t.Fatalf("inline styles missing")
	}
	if strings.Contains(raw, "<script>") {
		t.Fatalf("values must be escaped")
	}
	if attr(byClass(doc, "param-value")[0], "value") != "<script>" {
		t.Fatalf("value attribute should round-trip after escaping")
	}
}

func TestRenderer_TemplateOverride(t *testing.T) {
	overrides := fstest.MapFS{
		"templates/row.tmpl": {Data: []byte(`<div class="form-item custom-row">{{ row.name }}</div>`)},
	}
	doc, _ := renderDoc(t, newRenderer(t, html.WithTemplatesFS(overrides)), mixedEditor(t), render.RenderOptions{})

	rows := byClass(doc, "custom-row")
	if len(rows) != 3 || text(rows[2]) != "i3" {
		t.Fatalf("override template not used")
	}
	if len(byClass(doc, "encoded-value")) != 1 {
		t.Fatalf("built-in editor template should still apply")
	}
}

func TestRenderer_Labels(t *testing.T) {
	translator := render.TranslatorFunc(func(locale, key string, _ ...any) (string, error) {
		if key == render.LabelAdd {
			return "Ajouter", nil
		}
		return "", nil
	})
	doc, _ := renderDoc(t, newRenderer(t), mixedEditor(t), render.RenderOptions{Locale: "fr", Translator: translator})
	if got := text(byClass(doc, "add-param")[0]); got != "Ajouter" {
		t.Fatalf("label not translated: %q", got)
	}
}
