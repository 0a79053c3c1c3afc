package render

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Partial keys the HTML renderer resolves through the theme.
const (
	PartialEditor = "formdata.editor"
	PartialRow    = "formdata.row"
)

// DefaultThemeFallbacks maps partial keys to the built-in templates.
func DefaultThemeFallbacks() map[string]string {
	return map[string]string{
		PartialEditor: "templates/editor.tmpl",
		PartialRow:    "templates/row.tmpl",
	}
}

// ThemeConfig derives a renderer config from a go-theme selection. Manifest
// templates override fallbacks and variant values override the manifest.
// Every token is also exposed as a "--token" CSS variable.
func ThemeConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Partials: copyStringMap(fallbacks),
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
	}
	if cfg.Partials == nil {
		cfg.Partials = map[string]string{}
	}
	if selection == nil {
		cfg.AssetURL = func(string) string { return "" }
		return cfg
	}

	cfg.Theme = selection.Theme
	cfg.Variant = selection.Variant

	prefix := ""
	files := map[string]string{}
	if manifest := selection.Manifest; manifest != nil {
		mergeInto(cfg.Tokens, manifest.Tokens)
		mergeInto(cfg.Partials, manifest.Templates)
		prefix = manifest.Assets.Prefix
		mergeInto(files, manifest.Assets.Files)

		if variant, ok := manifest.Variants[selection.Variant]; ok {
			mergeInto(cfg.Tokens, variant.Tokens)
			mergeInto(cfg.Partials, variant.Templates)
			if variant.Assets.Prefix != "" {
				prefix = variant.Assets.Prefix
			}
			mergeInto(files, variant.Assets.Files)
		}
	}

	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+strings.TrimPrefix(key, "--")] = value
	}
	cfg.AssetURL = assetResolver(prefix, files)
	return cfg
}

// CSSVarsStyle renders CSS variables as a sorted inline style declaration.
func CSSVarsStyle(cfg *theme.RendererConfig) string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(cfg.CSSVars))
	for key := range cfg.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s: %s;", key, cfg.CSSVars[key])
	}
	return b.String()
}

// Partial returns the template registered for key, falling back to the
// built-in template.
func Partial(cfg *theme.RendererConfig, key string) string {
	if cfg != nil {
		if value := strings.TrimSpace(cfg.Partials[key]); value != "" {
			return value
		}
	}
	return DefaultThemeFallbacks()[key]
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	prefix = strings.TrimRight(prefix, "/")
	return func(key string) string {
		file, ok := files[key]
		if !ok {
			return ""
		}
		if prefix == "" || strings.Contains(file, "://") || strings.HasPrefix(file, "/") {
			return file
		}
		return prefix + "/" + file
	}
}

func mergeInto(dst, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
