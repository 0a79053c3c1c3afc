package render

import (
	"errors"
	"strings"
)

// ErrMissingTranslator is passed to MissingTranslationHandler when no
// Translator is configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

func (f TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return f(locale, key, args...)
}

// MissingTranslationHandler decides what to show when a key cannot be
// translated. args carries {"default": fallback} as its first element.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// Label keys used by the built-in renderers.
const (
	LabelAdd          = "formdata.add"
	LabelShowOptional = "formdata.showOptional"
	LabelEnable       = "formdata.enable"
	LabelRemove       = "formdata.remove"
	LabelName         = "formdata.name"
	LabelValue        = "formdata.value"
	LabelRequired     = "formdata.required"
	LabelOutput       = "formdata.output"
	LabelEmpty        = "formdata.empty"
)

var defaultLabels = map[string]string{
	LabelAdd:          "Add parameter",
	LabelShowOptional: "Show optional parameters",
	LabelEnable:       "Enable parameter",
	LabelRemove:       "Remove parameter",
	LabelName:         "Parameter name",
	LabelValue:        "Parameter value",
	LabelRequired:     "Required",
	LabelOutput:       "Encoded value",
	LabelEmpty:        "No parameters",
}

// Labels resolves every built-in label for the options' locale. Untranslated
// keys fall back to the English defaults.
func Labels(opts RenderOptions) map[string]string {
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	out := make(map[string]string, len(defaultLabels))
	for key, fallback := range defaultLabels {
		out[key] = translate(opts.Locale, key, fallback, opts.Translator, onMissing)
	}
	return out
}

// LabelKey turns a label key into a template-friendly name ("formdata.add"
// becomes "add").
func LabelKey(key string) string {
	return strings.TrimPrefix(key, "formdata.")
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	args := []any{map[string]any{"default": fallback}}
	if t == nil {
		return onMissing(locale, key, args, ErrMissingTranslator)
	}
	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, args, err)
}

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	if len(args) > 0 {
		if values, ok := args[0].(map[string]any); ok {
			if fallback, ok := values["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}
