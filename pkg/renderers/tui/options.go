package tui

import (
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formdata/pkg/params"
	"github.com/goliatone/go-formdata/pkg/widgets"
)

// OutputFormat controls what Render returns once the session ends.
type OutputFormat string

const (
	// OutputFormatFormURLEncoded returns the encoded value.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatJSON returns the parameter model as JSON.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatPrettyText returns a human-friendly summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// ParseOutputFormat validates a user supplied format name.
func ParseOutputFormat(raw string) (OutputFormat, bool) {
	switch OutputFormat(raw) {
	case OutputFormatFormURLEncoded, OutputFormatJSON, OutputFormatPrettyText:
		return OutputFormat(raw), true
	}
	return "", false
}

// Theme holds message prefixes applied to Info output.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// SubmitTransformer adjusts the model before it is serialized.
type SubmitTransformer func(params.Model) (params.Model, error)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithSubmitTransformer runs fn on the final model before serialization.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) {
		r.submitTransformer = fn
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithMaxAttempts bounds re-prompts after invalid answers. Zero means
// unlimited.
func WithMaxAttempts(n int) Option {
	return func(r *Renderer) {
		if n >= 0 {
			r.maxAttempts = n
		}
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithWidgetRegistry replaces the registry deciding which rows are answered
// from a list of choices.
func WithWidgetRegistry(registry *widgets.Registry) Option {
	return func(r *Renderer) {
		if registry != nil {
			r.widgets = registry
		}
	}
}
