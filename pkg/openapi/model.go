package openapi

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formdata/pkg/params"
)

// ModelOption configures ModelFromOperation.
type ModelOption func(*modelOptions)

type modelOptions struct {
	body       bool
	locations  []string
	deprecated bool
}

// FromBody builds the model from the form-urlencoded body instead of the
// query parameters.
func FromBody() ModelOption {
	return func(opts *modelOptions) {
		opts.body = true
	}
}

// FromLocations builds the model from parameters declared in the given
// locations (query by default). Records keep the location as their binding.
func FromLocations(locations ...string) ModelOption {
	return func(opts *modelOptions) {
		opts.locations = append([]string(nil), locations...)
	}
}

// IncludeDeprecated keeps deprecated fields, which are skipped by default.
func IncludeDeprecated() ModelOption {
	return func(opts *modelOptions) {
		opts.deprecated = true
	}
}

// ModelFromOperation derives the initial editor model for op. Values are
// seeded from the default or, failing that, the first example.
func ModelFromOperation(op Operation, options ...ModelOption) params.Model {
	cfg := modelOptions{locations: []string{LocationQuery}}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	var fields []Field
	binding := ""
	if cfg.body {
		fields = op.FormFields
		binding = params.BindingBody
	} else {
		for _, location := range cfg.locations {
			fields = append(fields, op.ParametersIn(location)...)
		}
	}

	model := make(params.Model, 0, len(fields))
	for _, field := range fields {
		if field.Deprecated && !cfg.deprecated {
			continue
		}
		record := RecordFromField(field)
		if binding != "" {
			record.Binding = binding
		}
		model = append(model, record)
	}
	return model
}

// RecordFromField maps one field to a parameter record.
func RecordFromField(field Field) params.Record {
	record := params.Record{
		Name:           field.Name,
		Value:          seedValue(field),
		Binding:        field.In,
		Required:       field.Required,
		Description:    field.Description,
		HasDescription: field.Description != "",
		Schema: params.Schema{
			Enabled:    params.Bool(true),
			InputLabel: field.Title,
			Pattern:    field.Pattern,
			Type:       field.Type,
		},
	}
	if record.Schema.InputLabel == "" {
		record.Schema.InputLabel = field.Name
	}
	for _, value := range field.Enum {
		record.Schema.Enum = append(record.Schema.Enum, stringify(value))
	}
	for _, example := range field.Examples {
		record.Schema.Examples = append(record.Schema.Examples, params.Example{
			Name:    example.Name,
			HasName: example.Name != "",
			Value:   stringify(example.Value),
		})
	}
	return record
}

func seedValue(field Field) string {
	if field.Default != nil {
		return stringify(field.Default)
	}
	for _, example := range field.Examples {
		if example.Value != nil {
			return stringify(example.Value)
		}
	}
	return ""
}

// stringify renders scalar values as their text form and arrays as a comma
// separated list.
func stringify(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64:
		if typed == float64(int64(typed)) {
			return fmt.Sprintf("%d", int64(typed))
		}
		return fmt.Sprint(typed)
	case []any:
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			parts = append(parts, stringify(item))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(typed)
	}
}
