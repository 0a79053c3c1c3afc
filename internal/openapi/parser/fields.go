package parser

import (
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-formdata/pkg/openapi"
)

// parameters merges operation parameters with the path-level ones. An
// operation parameter overrides a path parameter with the same name and
// location.
func parameters(operation, path openapi3.Parameters) []pkgopenapi.Field {
	var fields []pkgopenapi.Field
	seen := make(map[string]bool)
	for _, list := range []openapi3.Parameters{operation, path} {
		for _, ref := range list {
			if ref == nil || ref.Value == nil {
				continue
			}
			key := ref.Value.In + "\x00" + ref.Value.Name
			if seen[key] {
				continue
			}
			seen[key] = true
			fields = append(fields, parameterField(ref.Value))
		}
	}
	return fields
}

func parameterField(param *openapi3.Parameter) pkgopenapi.Field {
	field := pkgopenapi.Field{
		Name:        param.Name,
		In:          param.In,
		Description: param.Description,
		Required:    param.Required,
		Deprecated:  param.Deprecated,
	}
	if param.Schema != nil && param.Schema.Value != nil {
		applySchema(&field, param.Schema.Value)
	}
	if param.Example != nil {
		field.Examples = append([]pkgopenapi.Example{{Value: param.Example}}, field.Examples...)
	}
	field.Examples = append(field.Examples, namedExamples(param.Examples)...)
	return field
}

// formFields lists the body properties, required first in declared order,
// then the rest by name.
func formFields(media *openapi3.MediaType) []pkgopenapi.Field {
	if media.Schema == nil || media.Schema.Value == nil {
		return nil
	}
	properties, required := collectProperties(media.Schema.Value)

	names := make([]string, 0, len(properties))
	isRequired := make(map[string]bool, len(required))
	for _, name := range required {
		if _, ok := properties[name]; ok && !isRequired[name] {
			isRequired[name] = true
			names = append(names, name)
		}
	}
	var optional []string
	for name := range properties {
		if !isRequired[name] {
			optional = append(optional, name)
		}
	}
	sort.Strings(optional)
	names = append(names, optional...)

	mediaExample, _ := media.Example.(map[string]any)

	fields := make([]pkgopenapi.Field, 0, len(names))
	for _, name := range names {
		field := pkgopenapi.Field{
			Name:     name,
			In:       pkgopenapi.LocationBody,
			Required: isRequired[name],
		}
		if schema := properties[name]; schema != nil {
			applySchema(&field, schema)
			field.Deprecated = schema.Deprecated
		}
		if value, ok := mediaExample[name]; ok && len(field.Examples) == 0 {
			field.Examples = []pkgopenapi.Example{{Value: value}}
		}
		fields = append(fields, field)
	}
	return fields
}

// collectProperties flattens allOf compositions into one property set.
func collectProperties(schema *openapi3.Schema) (map[string]*openapi3.Schema, []string) {
	properties := make(map[string]*openapi3.Schema)
	var required []string
	var walk func(*openapi3.Schema, int)
	walk = func(s *openapi3.Schema, depth int) {
		if s == nil || depth > 8 {
			return
		}
		for _, ref := range s.AllOf {
			if ref != nil {
				walk(ref.Value, depth+1)
			}
		}
		for name, ref := range s.Properties {
			if ref != nil && ref.Value != nil {
				properties[name] = ref.Value
			}
		}
		required = append(required, s.Required...)
	}
	walk(schema, 0)
	return properties, required
}

func applySchema(field *pkgopenapi.Field, schema *openapi3.Schema) {
	field.Title = schema.Title
	if field.Description == "" {
		field.Description = schema.Description
	}
	if schema.Type != nil {
		if types := schema.Type.Slice(); len(types) > 0 {
			field.Type = types[0]
		}
	}
	field.Pattern = schema.Pattern
	field.Default = schema.Default
	if len(schema.Enum) > 0 {
		field.Enum = append([]any(nil), schema.Enum...)
	}
	if schema.Example != nil {
		field.Examples = append(field.Examples, pkgopenapi.Example{Value: schema.Example})
	}
}

func namedExamples(examples openapi3.Examples) []pkgopenapi.Example {
	names := make([]string, 0, len(examples))
	for name := range examples {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []pkgopenapi.Example
	for _, name := range names {
		ref := examples[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		out = append(out, pkgopenapi.Example{Name: name, Value: ref.Value.Value})
	}
	return out
}
