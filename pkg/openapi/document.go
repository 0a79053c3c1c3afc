package openapi

import (
	"errors"
	"sort"
)

// Source identifies where an OpenAPI document came from so loaders can read
// files, fs.FS entries or URLs behind one contract.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// Media type whose body properties become editor records.
const FormURLEncoded = "application/x-www-form-urlencoded"

// Parameter locations as they appear in an OpenAPI document. LocationBody marks
// form-urlencoded body properties.
const (
	LocationQuery  = "query"
	LocationHeader = "header"
	LocationPath   = "path"
	LocationCookie = "cookie"
	LocationBody   = "body"
)

// Document is the raw payload plus its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument validates and copies the payload.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("openapi: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("openapi: raw document is empty")
	}
	return Document{source: src, raw: append([]byte(nil), raw...)}, nil
}

// MustNewDocument panics if the document cannot be created.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

func (d Document) Source() Source { return d.source }

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Example is a documented sample value. Name is the key of a named example and
// empty for the single `example` keyword.
type Example struct {
	Name  string
	Value any
}

// Field is either an operation parameter or a property of the form-urlencoded
// request body.
type Field struct {
	Name        string
	In          string
	Title       string
	Description string
	Type        string
	Pattern     string
	Required    bool
	Deprecated  bool
	Default     any
	Enum        []any
	Examples    []Example
}

// Operation carries what the editor needs from one OpenAPI operation.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	// Parameters keeps declaration order, path-level parameters last unless
	// the operation overrides them.
	Parameters []Field
	// FormFields lists the form-urlencoded body properties, required first.
	FormFields []Field
	// MediaTypes lists every request body media type, sorted.
	MediaTypes []string
}

// NewOperation validates the identifying fields.
func NewOperation(id, method, path string) (Operation, error) {
	if id == "" {
		return Operation{}, errors.New("openapi: operation id is required")
	}
	if method == "" {
		return Operation{}, errors.New("openapi: operation method is required")
	}
	if path == "" {
		return Operation{}, errors.New("openapi: operation path is required")
	}
	return Operation{ID: id, Method: method, Path: path}, nil
}

// ParametersIn returns the parameters declared in the given location.
func (op Operation) ParametersIn(in string) []Field {
	var out []Field
	for _, field := range op.Parameters {
		if field.In == in {
			out = append(out, field)
		}
	}
	return out
}

// HasFormBody reports whether the operation accepts a form-urlencoded body.
func (op Operation) HasFormBody() bool {
	for _, mediaType := range op.MediaTypes {
		if mediaType == FormURLEncoded {
			return true
		}
	}
	return false
}

// OperationIDs returns the sorted keys of an operation map.
func OperationIDs(operations map[string]Operation) []string {
	ids := make([]string, 0, len(operations))
	for id := range operations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
