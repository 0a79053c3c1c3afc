package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-formdata/pkg/params"
)

// Transformer mutates a derived model before the editor is built.
// Implementations can relabel records, drop parameters or reseed values.
type Transformer interface {
	Transform(ctx context.Context, model *params.Model) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, model *params.Model) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, model *params.Model) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, model)
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file:
//
//	{
//	  "drop": ["legacy"],
//	  "records": {
//	    "limit": {"label": "Page size", "value": "50"},
//	    "tag": {"rename": "tags", "enabled": false}
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Drop    []string                   `json:"drop"`
	Records map[string]jsonRecordPatch `json:"records"`
}

type jsonRecordPatch struct {
	Label       string  `json:"label"`
	Description string  `json:"description"`
	Pattern     string  `json:"pattern"`
	Value       *string `json:"value"`
	Required    *bool   `json:"required"`
	Enabled     *bool   `json:"enabled"`
	Rename      string  `json:"rename"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform drops the listed records, then patches the remaining ones by
// name. Patching a record the model does not carry is an error.
func (t *JSONPresetTransformer) Transform(ctx context.Context, model *params.Model) error {
	if model == nil {
		return errors.New("json preset transformer: model is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(t.document.Drop) > 0 {
		drop := make(map[string]bool, len(t.document.Drop))
		for _, name := range t.document.Drop {
			drop[name] = true
		}
		kept := (*model)[:0:0]
		for _, record := range *model {
			if !drop[record.Name] {
				kept = append(kept, record)
			}
		}
		*model = kept
	}

	for name, patch := range t.document.Records {
		if err := ctx.Err(); err != nil {
			return err
		}
		index := findRecord(*model, name)
		if index < 0 {
			return fmt.Errorf("json preset transformer: record %q not found", name)
		}
		applyRecordPatch(&(*model)[index], patch)
	}
	return nil
}

func applyRecordPatch(record *params.Record, patch jsonRecordPatch) {
	if patch.Label != "" {
		record.Schema.InputLabel = patch.Label
	}
	if patch.Description != "" {
		record.Description = patch.Description
		record.HasDescription = true
	}
	if patch.Pattern != "" {
		record.Schema.Pattern = patch.Pattern
	}
	if patch.Value != nil {
		record.Value = *patch.Value
	}
	if patch.Required != nil {
		record.Required = *patch.Required
	}
	if patch.Enabled != nil {
		record.Schema.Enabled = params.Bool(*patch.Enabled)
	}
	if rename := strings.TrimSpace(patch.Rename); rename != "" {
		record.Name = rename
	}
}

func findRecord(model params.Model, name string) int {
	for i, record := range model {
		if record.Name == name {
			return i
		}
	}
	return -1
}
