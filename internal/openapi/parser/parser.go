package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/sirupsen/logrus"

	pkgopenapi "github.com/goliatone/go-formdata/pkg/openapi"
)

// Parser implements pkgopenapi.Parser using kin-openapi.
type Parser struct {
	options pkgopenapi.ParserOptions
	logger  logrus.FieldLogger
}

var _ pkgopenapi.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkgopenapi.ParserOptions) *Parser {
	logger := options.Logger
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	return &Parser{options: options, logger: logger}
}

// Operations converts a Document into operations keyed by id.
func (p *Parser) Operations(ctx context.Context, doc pkgopenapi.Document) (map[string]pkgopenapi.Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx

	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if p.options.Validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}

	operations := make(map[string]pkgopenapi.Operation)
	if spec.Paths != nil {
		paths := spec.Paths.Map()
		keys := make([]string, 0, len(paths))
		for path := range paths {
			keys = append(keys, path)
		}
		sort.Strings(keys)

		for _, path := range keys {
			item := paths[path]
			if item == nil {
				continue
			}
			for method, operation := range item.Operations() {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				p.collect(operations, method, path, item, operation)
			}
		}
	}

	if len(operations) == 0 && !p.options.AllowEmpty {
		return nil, errors.New("openapi parser: no operations extracted")
	}
	return operations, nil
}

func (p *Parser) collect(target map[string]pkgopenapi.Operation, method, path string, item *openapi3.PathItem, operation *openapi3.Operation) {
	if operation == nil {
		return
	}
	method = strings.ToUpper(method)
	id := operation.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}

	op, err := pkgopenapi.NewOperation(id, method, path)
	if err != nil {
		p.logger.WithError(err).WithField("path", path).Debug("openapi parser: operation skipped")
		return
	}
	op.Summary = operation.Summary
	op.Description = operation.Description
	op.Parameters = parameters(operation.Parameters, item.Parameters)

	if body := operation.RequestBody; body != nil && body.Value != nil {
		for mediaType := range body.Value.Content {
			op.MediaTypes = append(op.MediaTypes, mediaType)
		}
		sort.Strings(op.MediaTypes)
		if media := body.Value.Content.Get(pkgopenapi.FormURLEncoded); media != nil {
			op.FormFields = formFields(media)
		}
	}

	if _, exists := target[id]; exists {
		p.logger.WithFields(logrus.Fields{"id": id, "path": path}).Debug("openapi parser: duplicate operation id")
	}
	target[id] = op

	p.logger.WithFields(logrus.Fields{
		"id":          id,
		"parameters":  len(op.Parameters),
		"form_fields": len(op.FormFields),
	}).Debug("openapi parser: operation collected")
}
