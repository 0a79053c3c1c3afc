// Package visibility decides which parameter rows are shown. It only reads
// records; hiding a row never changes the model or the encoded value.
package visibility

import "github.com/goliatone/go-formdata/pkg/params"

// Evaluator decides whether a record should be shown.
type Evaluator interface {
	Visible(record params.Record, ctx Context) bool
}

// Context carries the editor switches an Evaluator consults. Extras lets
// callers inject arbitrary context such as feature flags.
type Context struct {
	AllowHideOptional bool
	ShowOptional      bool
	Extras            map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(record params.Record, ctx Context) bool

// Visible delegates to the underlying function.
func (fn EvaluatorFunc) Visible(record params.Record, ctx Context) bool {
	return fn(record, ctx)
}

// Optional hides optional records while hiding is allowed and the optional
// toggle is off. Required and custom records are always visible.
func Optional() Evaluator {
	return EvaluatorFunc(func(record params.Record, ctx Context) bool {
		if !ctx.AllowHideOptional || ctx.ShowOptional {
			return true
		}
		return !IsOptional(record)
	})
}

// IsOptional reports whether record can be hidden by the optional toggle.
func IsOptional(record params.Record) bool {
	return !record.Required && !record.Custom()
}

// HasOptional reports whether any record in model is optional.
func HasOptional(model params.Model) bool {
	for _, record := range model {
		if IsOptional(record) {
			return true
		}
	}
	return false
}

// Hidden returns, per record index, whether evaluator hides the record.
func Hidden(model params.Model, evaluator Evaluator, ctx Context) []bool {
	out := make([]bool, len(model))
	if evaluator == nil {
		return out
	}
	for i, record := range model {
		out[i] = !evaluator.Visible(record, ctx)
	}
	return out
}
