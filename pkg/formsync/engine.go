package formsync

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formdata/pkg/params"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes mutation logs to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithValue seeds the engine by decoding value. No event fires.
func WithValue(value string) Option {
	return func(e *Engine) {
		e.value = value
		e.model = params.Decode(value)
	}
}

// WithModel seeds the engine with model and its encoding. No event fires.
func WithModel(model params.Model) Option {
	return func(e *Engine) {
		e.model = model.Clone()
		e.value = params.Encode(e.model)
	}
}

// Engine synchronises an encoded form string with its parameter model.
type Engine struct {
	model     params.Model
	value     string
	observers *observers
	logger    logrus.FieldLogger
}

// New constructs an empty engine, applying options in order.
func New(options ...Option) *Engine {
	e := &Engine{
		model:     params.Model{},
		observers: newObservers(),
		logger:    discardLogger(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Value returns the last known encoded string.
func (e *Engine) Value() string {
	return e.value
}

// Model returns a copy of the current model.
func (e *Engine) Model() params.Model {
	return e.model.Clone()
}

// SetValue replaces the encoded string. When it differs from the last known
// value the string is decoded into a fresh model and both value-changed and
// model-changed fire. The string is stored as given; it is not re-encoded.
// It reports whether anything changed.
func (e *Engine) SetValue(value string) bool {
	if value == e.value {
		return false
	}
	e.value = value
	e.model = params.Decode(value)

	e.logger.WithFields(logrus.Fields{
		"op":      "set-value",
		"records": len(e.model),
	}).Debug("formsync: value decoded")

	e.observers.emit(Event{Kind: EventValueChanged, Value: e.value})
	e.observers.emit(Event{Kind: EventModelChanged, Model: e.model.Clone()})
	return true
}

// SetModel replaces the model with a caller supplied one and re-derives the
// encoded string.
func (e *Engine) SetModel(model params.Model) {
	e.commit("set-model", -1, model.Clone())
}

// Add appends an empty custom record.
func (e *Engine) Add() {
	e.commit("add", len(e.model), e.model.Add())
}

// RemoveAt removes the record at index.
func (e *Engine) RemoveAt(index int) error {
	next, err := e.model.RemoveAt(index)
	if err != nil {
		return err
	}
	e.commit("remove", index, next)
	return nil
}

// SetName renames the record at index.
func (e *Engine) SetName(index int, name string) error {
	next, err := e.model.SetName(index, name)
	if err != nil {
		return err
	}
	e.commit("set-name", index, next)
	return nil
}

// SetRecordValue updates the value of the record at index.
func (e *Engine) SetRecordValue(index int, value string) error {
	next, err := e.model.SetValue(index, value)
	if err != nil {
		return err
	}
	e.commit("set-record-value", index, next)
	return nil
}

// SetEnabled toggles whether the record at index is encoded.
func (e *Engine) SetEnabled(index int, enabled bool) error {
	next, err := e.model.SetEnabled(index, enabled)
	if err != nil {
		return err
	}
	e.commit("set-enabled", index, next)
	return nil
}

// Subscribe registers handler for kind. Subscribers run in subscription order,
// ahead of the single-slot handler.
func (e *Engine) Subscribe(kind EventKind, handler Handler) Subscription {
	if handler == nil {
		return Subscription{}
	}
	return e.observers.add(kind, handler)
}

// Unsubscribe removes a subscription. It reports whether it was registered.
func (e *Engine) Unsubscribe(sub Subscription) bool {
	if !sub.Valid() {
		return false
	}
	return e.observers.remove(sub)
}

// OnChange assigns the single-slot value-changed handler, replacing the
// previous one. A nil handler clears the slot.
func (e *Engine) OnChange(handler Handler) {
	e.observers.setSlot(EventValueChanged, handler)
}

// ChangeHandler returns the current single-slot value-changed handler.
func (e *Engine) ChangeHandler() Handler {
	return e.observers.slot(EventValueChanged)
}

// OnModel assigns the single-slot model-changed handler, replacing the
// previous one. A nil handler clears the slot.
func (e *Engine) OnModel(handler Handler) {
	e.observers.setSlot(EventModelChanged, handler)
}

// ModelHandler returns the current single-slot model-changed handler.
func (e *Engine) ModelHandler() Handler {
	return e.observers.slot(EventModelChanged)
}

func (e *Engine) commit(op string, index int, next params.Model) {
	modelChanged := !next.Equal(e.model)
	e.model = next

	encoded := params.Encode(e.model)
	valueChanged := encoded != e.value
	e.value = encoded

	e.logger.WithFields(logrus.Fields{
		"op":            op,
		"index":         index,
		"records":       len(e.model),
		"value":         encoded,
		"model_changed": modelChanged,
		"value_changed": valueChanged,
	}).Debug("formsync: model mutated")

	if modelChanged {
		e.observers.emit(Event{Kind: EventModelChanged, Model: e.model.Clone()})
	}
	if valueChanged {
		e.observers.emit(Event{Kind: EventValueChanged, Value: e.value})
	}
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
