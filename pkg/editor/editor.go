package editor

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formdata/pkg/docs"
	"github.com/goliatone/go-formdata/pkg/formsync"
	"github.com/goliatone/go-formdata/pkg/params"
	"github.com/goliatone/go-formdata/pkg/visibility"
)

var (
	// ErrReadOnly is returned for any mutation on a read-only or disabled
	// editor.
	ErrReadOnly = errors.New("editor: read only")
	// ErrCustomNotAllowed is returned by Add when custom parameters are off.
	ErrCustomNotAllowed = errors.New("editor: custom parameters not allowed")
	// ErrNotCustom is returned when renaming a parameter that did
	// not come from the user.
	ErrNotCustom = errors.New("editor: parameter is not custom")
	// ErrDisableNotAllowed is returned by SetEnabled when toggling is off.
	ErrDisableNotAllowed = errors.New("editor: disabling parameters not allowed")
)

// Settings exposes the resolved policy to renderers.
type Settings struct {
	AllowCustom        bool
	AllowDisableParams bool
	AllowHideOptional  bool
	ReadOnly           bool
	Disabled           bool
	NoDocs             bool
	Narrow             bool
}

// Row is the renderer-facing view of one parameter.
type Row struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Value    string `json:"value"`
	Label    string `json:"label"`
	Binding  string `json:"binding,omitempty"`
	Required bool   `json:"required"`
	Enabled  bool   `json:"enabled"`
	Custom   bool   `json:"custom"`
	Hidden   bool   `json:"hidden"`
	Disabled bool   `json:"disabled"`
	HasDocs  bool   `json:"hasDocs"`
	Docs     string `json:"docs,omitempty"`

	// Removable rows get a remove affordance: custom rows, or every row when
	// custom parameters are allowed, unless the editor is locked.
	Removable bool `json:"removable"`
	// Record is the untouched model entry backing the row.
	Record params.Record `json:"record"`
}

// Editor applies caller policy on top of a formsync.Engine. Like the engine it
// is not safe for concurrent use.
type Editor struct {
	cfg          config
	engine       *formsync.Engine
	showOptional bool
	logger       logrus.FieldLogger
}

// New constructs an Editor.
func New(options ...Option) *Editor {
	cfg := config{
		evaluator: visibility.Optional(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		cfg.logger = logger
	}

	engine := cfg.engine
	if engine == nil {
		engine = formsync.New(formsync.WithLogger(cfg.logger))
	}

	return &Editor{
		cfg:    cfg,
		engine: engine,
		logger: cfg.logger,
	}
}

// Engine exposes the underlying engine, mainly to subscribe to events.
func (e *Editor) Engine() *formsync.Engine {
	return e.engine
}

// Settings returns the resolved policy.
func (e *Editor) Settings() Settings {
	return Settings{
		AllowCustom:        e.cfg.allowCustom,
		AllowDisableParams: e.cfg.allowDisableParams,
		AllowHideOptional:  e.cfg.allowHideOptional,
		ReadOnly:           e.cfg.readOnly,
		Disabled:           e.cfg.disabled,
		NoDocs:             e.cfg.noDocs,
		Narrow:             e.cfg.narrow,
	}
}

// Value returns the encoded string.
func (e *Editor) Value() string {
	return e.engine.Value()
}

// Model returns a copy of the parameter model.
func (e *Editor) Model() params.Model {
	return e.engine.Model()
}

// SetEncoded replaces the encoded string. Programmatic updates are not subject
// to the read-only policy.
func (e *Editor) SetEncoded(value string) bool {
	return e.engine.SetValue(value)
}

// SetModel replaces the parameter model.
func (e *Editor) SetModel(model params.Model) {
	e.engine.SetModel(model)
}

// Add appends an empty custom parameter.
func (e *Editor) Add() error {
	if err := e.writable("add"); err != nil {
		return err
	}
	if !e.cfg.allowCustom {
		return e.reject("add", -1, ErrCustomNotAllowed)
	}
	e.engine.Add()
	return nil
}

// Remove deletes the parameter at index, custom or not. Renderers offer it
// on rows marked Removable.
func (e *Editor) Remove(index int) error {
	if err := e.writable("remove"); err != nil {
		return err
	}
	return e.engine.RemoveAt(index)
}

// Rename changes the name of the custom parameter at index.
func (e *Editor) Rename(index int, name string) error {
	if err := e.customOnly("rename", index); err != nil {
		return err
	}
	return e.engine.SetName(index, name)
}

// SetValue changes the value of the parameter at index.
func (e *Editor) SetValue(index int, value string) error {
	if err := e.writable("set-value"); err != nil {
		return err
	}
	return e.engine.SetRecordValue(index, value)
}

// SetEnabled includes or excludes the parameter at index from the value.
func (e *Editor) SetEnabled(index int, enabled bool) error {
	if err := e.writable("set-enabled"); err != nil {
		return err
	}
	if !e.cfg.allowDisableParams {
		return e.reject("set-enabled", index, ErrDisableNotAllowed)
	}
	return e.engine.SetEnabled(index, enabled)
}

// ShowOptional toggles the visibility of optional parameters. It has no effect
// on the model or the value.
func (e *Editor) ShowOptional(show bool) {
	e.showOptional = show
}

// OptionalVisible reports the optional toggle state.
func (e *Editor) OptionalVisible() bool {
	return e.showOptional
}

// HasOptional reports whether renderers should offer the optional toggle.
func (e *Editor) HasOptional() bool {
	return e.cfg.allowHideOptional && visibility.HasOptional(e.engine.Model())
}

// Rows builds the renderer view-model.
func (e *Editor) Rows() []Row {
	model := e.engine.Model()
	hidden := visibility.Hidden(model, e.cfg.evaluator, visibility.Context{
		AllowHideOptional: e.cfg.allowHideOptional,
		ShowOptional:      e.showOptional,
	})
	locked := e.cfg.readOnly || e.cfg.disabled

	rows := make([]Row, 0, len(model))
	for i, record := range model {
		row := Row{
			Index:    i,
			Name:     record.Name,
			Value:    record.Value,
			Label:    label(record),
			Binding:  record.Binding,
			Required: record.Required,
			Enabled:  record.Enabled(),
			Custom:   record.Custom(),
			Hidden:   hidden[i],
			Disabled: locked,
			Record:   record,
		}
		row.Removable = !locked && (row.Custom || e.cfg.allowCustom)
		if !row.Custom && docs.Has(e.cfg.noDocs, record) {
			row.HasDocs = true
			row.Docs = docs.Markdown(record)
		}
		rows = append(rows, row)
	}
	return rows
}

func (e *Editor) writable(op string) error {
	if e.cfg.readOnly || e.cfg.disabled {
		return e.reject(op, -1, ErrReadOnly)
	}
	return nil
}

func (e *Editor) customOnly(op string, index int) error {
	if err := e.writable(op); err != nil {
		return err
	}
	if !e.cfg.allowCustom {
		return e.reject(op, index, ErrCustomNotAllowed)
	}
	record, ok := e.engine.Model().At(index)
	if !ok {
		return fmt.Errorf("editor: %s at %d: %w", op, index, params.ErrIndexOutOfRange)
	}
	if !record.Custom() {
		return e.reject(op, index, ErrNotCustom)
	}
	return nil
}

func (e *Editor) reject(op string, index int, err error) error {
	e.logger.WithFields(logrus.Fields{
		"op":    op,
		"index": index,
	}).WithError(err).Debug("editor: mutation rejected")
	if index >= 0 {
		return fmt.Errorf("editor: %s at %d: %w", op, index, err)
	}
	return fmt.Errorf("editor: %s: %w", op, err)
}

func label(record params.Record) string {
	if record.Schema.InputLabel != "" {
		return record.Schema.InputLabel
	}
	return record.Name
}
