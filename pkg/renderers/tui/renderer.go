// Package tui edits a parameter model interactively in the terminal. The
// session walks a menu of rows and actions, applies every change through the
// editor policy and returns the result in the configured output format.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formdata/pkg/editor"
	"github.com/goliatone/go-formdata/pkg/params"
	"github.com/goliatone/go-formdata/pkg/render"
	"github.com/goliatone/go-formdata/pkg/widgets"
)

const defaultMaxAttempts = 5

// Renderer implements render.Renderer for terminal sessions.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	maxAttempts       int
	widgets           *widgets.Registry
	logger            logrus.FieldLogger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, form output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatFormURLEncoded,
		maxAttempts:  defaultMaxAttempts,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	if _, ok := ParseOutputFormat(string(r.outputFormat)); !ok {
		return nil, fmt.Errorf("tui: unknown output format %q", r.outputFormat)
	}
	if r.widgets == nil {
		r.widgets = widgets.NewRegistry()
	}
	if r.logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		r.logger = logger
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatJSON:
		return "application/json"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/x-www-form-urlencoded"
	}
}

// Render runs the session until the user picks Done, then serializes the
// editor model. Read-only and disabled editors are serialized without
// prompting.
func (r *Renderer) Render(ctx context.Context, ed *editor.Editor, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if ed == nil {
		return nil, errors.New("tui: editor is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.session(ctx, ed, opts); err != nil {
		return nil, err
	}
	return r.serialize(ed)
}

type session struct {
	*Renderer
	ed     *editor.Editor
	opts   render.RenderOptions
	state  *State
	labels map[string]string
}

func (r *Renderer) session(ctx context.Context, ed *editor.Editor, opts render.RenderOptions) error {
	settings := ed.Settings()
	if settings.ReadOnly || settings.Disabled {
		return r.info(ctx, "Parameters are read only.")
	}

	s := &session{
		Renderer: r,
		ed:       ed,
		opts:     opts,
		state:    NewState(render.MapErrorPayload(ed.Rows(), opts.Errors)),
		labels:   render.Labels(opts),
	}
	for _, message := range s.state.FormErrors() {
		if err := r.fail(ctx, message); err != nil {
			return err
		}
	}

	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = "Parameters"
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rows := visibleRows(ed, opts.Subset)
		if len(rows) == 0 {
			if err := r.info(ctx, s.labels[render.LabelEmpty]); err != nil {
				return err
			}
		}
		options, entries := s.state.menu(ed, rows, s.labels)
		choice, err := r.driver.Select(ctx, SelectConfig{
			Message: title,
			Options: options,
			Help:    "Encoded: " + ed.Value(),
		})
		if err != nil {
			return fmt.Errorf("tui: main menu: %w", err)
		}
		if choice < 0 || choice >= len(entries) {
			return fmt.Errorf("tui: main menu: choice %d out of range", choice)
		}

		entry := entries[choice]
		switch entry.kind {
		case entryDone:
			r.logger.WithField("value", ed.Value()).Debug("tui: session done")
			return nil
		case entryRow:
			err = s.editRow(ctx, entry.index)
		case entryAdd:
			err = s.addCustom(ctx)
		case entryChooseEnabled:
			err = s.chooseEnabled(ctx, rows)
		case entryToggleOptional:
			ed.ShowOptional(!ed.OptionalVisible())
		}
		if err != nil {
			return err
		}
	}
}

const (
	actionEdit = iota
	actionToggle
	actionRename
	actionRemove
	actionDocs
	actionBack
)

func (s *session) editRow(ctx context.Context, index int) error {
	row, ok := s.row(index)
	if !ok {
		return nil
	}
	for _, message := range s.state.ErrorsFor(row.Name) {
		if err := s.fail(ctx, message); err != nil {
			return err
		}
	}

	settings := s.ed.Settings()
	options := []string{"Edit value"}
	actions := []int{actionEdit}
	if settings.AllowDisableParams {
		label := "Disable parameter"
		if !row.Enabled {
			label = s.labels[render.LabelEnable]
		}
		options = append(options, label)
		actions = append(actions, actionToggle)
	}
	if row.Custom && settings.AllowCustom {
		options = append(options, "Rename parameter")
		actions = append(actions, actionRename)
	}
	if row.Removable {
		options = append(options, s.labels[render.LabelRemove])
		actions = append(actions, actionRemove)
	}
	if row.HasDocs {
		options = append(options, "Show documentation")
		actions = append(actions, actionDocs)
	}
	options = append(options, "Back")
	actions = append(actions, actionBack)

	choice, err := s.driver.Select(ctx, SelectConfig{
		Message: row.Label,
		Options: options,
	})
	if err != nil {
		return fmt.Errorf("tui: %s: %w", row.Name, err)
	}
	if choice < 0 || choice >= len(actions) {
		return fmt.Errorf("tui: %s: choice %d out of range", row.Name, choice)
	}

	switch actions[choice] {
	case actionEdit:
		return s.editValue(ctx, row)
	case actionToggle:
		return s.apply(ctx, s.ed.SetEnabled(row.Index, !row.Enabled))
	case actionRename:
		name, err := s.askName(ctx, row.Name)
		if err != nil {
			return err
		}
		s.state.Clear(row.Name)
		return s.apply(ctx, s.ed.Rename(row.Index, name))
	case actionRemove:
		ok, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Remove %s?", row.Name),
		})
		if err != nil {
			return fmt.Errorf("tui: %s: %w", row.Name, err)
		}
		if !ok {
			return nil
		}
		s.state.Clear(row.Name)
		return s.apply(ctx, s.ed.Remove(row.Index))
	case actionDocs:
		return s.info(ctx, row.Docs)
	}
	return nil
}

func (s *session) editValue(ctx context.Context, row editor.Row) error {
	value, err := s.askValue(ctx, row)
	if err != nil {
		return err
	}
	s.state.Clear(row.Name)
	return s.apply(ctx, s.ed.SetValue(row.Index, value))
}

func (s *session) addCustom(ctx context.Context) error {
	if err := s.ed.Add(); err != nil {
		return s.apply(ctx, err)
	}
	index := s.ed.Model().Len() - 1
	name, err := s.askName(ctx, "")
	if err != nil {
		// discard the blank record added above
		if rmErr := s.ed.Remove(index); rmErr != nil {
			s.logger.WithError(rmErr).Debug("tui: discard unnamed parameter")
		}
		return err
	}
	if err := s.apply(ctx, s.ed.Rename(index, name)); err != nil {
		return err
	}
	row, ok := s.row(index)
	if !ok {
		return nil
	}
	return s.editValue(ctx, row)
}

func (s *session) chooseEnabled(ctx context.Context, rows []editor.Row) error {
	options := make([]string, len(rows))
	var defaults []int
	for i, row := range rows {
		options[i] = row.Label
		if row.Enabled {
			defaults = append(defaults, i)
		}
	}
	picked, err := s.driver.MultiSelect(ctx, SelectConfig{
		Message:  "Enabled parameters",
		Options:  options,
		Defaults: defaults,
	})
	if err != nil {
		return fmt.Errorf("tui: choose enabled: %w", err)
	}
	enabled := make(map[int]bool, len(picked))
	for _, i := range picked {
		enabled[i] = true
	}
	for i, row := range rows {
		if row.Enabled == enabled[i] {
			continue
		}
		if err := s.apply(ctx, s.ed.SetEnabled(row.Index, enabled[i])); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) askName(ctx context.Context, current string) (string, error) {
	for attempt := 1; ; attempt++ {
		name, err := s.driver.Input(ctx, InputConfig{
			Message: s.labels[render.LabelName],
			Default: current,
		})
		if err != nil {
			return "", fmt.Errorf("tui: name: %w", err)
		}
		name = strings.TrimSpace(name)
		if name != "" {
			return name, nil
		}
		if err := s.retry(ctx, attempt, "name is required"); err != nil {
			return "", err
		}
	}
}

func (s *session) askValue(ctx context.Context, row editor.Row) (string, error) {
	if enum := widgets.Options(s.widgets.Resolve(row.Record), row.Record); len(enum) > 0 {
		idx := 0
		for i, option := range enum {
			if option == row.Value {
				idx = i
				break
			}
		}
		choice, err := s.driver.Select(ctx, SelectConfig{
			Message:      row.Label,
			Options:      enum,
			DefaultIndex: idx,
		})
		if err != nil {
			return "", fmt.Errorf("tui: %s: %w", row.Name, err)
		}
		if choice < 0 || choice >= len(enum) {
			return "", fmt.Errorf("tui: %s: choice %d out of range", row.Name, choice)
		}
		return enum[choice], nil
	}

	for attempt := 1; ; attempt++ {
		value, err := s.driver.Input(ctx, InputConfig{
			Message: row.Label,
			Default: row.Value,
			Help:    row.Docs,
		})
		if err != nil {
			return "", fmt.Errorf("tui: %s: %w", row.Name, err)
		}
		problem := s.validate(row, value)
		if problem == "" {
			return value, nil
		}
		if err := s.retry(ctx, attempt, problem); err != nil {
			return "", err
		}
	}
}

// validate mirrors the browser checks of the HTML renderer: required values
// must be non-empty and patterns must match the whole value.
func (s *session) validate(row editor.Row, value string) string {
	if value == "" {
		if row.Required {
			return fmt.Sprintf("%s is required", row.Label)
		}
		return ""
	}
	pattern := row.Record.Schema.Pattern
	if pattern == "" {
		return ""
	}
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		s.logger.WithError(err).WithField("pattern", pattern).Debug("tui: skipping invalid pattern")
		return ""
	}
	if !re.MatchString(value) {
		return fmt.Sprintf("%s must match %s", row.Label, pattern)
	}
	return ""
}

func (s *session) retry(ctx context.Context, attempt int, problem string) error {
	if err := s.fail(ctx, problem); err != nil {
		return err
	}
	if s.maxAttempts > 0 && attempt >= s.maxAttempts {
		return fmt.Errorf("%w: %s", ErrTooManyAttempts, problem)
	}
	return nil
}

// apply reports policy errors to the user and keeps the session going.
func (s *session) apply(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	s.logger.WithError(err).Debug("tui: change rejected")
	return s.fail(ctx, err.Error())
}

func (s *session) row(index int) (editor.Row, bool) {
	rows := s.ed.Rows()
	if index < 0 || index >= len(rows) {
		return editor.Row{}, false
	}
	return rows[index], true
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	if err := r.driver.Info(ctx, r.theme.InfoPrefix+msg); err != nil {
		return fmt.Errorf("tui: info: %w", err)
	}
	return nil
}

func (r *Renderer) fail(ctx context.Context, msg string) error {
	prefix := r.theme.ErrorPrefix
	if prefix == "" {
		prefix = "error: "
	}
	if err := r.driver.Info(ctx, prefix+msg); err != nil {
		return fmt.Errorf("tui: info: %w", err)
	}
	return nil
}

func (r *Renderer) serialize(ed *editor.Editor) ([]byte, error) {
	model := ed.Model()
	value := ed.Value()
	if r.submitTransformer != nil {
		transformed, err := r.submitTransformer(model)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
		model = transformed
		value = params.Encode(model)
	}

	switch r.outputFormat {
	case OutputFormatJSON:
		if model == nil {
			model = params.Model{}
		}
		payload, err := json.MarshalIndent(model, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: marshal model: %w", err)
		}
		return payload, nil
	case OutputFormatPrettyText:
		return []byte(prettyText(model, value)), nil
	default:
		return []byte(value), nil
	}
}

func prettyText(model params.Model, value string) string {
	var b strings.Builder
	for _, record := range model {
		fmt.Fprintf(&b, "%s = %s", record.Name, record.Value)
		if !record.Enabled() {
			b.WriteString(" (disabled)")
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nencoded: %s\n", value)
	return b.String()
}
