package tui

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formdata/pkg/editor"
	"github.com/goliatone/go-formdata/pkg/render"
)

type entryKind int

const (
	entryRow entryKind = iota
	entryAdd
	entryChooseEnabled
	entryToggleOptional
	entryDone
)

// menuEntry maps one option of the main menu back to what it acts on.
type menuEntry struct {
	kind  entryKind
	index int // model index for entryRow
}

// State tracks the server-provided errors of a session and rebuilds the main
// menu from the editor after every change.
type State struct {
	fields map[string][]string
	form   []string
}

// NewState seeds the state with errors mapped onto rows.
func NewState(mapping render.ErrorMapping) *State {
	fields := make(map[string][]string, len(mapping.Fields))
	for name, messages := range mapping.Fields {
		fields[name] = append([]string(nil), messages...)
	}
	return &State{
		fields: fields,
		form:   append([]string(nil), mapping.Form...),
	}
}

// ErrorsFor returns the messages still attached to a parameter.
func (s *State) ErrorsFor(name string) []string {
	if s == nil {
		return nil
	}
	return s.fields[name]
}

// FormErrors returns the form-level messages.
func (s *State) FormErrors() []string {
	if s == nil {
		return nil
	}
	return s.form
}

// Clear drops the messages of a parameter once the user edited it.
func (s *State) Clear(name string) {
	if s == nil {
		return
	}
	delete(s.fields, name)
}

// menu lists the visible rows followed by the actions the policy allows.
func (s *State) menu(ed *editor.Editor, rows []editor.Row, labels map[string]string) ([]string, []menuEntry) {
	settings := ed.Settings()
	var (
		options []string
		entries []menuEntry
	)
	for _, row := range rows {
		options = append(options, s.rowLabel(row))
		entries = append(entries, menuEntry{kind: entryRow, index: row.Index})
	}
	if settings.AllowCustom {
		options = append(options, labels[render.LabelAdd])
		entries = append(entries, menuEntry{kind: entryAdd})
	}
	if settings.AllowDisableParams && len(rows) > 0 {
		options = append(options, "Choose enabled parameters")
		entries = append(entries, menuEntry{kind: entryChooseEnabled})
	}
	if ed.HasOptional() {
		label := labels[render.LabelShowOptional]
		if ed.OptionalVisible() {
			label = "Hide optional parameters"
		}
		options = append(options, label)
		entries = append(entries, menuEntry{kind: entryToggleOptional})
	}
	options = append(options, "Done")
	entries = append(entries, menuEntry{kind: entryDone})
	return options, entries
}

func (s *State) rowLabel(row editor.Row) string {
	var b strings.Builder
	if !row.Enabled {
		b.WriteString("[off] ")
	}
	name := row.Name
	if name == "" {
		name = "(unnamed)"
	}
	b.WriteString(name)
	if row.Required {
		b.WriteString("*")
	}
	fmt.Fprintf(&b, " = %s", row.Value)
	if len(s.ErrorsFor(row.Name)) > 0 {
		b.WriteString(" !")
	}
	return b.String()
}

// visibleRows drops hidden rows and applies the subset.
func visibleRows(ed *editor.Editor, subset render.FieldSubset) []editor.Row {
	all := render.ApplySubset(ed.Rows(), subset)
	out := make([]editor.Row, 0, len(all))
	for _, row := range all {
		if row.Hidden {
			continue
		}
		out = append(out, row)
	}
	return out
}
