package params

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned by mutations addressing a missing record.
var ErrIndexOutOfRange = errors.New("params: index out of range")

// Model is the ordered collection of parameter records. Order defines the
// encoding order and names are not required to be unique.
type Model []Record

// Len returns the number of records.
func (m Model) Len() int {
	return len(m)
}

// At returns the record at index i.
func (m Model) At(i int) (Record, bool) {
	if i < 0 || i >= len(m) {
		return Record{}, false
	}
	return m[i].clone(), true
}

// Clone returns a deep copy of the model.
func (m Model) Clone() Model {
	if m == nil {
		return nil
	}
	out := make(Model, len(m))
	for i, record := range m {
		out[i] = record.clone()
	}
	return out
}

// Enabled returns the records that contribute to the encoded string, in order.
func (m Model) Enabled() Model {
	out := make(Model, 0, len(m))
	for _, record := range m {
		if record.Enabled() {
			out = append(out, record.clone())
		}
	}
	return out
}

// Equal reports whether both models hold the same records in the same order.
// The enabled flag is compared by its effective value.
func (m Model) Equal(other Model) bool {
	if len(m) != len(other) {
		return false
	}
	for i := range m {
		if !m[i].equal(other[i]) {
			return false
		}
	}
	return true
}

// Add appends an empty custom record.
func (m Model) Add() Model {
	out := m.Clone()
	return append(out, Record{
		Schema: Schema{
			Enabled:  Bool(true),
			IsCustom: true,
		},
	})
}

// RemoveAt removes the record at index i.
func (m Model) RemoveAt(i int) (Model, error) {
	if err := m.check("remove", i); err != nil {
		return m, err
	}
	out := make(Model, 0, len(m)-1)
	for idx, record := range m {
		if idx == i {
			continue
		}
		out = append(out, record.clone())
	}
	return out, nil
}

// SetValue replaces the value of the record at index i.
func (m Model) SetValue(i int, value string) (Model, error) {
	return m.update("set value", i, func(r *Record) {
		r.Value = value
	})
}

// SetName replaces the name of the record at index i.
func (m Model) SetName(i int, name string) (Model, error) {
	return m.update("set name", i, func(r *Record) {
		r.Name = name
	})
}

// SetEnabled toggles whether the record at index i is encoded. The record and
// its value stay in the model either way.
func (m Model) SetEnabled(i int, enabled bool) (Model, error) {
	return m.update("set enabled", i, func(r *Record) {
		r.Schema.Enabled = Bool(enabled)
	})
}

func (m Model) update(op string, i int, fn func(*Record)) (Model, error) {
	if err := m.check(op, i); err != nil {
		return m, err
	}
	out := m.Clone()
	fn(&out[i])
	return out, nil
}

func (m Model) check(op string, i int) error {
	if i < 0 || i >= len(m) {
		return fmt.Errorf("params: %s at %d (len %d): %w", op, i, len(m), ErrIndexOutOfRange)
	}
	return nil
}

func (r Record) clone() Record {
	out := r
	if r.Schema.Enabled != nil {
		out.Schema.Enabled = Bool(*r.Schema.Enabled)
	}
	if len(r.Schema.Examples) > 0 {
		out.Schema.Examples = append([]Example(nil), r.Schema.Examples...)
	}
	if len(r.Schema.Enum) > 0 {
		out.Schema.Enum = append([]string(nil), r.Schema.Enum...)
	}
	return out
}

func (r Record) equal(other Record) bool {
	if r.Name != other.Name ||
		r.Value != other.Value ||
		r.Binding != other.Binding ||
		r.Required != other.Required ||
		r.Description != other.Description ||
		r.HasDescription != other.HasDescription {
		return false
	}
	a, b := r.Schema, other.Schema
	if a.IsEnabled() != b.IsEnabled() ||
		a.IsCustom != b.IsCustom ||
		a.InputLabel != b.InputLabel ||
		a.Pattern != b.Pattern ||
		a.Type != b.Type {
		return false
	}
	if len(a.Examples) != len(b.Examples) || len(a.Enum) != len(b.Enum) {
		return false
	}
	for i := range a.Examples {
		if a.Examples[i] != b.Examples[i] {
			return false
		}
	}
	for i := range a.Enum {
		if a.Enum[i] != b.Enum[i] {
			return false
		}
	}
	return true
}
