// Package widgets picks the input control used for a parameter value.
package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formdata/pkg/params"
)

// Built-in widget identifiers.
const (
	WidgetText   = "text"
	WidgetNumber = "number"
	WidgetToggle = "toggle"
	WidgetSelect = "select"
)

// Matcher decides whether a widget should handle the supplied record.
type Matcher func(record params.Record) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry resolves widgets from registered matchers. Higher priority wins;
// ties fall back to registration order. Records no matcher claims get
// WidgetText.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a matcher. Blank names and nil matchers are ignored.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget for a record. Custom records always get a text
// input since their schema is whatever the user typed.
func (r *Registry) Resolve(record params.Record) string {
	if r == nil || record.Custom() {
		return WidgetText
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(record) {
			return entry.name
		}
	}
	return WidgetText
}

// Options lists the choices a choice widget offers, nil for free text.
func Options(widget string, record params.Record) []string {
	switch widget {
	case WidgetSelect:
		return record.Schema.Enum
	case WidgetToggle:
		return []string{"true", "false"}
	default:
		return nil
	}
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetSelect, 70, func(record params.Record) bool {
		return len(record.Schema.Enum) > 0
	})

	r.Register(WidgetToggle, 60, func(record params.Record) bool {
		return schemaType(record) == "boolean"
	})

	r.Register(WidgetNumber, 50, func(record params.Record) bool {
		switch schemaType(record) {
		case "integer", "number":
			return true
		}
		return false
	})
}

func schemaType(record params.Record) string {
	return strings.ToLower(strings.TrimSpace(record.Schema.Type))
}
