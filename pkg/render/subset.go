package render

import (
	"strings"

	"github.com/goliatone/go-formdata/pkg/editor"
)

// FieldSubset restricts rendering to some rows. Names and Bindings are
// matched case-insensitively; an empty subset keeps every row.
type FieldSubset struct {
	Names    []string
	Bindings []string
	// CustomOnly keeps only user-added rows.
	CustomOnly bool
}

// Empty reports whether the subset filters nothing.
func (s FieldSubset) Empty() bool {
	return len(s.Names) == 0 && len(s.Bindings) == 0 && !s.CustomOnly
}

// ApplySubset returns the rows matching subset. Row indexes are kept so
// renderers still address the right record.
func ApplySubset(rows []editor.Row, subset FieldSubset) []editor.Row {
	if subset.Empty() {
		return rows
	}
	names := lowerSet(subset.Names)
	bindings := lowerSet(subset.Bindings)

	out := make([]editor.Row, 0, len(rows))
	for _, row := range rows {
		if subset.CustomOnly && !row.Custom {
			continue
		}
		if len(names) > 0 && !names[strings.ToLower(row.Name)] {
			continue
		}
		if len(bindings) > 0 && !bindings[strings.ToLower(row.Binding)] {
			continue
		}
		out = append(out, row)
	}
	return out
}

func lowerSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]bool, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out[strings.ToLower(trimmed)] = true
		}
	}
	return out
}
