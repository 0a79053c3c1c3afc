// Package docs builds the per-parameter documentation shown next to editor
// rows: a markdown summary of the description, the value pattern and any
// documented examples, plus a sanitised HTML rendition for web renderers.
package docs

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/goliatone/go-formdata/pkg/params"
)

// Markdown returns the documentation for record. The description comes first;
// schema notes (pattern, examples with a value) follow as a bullet list,
// separated from the description by two blank lines.
func Markdown(record params.Record) string {
	var notes strings.Builder
	if pattern := record.Schema.Pattern; pattern != "" {
		fmt.Fprintf(&notes, "- Pattern: `%s`\n", pattern)
	}
	for _, example := range record.Schema.Examples {
		if example.Value == "" {
			continue
		}
		if example.HasName && example.Name != "" {
			fmt.Fprintf(&notes, "- Example %s: `%s`\n", example.Name, example.Value)
			continue
		}
		fmt.Fprintf(&notes, "- Example: `%s`\n", example.Value)
	}

	description := record.Description
	switch {
	case description != "" && notes.Len() > 0:
		return description + "\n\n\n" + notes.String()
	case description != "":
		return description
	default:
		return notes.String()
	}
}

// Has reports whether record carries documentation worth showing. noDocs
// suppresses documentation entirely.
func Has(noDocs bool, record params.Record) bool {
	if noDocs {
		return false
	}
	if record.HasDescription {
		return true
	}
	if record.Schema.Pattern != "" {
		return true
	}
	for _, example := range record.Schema.Examples {
		if example.Value != "" {
			return true
		}
	}
	return false
}

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// HTML converts markdown to HTML and strips anything outside the UGC policy.
func HTML(markdown string) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("docs: convert markdown: %w", err)
	}
	return strings.TrimSpace(sanitizer().Sanitize(buf.String())), nil
}

func sanitizer() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()
	})
	return policy
}
