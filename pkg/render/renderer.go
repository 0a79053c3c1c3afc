// Package render defines the renderer contract shared by the HTML and terminal
// front ends, along with the per-request options they honour: theme, labels,
// hidden inputs, row subsets and server-side errors.
package render

import (
	"context"

	"github.com/goliatone/go-formdata/pkg/editor"
)

// Renderer turns an editor's current state into a byte representation.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, ed *editor.Editor, options RenderOptions) ([]byte, error)
}
