// Package template defines the engine seam the HTML renderer renders through.
// The pongo2-backed implementation lives in the gotemplate subpackage.
package template
